package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tajious/shagun/internal/config"
	"github.com/tajious/shagun/internal/models"
)

var (
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrDuplicateMobile      = errors.New("mobile number already registered")
	ErrContributionNotFound = errors.New("contribution not found")
)

type Storage interface {
	TenantStore
	ContributionStore
	Close() error
}

type TenantStore interface {
	// CreateTenant inserts t, failing with ErrDuplicateMobile when the mobile
	// number is taken. The uniqueness check and the insert are one operation.
	CreateTenant(ctx context.Context, t *models.Tenant) error
	GetTenant(ctx context.Context, id string) (*models.Tenant, error)
	GetTenantByMobile(ctx context.Context, mobile string) (*models.Tenant, error)
	// ListTenants returns every tenant, newest first.
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	UpdateTenant(ctx context.Context, id string, patch models.TenantPatch) (*models.Tenant, error)
	// ApplyExpiry writes patch only if the tenant is still active and its
	// expiry is before now. It reports whether a row changed.
	ApplyExpiry(ctx context.Context, id string, now time.Time, patch models.TenantPatch) (bool, error)
	DeleteTenant(ctx context.Context, id string) error
}

type ContributionStore interface {
	CreateContribution(ctx context.Context, c *models.Contribution) error
	GetContribution(ctx context.Context, id string) (*models.Contribution, error)
	// ListContributions returns one page for the tenant, newest first, and
	// the tenant's total count.
	ListContributions(ctx context.Context, marriageID string, offset, limit int) ([]*models.Contribution, int64, error)
	AllContributions(ctx context.Context, marriageID string) ([]*models.Contribution, error)
	UpdateContribution(ctx context.Context, id string, patch models.ContributionPatch) (*models.Contribution, error)
	DeleteContribution(ctx context.Context, id string) error
	ContributionStats(ctx context.Context, marriageID string) (*models.ContributionStats, error)
}

func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// Open picks the backend named by cfg.Driver.
func Open(cfg config.DatabaseConfig) (Storage, error) {
	switch cfg.Driver {
	case "memory":
		return NewInMemoryStorage(), nil
	case "", "postgres":
		return NewPostgresStorage(BuildDSN(cfg))
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
