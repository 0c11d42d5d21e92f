package storage

import (
	"context"
	"errors"
	"time"

	"github.com/tajious/shagun/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresStorage struct {
	db *gorm.DB
}

func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Tenant{}, &models.Contribution{}); err != nil {
		return nil, err
	}

	return &PostgresStorage{db: db}, nil
}

func (s *PostgresStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStorage) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if err := s.db.WithContext(ctx).Create(tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMobile
		}
		return err
	}
	return nil
}

func (s *PostgresStorage) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (s *PostgresStorage) GetTenantByMobile(ctx context.Context, mobile string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "admin_mobile_number = ?", mobile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (s *PostgresStorage) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	var tenants []*models.Tenant
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (s *PostgresStorage) UpdateTenant(ctx context.Context, id string, patch models.TenantPatch) (*models.Tenant, error) {
	if patch.Empty() {
		return s.GetTenant(ctx, id)
	}

	res := s.db.WithContext(ctx).Model(&models.Tenant{}).Where("id = ?", id).Updates(patch.Columns())
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateMobile
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTenantNotFound
	}
	return s.GetTenant(ctx, id)
}

func (s *PostgresStorage) ApplyExpiry(ctx context.Context, id string, now time.Time, patch models.TenantPatch) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Tenant{}).
		Where("id = ? AND status = ? AND subscription_expires_at IS NOT NULL AND subscription_expires_at < ?",
			id, models.StatusActive, now).
		Updates(patch.Columns())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *PostgresStorage) DeleteTenant(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("marriage_id = ?", id).Delete(&models.Contribution{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Tenant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTenantNotFound
		}
		return nil
	})
}

func (s *PostgresStorage) CreateContribution(ctx context.Context, c *models.Contribution) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *PostgresStorage) GetContribution(ctx context.Context, id string) (*models.Contribution, error) {
	var c models.Contribution
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContributionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStorage) ListContributions(ctx context.Context, marriageID string, offset, limit int) ([]*models.Contribution, int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(&models.Contribution{}).Where("marriage_id = ?", marriageID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contributions []*models.Contribution
	if err := s.db.WithContext(ctx).
		Where("marriage_id = ?", marriageID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contributions).Error; err != nil {
		return nil, 0, err
	}
	return contributions, total, nil
}

func (s *PostgresStorage) AllContributions(ctx context.Context, marriageID string) ([]*models.Contribution, error) {
	var contributions []*models.Contribution
	if err := s.db.WithContext(ctx).
		Where("marriage_id = ?", marriageID).
		Order("created_at DESC").
		Find(&contributions).Error; err != nil {
		return nil, err
	}
	return contributions, nil
}

func (s *PostgresStorage) UpdateContribution(ctx context.Context, id string, patch models.ContributionPatch) (*models.Contribution, error) {
	if patch.Empty() {
		return s.GetContribution(ctx, id)
	}
	res := s.db.WithContext(ctx).Model(&models.Contribution{}).Where("id = ?", id).Updates(patch.Columns())
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrContributionNotFound
	}
	return s.GetContribution(ctx, id)
}

func (s *PostgresStorage) DeleteContribution(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Contribution{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContributionNotFound
	}
	return nil
}

func (s *PostgresStorage) ContributionStats(ctx context.Context, marriageID string) (*models.ContributionStats, error) {
	var stats models.ContributionStats
	err := s.db.WithContext(ctx).Model(&models.Contribution{}).
		Select(`COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(CASE WHEN payment_mode = ? THEN amount ELSE 0 END), 0) AS total_cash_amount,
			COALESCE(SUM(CASE WHEN payment_mode = ? THEN amount ELSE 0 END), 0) AS total_upi_amount,
			COUNT(*) AS total_visitors,
			COALESCE(SUM(CASE WHEN gift_given THEN 1 ELSE 0 END), 0) AS total_gifts`,
			models.PaymentCash, models.PaymentUPI).
		Where("marriage_id = ?", marriageID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
