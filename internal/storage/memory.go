package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tajious/shagun/internal/models"
)

// InMemoryStorage keeps everything in maps behind one mutex. Returned
// records are copies.
type InMemoryStorage struct {
	mu            sync.RWMutex
	tenants       map[string]*models.Tenant
	mobiles       map[string]string
	contributions map[string]*models.Contribution
	seq           map[string]int64
	next          int64

	// Now stamps CreatedAt/UpdatedAt.
	Now func() time.Time
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		tenants:       make(map[string]*models.Tenant),
		mobiles:       make(map[string]string),
		contributions: make(map[string]*models.Contribution),
		seq:           make(map[string]int64),
		Now:           time.Now,
	}
}

func (s *InMemoryStorage) Close() error { return nil }

func (s *InMemoryStorage) stamp(id string) time.Time {
	s.next++
	s.seq[id] = s.next
	return s.Now()
}

func copyTenant(t *models.Tenant) *models.Tenant {
	out := *t
	if t.SubscriptionExpiresAt != nil {
		expires := *t.SubscriptionExpiresAt
		out.SubscriptionExpiresAt = &expires
	}
	return &out
}

func copyContribution(c *models.Contribution) *models.Contribution {
	out := *c
	return &out
}

func (s *InMemoryStorage) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.mobiles[tenant.AdminMobileNumber]; taken {
		return ErrDuplicateMobile
	}
	now := s.stamp(tenant.ID)
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	s.tenants[tenant.ID] = copyTenant(tenant)
	s.mobiles[tenant.AdminMobileNumber] = tenant.ID
	return nil
}

func (s *InMemoryStorage) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, exists := s.tenants[id]
	if !exists {
		return nil, ErrTenantNotFound
	}
	return copyTenant(tenant), nil
}

func (s *InMemoryStorage) GetTenantByMobile(ctx context.Context, mobile string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.mobiles[mobile]
	if !exists {
		return nil, ErrTenantNotFound
	}
	return copyTenant(s.tenants[id]), nil
}

func (s *InMemoryStorage) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenants := make([]*models.Tenant, 0, len(s.tenants))
	for _, tenant := range s.tenants {
		tenants = append(tenants, copyTenant(tenant))
	}
	sort.Slice(tenants, func(i, j int) bool {
		if !tenants[i].CreatedAt.Equal(tenants[j].CreatedAt) {
			return tenants[i].CreatedAt.After(tenants[j].CreatedAt)
		}
		return s.seq[tenants[i].ID] > s.seq[tenants[j].ID]
	})
	return tenants, nil
}

func (s *InMemoryStorage) UpdateTenant(ctx context.Context, id string, patch models.TenantPatch) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, exists := s.tenants[id]
	if !exists {
		return nil, ErrTenantNotFound
	}
	if patch.Empty() {
		return copyTenant(tenant), nil
	}

	if patch.AdminMobileNumber != nil && *patch.AdminMobileNumber != tenant.AdminMobileNumber {
		if _, taken := s.mobiles[*patch.AdminMobileNumber]; taken {
			return nil, ErrDuplicateMobile
		}
		delete(s.mobiles, tenant.AdminMobileNumber)
		s.mobiles[*patch.AdminMobileNumber] = id
	}

	patch.Apply(tenant)
	tenant.UpdatedAt = s.Now()
	return copyTenant(tenant), nil
}

func (s *InMemoryStorage) ApplyExpiry(ctx context.Context, id string, now time.Time, patch models.TenantPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, exists := s.tenants[id]
	if !exists {
		return false, nil
	}
	if tenant.Status != models.StatusActive || tenant.SubscriptionExpiresAt == nil || !tenant.SubscriptionExpiresAt.Before(now) {
		return false, nil
	}
	patch.Apply(tenant)
	tenant.UpdatedAt = s.Now()
	return true, nil
}

func (s *InMemoryStorage) DeleteTenant(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, exists := s.tenants[id]
	if !exists {
		return ErrTenantNotFound
	}
	for cid, c := range s.contributions {
		if c.MarriageID == id {
			delete(s.contributions, cid)
			delete(s.seq, cid)
		}
	}
	delete(s.mobiles, tenant.AdminMobileNumber)
	delete(s.tenants, id)
	delete(s.seq, id)
	return nil
}

func (s *InMemoryStorage) CreateContribution(ctx context.Context, c *models.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp(c.ID)
	c.CreatedAt = now
	c.UpdatedAt = now
	s.contributions[c.ID] = copyContribution(c)
	return nil
}

func (s *InMemoryStorage) GetContribution(ctx context.Context, id string) (*models.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.contributions[id]
	if !exists {
		return nil, ErrContributionNotFound
	}
	return copyContribution(c), nil
}

// byTenant returns the tenant's contributions newest first. Callers hold mu.
func (s *InMemoryStorage) byTenant(marriageID string) []*models.Contribution {
	var out []*models.Contribution
	for _, c := range s.contributions {
		if c.MarriageID == marriageID {
			out = append(out, copyContribution(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out
}

func (s *InMemoryStorage) ListContributions(ctx context.Context, marriageID string, offset, limit int) ([]*models.Contribution, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.byTenant(marriageID)
	total := int64(len(all))
	if offset < 0 || offset >= len(all) {
		return []*models.Contribution{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *InMemoryStorage) AllContributions(ctx context.Context, marriageID string) ([]*models.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.byTenant(marriageID)
	if all == nil {
		all = []*models.Contribution{}
	}
	return all, nil
}

func (s *InMemoryStorage) UpdateContribution(ctx context.Context, id string, patch models.ContributionPatch) (*models.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.contributions[id]
	if !exists {
		return nil, ErrContributionNotFound
	}
	if !patch.Empty() {
		patch.Apply(c)
		c.UpdatedAt = s.Now()
	}
	return copyContribution(c), nil
}

func (s *InMemoryStorage) DeleteContribution(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contributions[id]; !exists {
		return ErrContributionNotFound
	}
	delete(s.contributions, id)
	delete(s.seq, id)
	return nil
}

func (s *InMemoryStorage) ContributionStats(ctx context.Context, marriageID string) (*models.ContributionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.ContributionStats{
		TotalAmount:     decimal.Zero,
		TotalCashAmount: decimal.Zero,
		TotalUpiAmount:  decimal.Zero,
	}
	for _, c := range s.contributions {
		if c.MarriageID != marriageID {
			continue
		}
		stats.TotalAmount = stats.TotalAmount.Add(c.Amount)
		switch c.PaymentMode {
		case models.PaymentCash:
			stats.TotalCashAmount = stats.TotalCashAmount.Add(c.Amount)
		case models.PaymentUPI:
			stats.TotalUpiAmount = stats.TotalUpiAmount.Add(c.Amount)
		}
		stats.TotalVisitors++
		if c.GiftGiven {
			stats.TotalGifts++
		}
	}
	return stats, nil
}
