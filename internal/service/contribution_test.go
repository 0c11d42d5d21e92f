package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/models"
)

func contributionRequest(amount int64, mode models.PaymentMode) ContributionRequest {
	return ContributionRequest{
		VisitorName: "Suresh",
		Amount:      decimal.NewFromInt(amount),
		PaymentMode: mode,
		Address:     "Nashik",
	}
}

func TestAddRequiresApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenant := f.register(t, "9876543210")

	// The token says approved, the store says pending: the store wins.
	claims := &models.Claims{ID: tenant.ID, Role: models.RoleUser, Permissions: models.PermissionApproved}
	_, err := f.contributions.Add(ctx, claims, contributionRequest(501, models.PaymentCash))
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	f.approve(t, tenant.ID)
	c, err := f.contributions.Add(ctx, claims, contributionRequest(501, models.PaymentCash))
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, c.MarriageID)
	assert.Equal(t, models.DefaultContributionNotes, c.Notes)
	assert.False(t, c.GiftGiven)
}

func TestAddValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenant := f.register(t, "9876543210")
	f.approve(t, tenant.ID)
	claims := &models.Claims{ID: tenant.ID, Role: models.RoleUser}

	bad := []ContributionRequest{
		contributionRequest(0, models.PaymentCash),
		contributionRequest(-5, models.PaymentUPI),
		contributionRequest(100, models.PaymentMode("CHEQUE")),
		{VisitorName: " ", Amount: decimal.NewFromInt(1), PaymentMode: models.PaymentCash, Address: "x"},
		{VisitorName: "A", Amount: decimal.NewFromInt(1), PaymentMode: models.PaymentCash},
	}
	for i, req := range bad {
		_, err := f.contributions.Add(ctx, claims, req)
		assert.ErrorIs(t, err, apperror.ErrValidation, "case %d", i)
	}
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenant := f.register(t, "9876543210")
	f.approve(t, tenant.ID)
	claims := &models.Claims{ID: tenant.ID, Role: models.RoleUser}

	for i := 0; i < 5; i++ {
		req := contributionRequest(int64(100+i), models.PaymentUPI)
		req.VisitorName = fmt.Sprintf("Visitor %d", i)
		_, err := f.contributions.Add(ctx, claims, req)
		require.NoError(t, err)
	}

	page, err := f.contributions.List(ctx, claims, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, int64(5), page.TotalVisitors)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Visitor 2", page.Data[0].VisitorName)

	page, err = f.contributions.List(ctx, claims, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, MaxPageLimit, page.Limit)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)

	page, err = f.contributions.List(ctx, claims, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageLimit, page.Limit)
}

func TestListRejectsHugePage(t *testing.T) {
	f := newFixture(t)
	tenant := f.register(t, "9876543210")
	claims := &models.Claims{ID: tenant.ID, Role: models.RoleUser}

	_, err := f.contributions.List(context.Background(), claims, 1<<62, 20)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	page, err := f.contributions.List(context.Background(), claims, maxPage, MaxPageLimit)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestDeleteAndUpdateOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "9000000001")
	other := f.register(t, "9000000002")
	f.approve(t, owner.ID)
	ownerClaims := &models.Claims{ID: owner.ID, Role: models.RoleUser}
	otherClaims := &models.Claims{ID: other.ID, Role: models.RoleUser}

	c, err := f.contributions.Add(ctx, ownerClaims, contributionRequest(1100, models.PaymentCash))
	require.NoError(t, err)

	_, err = f.contributions.Update(ctx, otherClaims, c.ID, ContributionUpdateRequest{GiftGiven: ptr(true)})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, f.contributions.Delete(ctx, otherClaims, c.ID), apperror.ErrForbidden)

	amount := decimal.NewFromInt(2100)
	updated, err := f.contributions.Update(ctx, ownerClaims, c.ID, ContributionUpdateRequest{Amount: &amount, GiftGiven: ptr(true)})
	require.NoError(t, err)
	assert.True(t, amount.Equal(updated.Amount))
	assert.True(t, updated.GiftGiven)

	zero := decimal.Zero
	_, err = f.contributions.Update(ctx, ownerClaims, c.ID, ContributionUpdateRequest{Amount: &zero})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, f.contributions.Delete(ctx, ownerClaims, c.ID))
	assert.ErrorIs(t, f.contributions.Delete(ctx, ownerClaims, c.ID), apperror.ErrNotFound)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tenant := f.register(t, "9876543210")
	f.approve(t, tenant.ID)
	claims := &models.Claims{ID: tenant.ID, Role: models.RoleUser}

	stats, err := f.contributions.Stats(ctx, claims)
	require.NoError(t, err)
	assert.True(t, stats.TotalAmount.IsZero())

	_, err = f.contributions.Add(ctx, claims, contributionRequest(500, models.PaymentCash))
	require.NoError(t, err)
	gift := contributionRequest(1000, models.PaymentUPI)
	gift.GiftGiven = true
	_, err = f.contributions.Add(ctx, claims, gift)
	require.NoError(t, err)

	stats, err = f.contributions.Stats(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "1500", stats.TotalAmount.String())
	assert.Equal(t, "500", stats.TotalCashAmount.String())
	assert.Equal(t, "1000", stats.TotalUpiAmount.String())
	assert.Equal(t, int64(2), stats.TotalVisitors)
	assert.Equal(t, int64(1), stats.TotalGifts)
}
