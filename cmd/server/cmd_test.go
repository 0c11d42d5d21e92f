package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/models"
	"github.com/tajious/shagun/internal/storage"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	defer func() { Version, GitCommit = oldVersion, oldCommit }()

	Version, GitCommit = "1.2.3", "abcdef"
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Shagun 1.2.3")
	assert.Contains(t, out, "Commit: abcdef")

	GitCommit = "unknown"
	out, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.NotContains(t, out, "Commit:")
}

func TestHashPasswordCmd(t *testing.T) {
	out, err := execute(t, "", "hash-password", "--algorithm", "bcrypt", "correct-horse")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.NoError(t, auth.BcryptHasher{}.Compare(hash, "correct-horse"))
}

func TestHashPasswordCmdReadsStdin(t *testing.T) {
	out, err := execute(t, "battery-staple\n", "hash-password", "--algorithm", "argon2id")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NoError(t, auth.Argon2idHasher{}.Compare(hash, "battery-staple"))
}

func TestHashPasswordCmdRejectsShortPassword(t *testing.T) {
	_, err := execute(t, "", "hash-password", "--algorithm", "bcrypt", "short")
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemoryStorage()
	require.NoError(t, store.CreateTenant(ctx, &models.Tenant{
		ID:                "m-1",
		MarriageName:      "Asha & Ravi",
		AdminMobileNumber: "9876543210",
		Role:              models.RoleUser,
		Permissions:       models.PermissionPending,
		Status:            models.StatusInactive,
	}))

	tenant, err := promote(ctx, store, " 9876543210 ", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, tenant.Role)

	stored, err := store.GetTenant(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.Equal(t, models.PermissionPending, stored.Permissions)

	_, err = promote(ctx, store, "9000000000", models.RoleAdmin)
	assert.ErrorContains(t, err, "no marriage registered")

	_, err = promote(ctx, store, "9876543210", models.Role("owner"))
	assert.ErrorContains(t, err, "unknown role")
}
