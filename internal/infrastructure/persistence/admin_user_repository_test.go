package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/masgolf/backend/internal/domain/analytics"
	"github.com/masgolf/backend/internal/domain/identity"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAdminUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAdminUserRepository(newTestDB(t))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	u, err := identity.NewAdminUser("Manager", "correct-horse", "매니저", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, u))

	got, err := repo.FindByUsername(ctx, " manager ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.VerifyPassword("correct-horse"))

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormABTestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormABTestSettingsRepository(newTestDB(t))

	_, err := repo.Get(ctx, "funnel-2025-08")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	s := &analytics.Settings{BaseEntity: shared.NewBaseEntity(), TestName: "funnel-2025-08", ActiveVersion: "a", AutoSwitch: true}
	require.NoError(t, repo.Save(ctx, s))

	s.ActiveVersion = "b"
	s.SwitchedAt = &now
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, "funnel-2025-08")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ActiveVersion)
	assert.True(t, got.AutoSwitch)
	require.NotNil(t, got.SwitchedAt)
}
