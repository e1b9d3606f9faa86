package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	repo := postgresql.NewUserRepository(newTestDatabase(t))
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	memberID := "1700000000001"
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	_, err = repo.Create(ctx, user.User{
		ID: "u1", Email: "admin@example.com", Name: "관리자", PasswordHash: "hash",
		IsAdmin: true, MemberID: &memberID, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.User{ID: "u2", Email: "ADMIN@example.com", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	byEmail, err := repo.GetByEmail(ctx, "Admin@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)
	assert.True(t, byEmail.IsAdmin)
	require.NotNil(t, byEmail.MemberID)
	assert.Equal(t, memberID, *byEmail.MemberID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
