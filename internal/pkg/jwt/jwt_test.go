package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService("test-secret", time.Hour).(*JWTService)
}

func TestGenerateAccessToken_ClaimsRoundTrip(t *testing.T) {
	svc := newTestService()
	memberID := "1700000000001"

	token, expiresAt, err := svc.GenerateAccessToken(user.User{
		ID: "u1", Email: "admin@example.com", Name: "관리자", IsAdmin: true, MemberID: &memberID,
	})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), parsed, nil)

	p, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "u1", Email: "admin@example.com", Name: "관리자", IsAdmin: true}, p)

	claims, err := parsed.AsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims["type"])
	assert.Equal(t, memberID, claims["member_id"])
}

func TestSSEToken(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateSSEToken(Principal{UserID: "u2", Email: "user@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	p, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", p.Email)
	assert.False(t, p.IsAdmin)

	access, _, err := svc.GenerateAccessToken(user.User{ID: "u2", Email: "user@example.com"})
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = svc.ValidateSSEToken("not-a-token")
	assert.Error(t, err)
}

func TestRevokeAndPrune(t *testing.T) {
	svc := newTestService()
	token, expiresAt, err := svc.GenerateAccessToken(user.User{ID: "u3", Email: "u3@example.com"})
	require.NoError(t, err)

	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))

	assert.Zero(t, svc.PruneRevoked(time.Now()))
	assert.True(t, svc.IsTokenRevoked(token))

	assert.Equal(t, 1, svc.PruneRevoked(time.Unix(expiresAt+1, 0)))
	assert.False(t, svc.IsTokenRevoked(token))
}
