package auth

import (
	"context"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Logout revokes the bearer token carried by ctx.
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context) (user.UserResponse, error)
	StreamToken(ctx context.Context) (StreamTokenResponse, error)
	// SeedAdmin creates the configured administrator when no user exists yet.
	SeedAdmin(ctx context.Context, req SeedAdminRequest) error
}
