package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	memberRepo member.MemberRepository
	jwt.Service
	bcryptCost int
	now        func() time.Time
}

type Option func(*AuthServiceImpl)

// WithBcryptCost lowers the hashing cost, for tests.
func WithBcryptCost(cost int) Option {
	return func(a *AuthServiceImpl) {
		a.bcryptCost = cost
	}
}

func NewAuthService(userRepository user.UserRepository, memberRepo member.MemberRepository, jwtService jwt.Service, opts ...Option) auth.AuthService {
	a := &AuthServiceImpl{
		UserRepository: userRepository,
		memberRepo:     memberRepo,
		Service:        jwtService,
		bcryptCost:     bcrypt.DefaultCost,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	slog.Info("User logged in", "user_id", userData.ID)
	return a.issue(userData)
}

// Register implements auth.AuthService. A user whose email matches a member record is
// linked to it and inherits the member's admin flag.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if _, err := a.UserRepository.GetByEmail(ctx, req.Email); err == nil {
		return auth.TokenResponse{}, user.ErrUserEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	newUser := user.User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if linked, ok := a.findMember(ctx, req.Email); ok {
		newUser.MemberID = &linked.ID
		newUser.IsAdmin = linked.IsAdmin
	}

	created, err := a.UserRepository.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return auth.TokenResponse{}, err
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered", "user_id", created.ID, "linked_member", created.MemberID != nil)
	return a.issue(created)
}

func (a *AuthServiceImpl) findMember(ctx context.Context, email string) (member.Member, bool) {
	if a.memberRepo == nil {
		return member.Member{}, false
	}
	members, err := a.memberRepo.List(ctx)
	if err != nil {
		slog.Warn("Failed to list members for user link", "error", err)
		return member.Member{}, false
	}
	for _, m := range members {
		if strings.EqualFold(m.Email, email) {
			return m, true
		}
	}
	return member.Member{}, false
}

func (a *AuthServiceImpl) issue(u user.User) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        u.ToResponse(),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token)
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	principal, err := jwt.FromContext(ctx)
	if err != nil {
		return user.UserResponse{}, auth.ErrInvalidToken
	}
	u, err := a.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, user.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u.ToResponse(), nil
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(ctx context.Context) (auth.StreamTokenResponse, error) {
	principal, err := jwt.FromContext(ctx)
	if err != nil {
		return auth.StreamTokenResponse{}, auth.ErrInvalidToken
	}
	token, expiresIn, err := a.Service.GenerateSSEToken(principal)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}
	return auth.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// SeedAdmin implements auth.AuthService.
func (a *AuthServiceImpl) SeedAdmin(ctx context.Context, req auth.SeedAdminRequest) error {
	count, err := a.UserRepository.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := req.Validate(); err != nil {
		return err
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	now := a.now()
	admin := user.User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if linked, ok := a.findMember(ctx, req.Email); ok {
		admin.MemberID = &linked.ID
	}
	if _, err := a.UserRepository.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("Administrator account created", "email", admin.Email)
	return nil
}
