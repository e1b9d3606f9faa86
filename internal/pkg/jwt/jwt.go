package jwt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenLifetime = 5 * time.Minute
)

var ErrInvalidClaims = errors.New("token claims are missing or malformed")

// Principal is the identity carried by a verified token.
type Principal struct {
	UserID  string
	Email   string
	Name    string
	IsAdmin bool
}

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	GenerateSSEToken(p Principal) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Principal, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
	// PruneRevoked forgets revoked tokens that have expired anyway and returns how many went.
	PruneRevoked(now time.Time) int
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	revokedTokens         map[string]int64 // token -> exp (unix)
	mu                    sync.RWMutex
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:         make(map[string]int64),
		now:                   time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"name":     u.Name,
		"is_admin": u.IsAdmin,
		"type":     TokenTypeAccess,
		"exp":      expiresAt,
	}
	if u.MemberID != nil {
		claims["member_id"] = *u.MemberID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken blocks a token until it would have expired.
func (j *JWTService) RevokeToken(token string) {
	exp := j.now().Add(j.accessTokenExpiration).Unix()
	if parsed, err := j.tokenAuth.Decode(token); err == nil && !parsed.Expiration().IsZero() {
		exp = parsed.Expiration().Unix()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = exp
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) PruneRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	pruned := 0
	for token, exp := range j.revokedTokens {
		if exp <= now.Unix() {
			delete(j.revokedTokens, token)
			pruned++
		}
	}
	return pruned
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(p Principal) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenLifetime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":  p.UserID,
		"email":    p.Email,
		"name":     p.Name,
		"is_admin": p.IsAdmin,
		"type":     TokenTypeSSE,
		"exp":      expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns who it was issued to
func (j *JWTService) ValidateSSEToken(tokenString string) (Principal, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Principal{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Principal{}, err
	}
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeSSE {
		return Principal{}, ErrInvalidClaims
	}
	return PrincipalFromClaims(claims)
}

// PrincipalFromClaims reads the identity claims shared by access and SSE tokens.
func PrincipalFromClaims(claims map[string]interface{}) (Principal, error) {
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return Principal{}, ErrInvalidClaims
	}
	userID, _ := claims["user_id"].(string)
	name, _ := claims["name"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return Principal{UserID: userID, Email: email, Name: name, IsAdmin: isAdmin}, nil
}

// FromContext returns the principal of the verified access token on ctx.
func FromContext(ctx context.Context) (Principal, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Principal{}, err
	}
	if claims == nil {
		return Principal{}, ErrInvalidClaims
	}
	return PrincipalFromClaims(claims)
}
