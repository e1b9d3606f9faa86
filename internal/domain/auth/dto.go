package auth

import (
	"strings"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

const minPasswordLength = 8

type RegisterRequest struct {
	Name            string `json:"name" validate:"trimmed_required,max=100"`
	Email           string `json:"email" validate:"trimmed_required,email,max=254"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email 항목은 필수입니다",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "올바른 이메일 형식이 아닙니다",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password 항목은 필수입니다",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SeedAdminRequest struct {
	Email    string
	Password string
	Name     string
}

func (r *SeedAdminRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !validator.IsValidEmail(r.Email) {
		return validator.ValidationErrors{{Field: "email", Message: "올바른 이메일 형식이 아닙니다"}}
	}
	if len(r.Password) < minPasswordLength {
		return user.ErrInvalidPasswordLength
	}
	return nil
}

type TokenResponse struct {
	AccessToken string            `json:"accessToken"`
	ExpiresAt   int64             `json:"expiresAt"`
	User        user.UserResponse `json:"user"`
}

// StreamTokenResponse is a short-lived token for the notification stream, which
// cannot send an Authorization header.
type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}
