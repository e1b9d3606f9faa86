package member

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

type CreateMemberRequest struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name" validate:"trimmed_required"`
	Email          string          `json:"email" validate:"trimmed_required,email"`
	Phone          string          `json:"phone,omitempty"`
	JoinDate       string          `json:"joinDate" validate:"trimmed_required,ymd"`
	Organization   string          `json:"organization" validate:"trimmed_required"`
	Teams          []string        `json:"teams,omitempty"`
	Position       string          `json:"position" validate:"trimmed_required"`
	Role           string          `json:"role" validate:"trimmed_required"`
	Job            string          `json:"job" validate:"trimmed_required"`
	Rank           string          `json:"rank,omitempty"`
	IsAdmin        bool            `json:"isAdmin"`
	Image          *string         `json:"image,omitempty"`
	Bio            *string         `json:"bio,omitempty"`
	RemainingLeave *float64        `json:"remainingLeave,omitempty" validate:"omitempty,min=0"`
	WeeklyHours    *float64        `json:"weeklyHours,omitempty" validate:"omitempty,min=0,max=168"`
	Schedule       []ScheduleEntry `json:"schedule,omitempty"`
}

func (r *CreateMemberRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validator.Struct(r)
}

// ToMember copies the request into a Member without assigning id or timestamps.
func (r CreateMemberRequest) ToMember() Member {
	return Member{
		ID:             r.ID,
		Name:           strings.TrimSpace(r.Name),
		Email:          r.Email,
		Phone:          r.Phone,
		JoinDate:       r.JoinDate,
		Organization:   r.Organization,
		Teams:          r.Teams,
		Position:       r.Position,
		Role:           r.Role,
		Job:            r.Job,
		Rank:           r.Rank,
		IsAdmin:        r.IsAdmin,
		Image:          r.Image,
		Bio:            r.Bio,
		RemainingLeave: r.RemainingLeave,
		WeeklyHours:    r.WeeklyHours,
		Schedule:       r.Schedule,
	}
}

// UpdateMemberRequest carries the raw body keys so the service can shallow-merge exactly
// the fields the client sent.
type UpdateMemberRequest struct {
	ID     string
	Fields map[string]json.RawMessage
}

func (r *UpdateMemberRequest) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["id"]; ok {
		var id any
		if err := json.Unmarshal(raw, &id); err != nil {
			return err
		}
		switch v := id.(type) {
		case string:
			r.ID = v
		case float64:
			// Timestamp ids sometimes arrive as numbers from older clients.
			r.ID = strings.TrimSuffix(string(bytes.TrimSpace(raw)), ".0")
		}
		delete(fields, "id")
	}
	r.Fields = fields
	return nil
}

func (r *UpdateMemberRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return ErrMemberIDRequired
	}

	var errs validator.ValidationErrors
	if raw, ok := r.Fields["email"]; ok {
		var email string
		if err := json.Unmarshal(raw, &email); err != nil || !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "올바른 이메일 형식이 아닙니다",
			})
		}
	}
	if raw, ok := r.Fields["joinDate"]; ok {
		var joinDate string
		if err := json.Unmarshal(raw, &joinDate); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "joinDate",
				Message: "joinDate 항목은 YYYY-MM-DD 형식이어야 합니다",
			})
		} else if _, valid := validator.IsValidDate(joinDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "joinDate",
				Message: "joinDate 항목은 YYYY-MM-DD 형식이어야 합니다",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkImportRequest struct {
	Members []Member `json:"members"`
}

func (r *BulkImportRequest) Validate() error {
	if r.Members == nil {
		return validator.ValidationErrors{{
			Field:   "members",
			Message: "members 항목은 필수입니다",
		}}
	}
	if len(r.Members) == 0 {
		return ErrEmptyImport
	}
	return nil
}

type MemberFilter struct {
	Organization string
	Team         string
	Query        string
}

type MetadataResponse struct {
	Ranks         []string `json:"ranks"`
	Positions     []string `json:"positions"`
	Organizations []string `json:"organizations"`
	Teams         []string `json:"teams"`
}

type UploadImageRequest struct {
	MemberID    string
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

var allowedImageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

const maxImageSize = 5 << 20

func (r *UploadImageRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.MemberID) {
		return ErrMemberIDRequired
	}
	if r.File == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "image 항목은 필수입니다",
		})
	}
	if !validator.IsInSlice(strings.ToLower(filepath.Ext(r.Filename)), allowedImageExts) {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "이미지 파일은 " + strings.Join(allowedImageExts, ", ") + " 형식만 허용됩니다",
		})
	}
	if r.Size > maxImageSize {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "이미지 파일은 5MB 이하여야 합니다",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
