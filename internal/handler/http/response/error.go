package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.First(), validationErrs.ToMap())
		return
	}

	// The lock policy's own reason is the message
	var locked *schedule.LockedError
	if errors.As(err, &locked) {
		fail(w, http.StatusBadRequest, "DAY_LOCKED", locked.Reason, nil)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "이메일 또는 비밀번호가 올바르지 않습니다")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "인증 정보가 유효하지 않습니다")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "로그아웃된 토큰입니다")
	case errors.Is(err, auth.ErrPasswordMismatch):
		BadRequest(w, "비밀번호 확인이 일치하지 않습니다", nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "사용자를 찾을 수 없습니다")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "이미 가입된 이메일입니다")
	case errors.Is(err, user.ErrInvalidPasswordLength):
		BadRequest(w, "비밀번호는 8자 이상이어야 합니다", nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "관리자 권한이 필요합니다")

	// Member domain errors
	case errors.Is(err, member.ErrMemberNotFound):
		NotFound(w, "해당 구성원을 찾을 수 없습니다")
	case errors.Is(err, member.ErrMemberIDRequired), errors.Is(err, schedule.ErrMemberIDRequired):
		BadRequest(w, "id는 필수입니다", nil)
	case errors.Is(err, member.ErrEmailExists):
		BadRequest(w, "이미 존재하는 이메일입니다", nil)
	case errors.Is(err, member.ErrInvalidPatch):
		BadRequest(w, "요청 본문이 올바르지 않습니다", nil)
	case errors.Is(err, member.ErrEmptyImport):
		BadRequest(w, "가져올 구성원이 없습니다", nil)
	case errors.Is(err, member.ErrInvalidSheet):
		BadRequest(w, "엑셀 파일 형식이 올바르지 않습니다", nil)

	// Schedule domain errors
	case errors.Is(err, schedule.ErrDayLocked):
		fail(w, http.StatusBadRequest, "DAY_LOCKED", "잠긴 요일의 일정은 변경할 수 없습니다", nil)
	case errors.Is(err, schedule.ErrEventNotFound):
		NotFound(w, "일정을 찾을 수 없습니다")
	case errors.Is(err, schedule.ErrConfirmationRequired):
		fail(w, http.StatusBadRequest, "CONFIRMATION_REQUIRED", "일정을 삭제하려면 확인이 필요합니다", nil)
	case errors.Is(err, schedule.ErrInvalidRange):
		BadRequest(w, "종료 시간은 시작 시간보다 빠를 수 없습니다", nil)
	case errors.Is(err, schedule.ErrOutsideWeek):
		BadRequest(w, "표시 중인 주간 밖의 일정입니다", nil)
	case errors.Is(err, schedule.ErrTitleRequired):
		BadRequest(w, "일정 제목을 입력해주세요", nil)
	case errors.Is(err, schedule.ErrUnknownAction):
		BadRequest(w, "알 수 없는 작업입니다", nil)
	case errors.Is(err, schedule.ErrInvalidDateFormat):
		BadRequest(w, "날짜는 YYYY-MM-DD 형식이어야 합니다", nil)
	case errors.Is(err, schedule.ErrForbidden):
		Forbidden(w, "이 일정을 변경할 권한이 없습니다")

	// Organization domain errors
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "조직을 찾을 수 없습니다")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "알림을 찾을 수 없습니다")
	case errors.Is(err, notification.ErrInvalidRecipient):
		BadRequest(w, "알림 수신자가 필요합니다", nil)

	// Storage errors
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "잘못된 파일 경로입니다", nil)
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "파일을 찾을 수 없습니다")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "서버 오류가 발생했습니다")
	}
}
