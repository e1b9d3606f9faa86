package schedule

import "errors"

var (
	// Editor Errors
	ErrDayLocked            = errors.New("day is locked for schedule changes")
	ErrEventNotFound        = errors.New("schedule event not found")
	ErrConfirmationRequired = errors.New("deletion requires confirmation")
	ErrInvalidRange         = errors.New("event end must not be before its start")
	ErrOutsideWeek          = errors.New("event start is outside the displayed week")
	ErrTitleRequired        = errors.New("event title is required")
	ErrUnknownAction        = errors.New("unknown event action")

	// Session Errors
	ErrMemberIDRequired = errors.New("member ID is required")
	ErrForbidden        = errors.New("not allowed to edit this schedule")

	// Validation Errors
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)

// LockedError carries the lock policy's rejection reason and matches ErrDayLocked.
type LockedError struct {
	Reason string
}

func (e *LockedError) Error() string {
	return e.Reason
}

func (e *LockedError) Unwrap() error {
	return ErrDayLocked
}
