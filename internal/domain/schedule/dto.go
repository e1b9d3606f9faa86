package schedule

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

const (
	ActionMove   = "move"
	ActionResize = "resize"
	ActionRename = "rename"
)

var EventActionValues = []string{ActionMove, ActionResize, ActionRename}

// localLayouts are accepted when the client sends wall-clock times without an offset.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseTime reads an RFC 3339 timestamp, or a wall-clock / date-only value in loc.
func ParseTime(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, ok := validator.IsValidDateTime(value); ok {
		return t.In(loc), true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate reads an optional YYYY-MM-DD query value. An empty value yields the zero time.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if validator.IsEmpty(value) {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// CreateEventRequest is a calendar range selection.
type CreateEventRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	AllDay bool   `json:"allDay"`
}

func (r *CreateEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Start) {
		errs = append(errs, validator.ValidationError{Field: "start", Message: "start 항목은 필수입니다"})
	}
	if validator.IsEmpty(r.End) {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "end 항목은 필수입니다"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range parses Start and End in loc.
func (r CreateEventRequest) Range(loc *time.Location) (time.Time, time.Time, error) {
	return parseRange(r.Start, r.End, loc)
}

// UpdateEventRequest changes one event. Move takes start and end, resize takes end
// (start optional), rename takes title.
type UpdateEventRequest struct {
	Action string  `json:"action"`
	Start  *string `json:"start,omitempty"`
	End    *string `json:"end,omitempty"`
	Title  *string `json:"title,omitempty"`
}

func (r *UpdateEventRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	if !validator.IsInSlice(r.Action, EventActionValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action 항목은 다음 중 하나여야 합니다: " + strings.Join(EventActionValues, ", "),
		})
	}

	switch r.Action {
	case ActionMove:
		if r.Start == nil || validator.IsEmpty(*r.Start) {
			errs = append(errs, validator.ValidationError{Field: "start", Message: "start 항목은 필수입니다"})
		}
		if r.End == nil || validator.IsEmpty(*r.End) {
			errs = append(errs, validator.ValidationError{Field: "end", Message: "end 항목은 필수입니다"})
		}
	case ActionResize:
		if r.End == nil || validator.IsEmpty(*r.End) {
			errs = append(errs, validator.ValidationError{Field: "end", Message: "end 항목은 필수입니다"})
		}
	case ActionRename:
		if r.Title == nil {
			errs = append(errs, validator.ValidationError{Field: "title", Message: "title 항목은 필수입니다"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func parseRange(startStr, endStr string, loc *time.Location) (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	start, ok := ParseTime(startStr, loc)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start", Message: "start 항목은 ISO 8601 형식이어야 합니다"})
	}
	end, ok := ParseTime(endStr, loc)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "end 항목은 ISO 8601 형식이어야 합니다"})
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}

// DayView is one column header of the week.
type DayView struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Locked  bool   `json:"locked"`
}

// WeekView is the editor state rendered for the client.
type WeekView struct {
	MemberID          string    `json:"memberId"`
	BaseDate          string    `json:"baseDate"`
	WeekStart         string    `json:"weekStart"`
	WeekEnd           string    `json:"weekEnd"`
	Days              []DayView `json:"days"`
	Events            []Event   `json:"events"`
	HasPendingChanges bool      `json:"hasPendingChanges"`
	DraftWeeks        []string  `json:"draftWeeks,omitempty"`
}

// CommitResponse lists the events submitted for approval.
type CommitResponse struct {
	Submitted []Event  `json:"submitted"`
	Removed   []Event  `json:"removed"`
	Count     int      `json:"count"`
	View      WeekView `json:"view"`
}

// ChangeRequest is the payload broadcast to administrators after a commit.
type ChangeRequest struct {
	MemberID    string    `json:"memberId"`
	MemberName  string    `json:"memberName"`
	WeekStart   string    `json:"weekStart"`
	Events      []Event   `json:"events"`
	Removed     []Event   `json:"removed,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}
