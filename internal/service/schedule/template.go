package schedule

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

var dayNames = map[string]time.Weekday{
	"일": time.Sunday, "일요일": time.Sunday, "sun": time.Sunday, "sunday": time.Sunday,
	"월": time.Monday, "월요일": time.Monday, "mon": time.Monday, "monday": time.Monday,
	"화": time.Tuesday, "화요일": time.Tuesday, "tue": time.Tuesday, "tuesday": time.Tuesday,
	"수": time.Wednesday, "수요일": time.Wednesday, "wed": time.Wednesday, "wednesday": time.Wednesday,
	"목": time.Thursday, "목요일": time.Thursday, "thu": time.Thursday, "thursday": time.Thursday,
	"금": time.Friday, "금요일": time.Friday, "fri": time.Friday, "friday": time.Friday,
	"토": time.Saturday, "토요일": time.Saturday, "sat": time.Saturday, "saturday": time.Saturday,
}

// ParseDay reads a weekday written in Korean or English, full or abbreviated.
func ParseDay(value string) (time.Weekday, bool) {
	day, ok := dayNames[strings.ToLower(strings.TrimSpace(value))]
	return day, ok
}

// TemplateFromEntries turns a member's schedule entries into a weekly template.
// Entries with an unknown day or malformed clock time are skipped; ok is false when
// nothing usable remains.
func TemplateFromEntries(entries []member.ScheduleEntry) (schedule.WeeklyTemplate, bool) {
	tpl := schedule.WeeklyTemplate{}
	for _, entry := range entries {
		day, ok := ParseDay(entry.Day)
		if !ok {
			continue
		}
		if _, ok := validator.IsValidTime(entry.Start); !ok {
			continue
		}
		if _, ok := validator.IsValidTime(entry.End); !ok {
			continue
		}
		tpl[day] = append(tpl[day], schedule.TimeBlock{
			Title: schedule.DefaultEventTitle,
			Start: entry.Start,
			End:   entry.End,
		})
	}
	return tpl, len(tpl) > 0
}

func parseOptionalTime(raw *string, field string, loc *time.Location) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, ok := schedule.ParseTime(*raw, loc)
	if !ok {
		return nil, validator.ValidationErrors{{
			Field:   field,
			Message: field + " 항목은 ISO 8601 형식이어야 합니다",
		}}
	}
	return &t, nil
}
