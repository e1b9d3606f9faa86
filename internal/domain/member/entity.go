package member

import "time"

// Member is one person in the HR directory. JSON names follow the portal's stored file.
type Member struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	JoinDate       string          `json:"joinDate"`
	Organization   string          `json:"organization"`
	Teams          []string        `json:"teams,omitempty"`
	Position       string          `json:"position"`
	Role           string          `json:"role"`
	Job            string          `json:"job"`
	Rank           string          `json:"rank,omitempty"`
	IsAdmin        bool            `json:"isAdmin"`
	Image          *string         `json:"image,omitempty"`
	Bio            *string         `json:"bio,omitempty"`
	RemainingLeave *float64        `json:"remainingLeave,omitempty"`
	WeeklyHours    *float64        `json:"weeklyHours,omitempty"`
	Schedule       []ScheduleEntry `json:"schedule,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ScheduleEntry is a member's recurring weekly work block, e.g. {"day":"월","start":"09:00","end":"18:00"}.
type ScheduleEntry struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// BelongsTo reports whether the member sits in any of the given organization or team names.
func (m Member) BelongsTo(names map[string]struct{}) bool {
	if _, ok := names[m.Organization]; ok {
		return true
	}
	for _, team := range m.Teams {
		if _, ok := names[team]; ok {
			return true
		}
	}
	return false
}
