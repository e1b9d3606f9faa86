package schedule

import "time"

type EventStatus string

const (
	StatusConfirmed EventStatus = ""
	StatusPending   EventStatus = "pending"
)

const (
	DefaultEventTitle = "근무"
	DateLayout        = "2006-01-02"
)

// Event is one block on the weekly calendar.
type Event struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	AllDay bool        `json:"allDay"`
	Color  string      `json:"color"`
	Status EventStatus `json:"status,omitempty"`
}

func (e Event) Pending() bool {
	return e.Status == StatusPending
}

// TimeBlock is one entry of a weekly template. Start and End are HH:MM clock times;
// an End at or before Start runs into the next day.
type TimeBlock struct {
	Title  string `json:"title" yaml:"title"`
	Start  string `json:"start,omitempty" yaml:"start,omitempty"`
	End    string `json:"end,omitempty" yaml:"end,omitempty"`
	AllDay bool   `json:"allDay,omitempty" yaml:"allDay,omitempty"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty"`
}

// WeeklyTemplate maps a weekday to the blocks worked on it.
type WeeklyTemplate map[time.Weekday][]TimeBlock

// Week is the Monday 00:00 to next Monday 00:00 window containing a date.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the Monday-to-Sunday week containing t, in loc.
func WeekOf(t time.Time, loc *time.Location) Week {
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	monday := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc)
	return Week{Start: monday, End: monday.AddDate(0, 0, 7)}
}

// Key identifies the week by its Monday.
func (w Week) Key() string {
	return w.Start.Format(DateLayout)
}

// Days returns the seven midnights of the week, Monday first.
func (w Week) Days() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

// Contains reports whether t falls inside the week.
func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
