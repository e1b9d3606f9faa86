package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	// Week navigation
	GetWeek(ctx context.Context, memberID string, date time.Time) (WeekView, error)
	PreviousWeek(ctx context.Context, memberID string) (WeekView, error)
	NextWeek(ctx context.Context, memberID string) (WeekView, error)

	// Event edits
	CreateEvent(ctx context.Context, memberID string, req CreateEventRequest) (WeekView, error)
	UpdateEvent(ctx context.Context, memberID, eventID string, req UpdateEventRequest) (WeekView, error)
	DeleteEvent(ctx context.Context, memberID, eventID string, confirmed bool) (WeekView, error)

	// Submission
	Commit(ctx context.Context, memberID string) (CommitResponse, error)
	Discard(ctx context.Context, memberID string) (WeekView, error)

	// EvictIdle drops editor sessions untouched for longer than ttl and returns how many went.
	EvictIdle(ctx context.Context, ttl time.Duration) int
}
