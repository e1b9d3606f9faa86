package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
)

// PortalJobs sweeps in-memory state that would otherwise grow without bound.
type PortalJobs struct {
	scheduleSvc schedule.ScheduleService
	jwtService  jwt.Service
	sessionTTL  time.Duration
	sweepEvery  time.Duration
	now         func() time.Time
}

func NewPortalJobs(scheduleSvc schedule.ScheduleService, jwtService jwt.Service, sessionTTL, sweepEvery time.Duration) *PortalJobs {
	return &PortalJobs{
		scheduleSvc: scheduleSvc,
		jwtService:  jwtService,
		sessionTTL:  sessionTTL,
		sweepEvery:  sweepEvery,
		now:         time.Now,
	}
}

func (j *PortalJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("evict_idle_schedule_sessions", j.sweepEvery, j.EvictIdleSessions)
	scheduler.AddJob("prune_revoked_tokens", time.Hour, j.PruneRevokedTokens)
}

// EvictIdleSessions drops schedule editors untouched for longer than the session TTL.
// Their uncommitted edits are lost.
func (j *PortalJobs) EvictIdleSessions(ctx context.Context) error {
	if n := j.scheduleSvc.EvictIdle(ctx, j.sessionTTL); n > 0 {
		slog.Info("Cron: Evicted idle schedule sessions", "count", n)
	}
	return nil
}

func (j *PortalJobs) PruneRevokedTokens(ctx context.Context) error {
	if n := j.jwtService.PruneRevoked(j.now()); n > 0 {
		slog.Info("Cron: Pruned expired revoked tokens", "count", n)
	}
	return nil
}
