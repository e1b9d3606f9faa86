package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
)

// Config carries the editor settings shared by every session.
type Config struct {
	Location        *time.Location
	LockedDay       time.Weekday
	DefaultColor    string
	DefaultTemplate schedule.WeeklyTemplate
}

type session struct {
	mu       sync.Mutex
	editor   *Editor
	lastUsed time.Time
}

type ScheduleServiceImpl struct {
	memberRepo      member.MemberRepository
	notificationSvc notification.Service
	cfg             Config
	now             func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type Option func(*ScheduleServiceImpl)

// WithClock overrides the time source used for the initial week and idle tracking.
func WithClock(now func() time.Time) Option {
	return func(s *ScheduleServiceImpl) {
		s.now = now
	}
}

func NewScheduleService(memberRepo member.MemberRepository, notificationSvc notification.Service, cfg Config, opts ...Option) schedule.ScheduleService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	s := &ScheduleServiceImpl{
		memberRepo:      memberRepo,
		notificationSvc: notificationSvc,
		cfg:             cfg,
		now:             time.Now,
		sessions:        make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// withSession loads the member, checks the caller may edit them, and runs fn with the
// member's editor locked.
func (s *ScheduleServiceImpl) withSession(ctx context.Context, memberID string, fn func(m member.Member, e *Editor) error) error {
	if strings.TrimSpace(memberID) == "" {
		return schedule.ErrMemberIDRequired
	}
	m, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return member.ErrMemberNotFound
		}
		return fmt.Errorf("failed to get member: %w", err)
	}
	if err := authorize(ctx, m); err != nil {
		return err
	}

	sess := s.session(m)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = s.now()
	sess.editor.SetTemplate(s.templateFor(m))
	return fn(m, sess.editor)
}

func (s *ScheduleServiceImpl) session(m member.Member) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[m.ID]; ok {
		return sess
	}
	sess := &session{
		editor: NewEditor(EditorConfig{
			Policy:       schedule.NewLockPolicy(s.cfg.LockedDay, s.cfg.Location),
			Template:     s.templateFor(m),
			Location:     s.cfg.Location,
			DefaultColor: s.cfg.DefaultColor,
		}, s.now()),
		lastUsed: s.now(),
	}
	s.sessions[m.ID] = sess
	return sess
}

// templateFor prefers the member's own weekly entries over the default template.
func (s *ScheduleServiceImpl) templateFor(m member.Member) schedule.WeeklyTemplate {
	if tpl, ok := TemplateFromEntries(m.Schedule); ok {
		return tpl
	}
	return s.cfg.DefaultTemplate
}

// authorize lets administrators edit anyone and members edit themselves.
func authorize(ctx context.Context, m member.Member) error {
	principal, err := jwt.FromContext(ctx)
	if err != nil {
		return schedule.ErrForbidden
	}
	if principal.IsAdmin || strings.EqualFold(principal.Email, m.Email) {
		return nil
	}
	return schedule.ErrForbidden
}

// GetWeek implements schedule.ScheduleService. A zero date keeps the current base date.
func (s *ScheduleServiceImpl) GetWeek(ctx context.Context, memberID string, date time.Time) (schedule.WeekView, error) {
	var view schedule.WeekView
	err := s.withSession(ctx, memberID, func(m member.Member, e *Editor) error {
		if !date.IsZero() {
			e.JumpTo(date)
		}
		view = e.View(m.ID)
		return nil
	})
	return view, err
}

// PreviousWeek implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) PreviousWeek(ctx context.Context, memberID string) (schedule.WeekView, error) {
	var view schedule.WeekView
	err := s.withSession(ctx, memberID, func(m member.Member, e *Editor) error {
		e.Previous()
		view = e.View(m.ID)
		return nil
	})
	return view, err
}

// NextWeek implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) NextWeek(ctx context.Context, memberID string) (schedule.WeekView, error) {
	var view schedule.WeekView
	err := s.withSession(ctx, memberID, func(m member.Member, e *Editor) error {
		e.Next()
		view = e.View(m.ID)
		return nil
	})
	return view, err
}

// CreateEvent implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) CreateEvent(ctx context.Context, memberID string, req schedule.CreateEventRequest) (schedule.WeekView, error) {
	if err := req.Validate(); err != nil {
		return schedule.WeekView{}, err
	}
	start, end, err := req.Range(s.cfg.Location)
	if err != nil {
		return schedule.WeekView{}, err
	}

	var view schedule.WeekView
	err = s.withSession(ctx, memberID, func(m member.Member, e *Editor) error {
		ev, err := e.Create(start, end, req.AllDay)
		if err != nil {
			return err
		}
		slog.Debug("Schedule event created", "member_id", m.ID, "event_id", ev.ID, "start", ev.Start)
		view = e.View(m.ID)
		return nil
	})
	return view, err
}

// UpdateEvent implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) UpdateEvent(ctx context.Context, memberID, eventID string, req schedule.UpdateEventRequest) (schedule.WeekView, error) {
	if err := req.Validate(); err != nil {
		return schedule.WeekView{}, err
	}

	start, err := parseOptionalTime(req.Start, "start", s.cfg.Location)
	if err != nil {
		return schedule.WeekView{}, err
	}
	end, err := parseOptionalTime(req.End, "end", s.cfg.Location)
	if err != nil {
		return schedule.WeekView{}, err
	}

	var view schedule.WeekView
	err = s.withSession(ctx, memberID, func(m member.Member, e *Editor) error {
		var err error
		switch req.Action {
		case schedule.ActionMove:
			_, err = e.Move(eventID, *start, *end)
		case schedule.ActionResize:
			_, err = e.Resize(eventID, start, *end)
		case schedule.ActionRename:
			_, err = e.Rename(eventID, *req.Title)
		default:
			err = schedule.ErrUnknownAction
		}
		if err != nil {
			return err
		}
		view = e.View(m.ID)
		return nil
	})
	return view, err
}

// DeleteEvent implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteEvent(ctx context.Context, memberID, eventID string, confirmed bool) (schedule.WeekView, error) {
	var view schedule.WeekView
	err := s.withSession(ctx, memberID, func(m member.Member, e *Editor) error {
		if err := e.Delete(eventID, confirmed); err != nil {
			return err
		}
		view = e.View(m.ID)
		return nil
	})
	return view, err
}

// Commit implements schedule.ScheduleService. Submitted changes are announced to administrators.
func (s *ScheduleServiceImpl) Commit(ctx context.Context, memberID string) (schedule.CommitResponse, error) {
	var (
		resp   schedule.CommitResponse
		target member.Member
		week   string
	)
	err := s.withSession(ctx, memberID, func(m member.Member, e *Editor) error {
		submitted, removed := e.Commit()
		target, week = m, e.Week().Key()
		resp = schedule.CommitResponse{
			Submitted: submitted,
			Removed:   removed,
			Count:     len(submitted),
			View:      e.View(m.ID),
		}
		return nil
	})
	if err != nil {
		return schedule.CommitResponse{}, err
	}

	slog.Info("Schedule changes submitted",
		"member_id", target.ID, "week", week, "submitted", len(resp.Submitted), "removed", len(resp.Removed))
	for _, ev := range resp.Submitted {
		slog.Info("Schedule change", "member_id", target.ID, "event_id", ev.ID, "title", ev.Title,
			"start", ev.Start, "end", ev.End, "all_day", ev.AllDay)
	}

	if len(resp.Submitted)+len(resp.Removed) > 0 {
		s.announce(ctx, target, week, resp)
	}
	return resp, nil
}

func (s *ScheduleServiceImpl) announce(ctx context.Context, m member.Member, week string, resp schedule.CommitResponse) {
	if s.notificationSvc == nil {
		return
	}
	change := schedule.ChangeRequest{
		MemberID:    m.ID,
		MemberName:  m.Name,
		WeekStart:   week,
		Events:      resp.Submitted,
		Removed:     resp.Removed,
		SubmittedAt: s.now(),
	}
	err := s.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
		Recipient: sse.AdminChannel,
		Type:      notification.TypeScheduleChangeRequested,
		Title:     "근무 일정 변경 요청",
		Message:   fmt.Sprintf("%s님이 %s 주간 일정 변경을 요청했습니다 (%d건)", m.Name, week, len(resp.Submitted)+len(resp.Removed)),
		Data:      map[string]interface{}{"changeRequest": change},
	})
	if err != nil {
		slog.Error("Failed to queue schedule change notification", "member_id", m.ID, "error", err)
	}
}

// Discard implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) Discard(ctx context.Context, memberID string) (schedule.WeekView, error) {
	var view schedule.WeekView
	err := s.withSession(ctx, memberID, func(m member.Member, e *Editor) error {
		e.Discard()
		view = e.View(m.ID)
		return nil
	})
	return view, err
}

// EvictIdle implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) EvictIdle(ctx context.Context, ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		slog.Info("Idle schedule sessions evicted", "count", evicted, "remaining", len(s.sessions))
	}
	return evicted
}
