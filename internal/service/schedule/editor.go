package schedule

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const defaultEventColor = "#3788d8"

// EditorConfig fixes what an Editor derives its weeks from.
type EditorConfig struct {
	Policy       schedule.LockPolicy
	Template     schedule.WeeklyTemplate
	Location     *time.Location
	DefaultColor string
	NewID        func() string
}

// Editor holds one member's weekly calendar state. It is not safe for concurrent use.
//
// events is the working copy shown to the client and original is the snapshot taken
// when the week was loaded or last committed. Pending edits of a week the user
// navigates away from are parked in drafts and restored on return.
type Editor struct {
	cfg       EditorConfig
	baseDate  time.Time
	week      schedule.Week
	events    []schedule.Event
	original  []schedule.Event
	drafts    map[string][]schedule.Event
	submitted map[string][]schedule.Event
}

func NewEditor(cfg EditorConfig, baseDate time.Time) *Editor {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Policy.Location == nil {
		cfg.Policy.Location = cfg.Location
	}
	if cfg.DefaultColor == "" {
		cfg.DefaultColor = defaultEventColor
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}

	e := &Editor{
		cfg:       cfg,
		drafts:    make(map[string][]schedule.Event),
		submitted: make(map[string][]schedule.Event),
	}
	e.baseDate = e.midnight(baseDate)
	e.load()
	return e
}

// SetTemplate swaps the weekly template that weeks are derived from. The displayed week is
// re-derived unless it holds pending edits; drafts and submitted weeks keep their events.
func (e *Editor) SetTemplate(tpl schedule.WeeklyTemplate) {
	if reflect.DeepEqual(e.cfg.Template, tpl) {
		return
	}
	e.cfg.Template = tpl
	if !e.HasPendingChanges() {
		e.load()
	}
}

// ============================================================================
// NAVIGATION
// ============================================================================

func (e *Editor) BaseDate() time.Time {
	return e.baseDate
}

func (e *Editor) Week() schedule.Week {
	return e.week
}

// Previous moves the view back seven days.
func (e *Editor) Previous() {
	e.JumpTo(e.baseDate.AddDate(0, 0, -7))
}

// Next moves the view forward seven days.
func (e *Editor) Next() {
	e.JumpTo(e.baseDate.AddDate(0, 0, 7))
}

// JumpTo makes date the base date, parking the current week's pending edits.
func (e *Editor) JumpTo(date time.Time) {
	e.stash()
	e.baseDate = e.midnight(date)
	e.load()
}

func (e *Editor) stash() {
	key := e.week.Key()
	if e.HasPendingChanges() {
		e.drafts[key] = e.events
	} else {
		delete(e.drafts, key)
	}
}

func (e *Editor) load() {
	e.week = schedule.WeekOf(e.baseDate, e.cfg.Location)
	key := e.week.Key()

	if confirmed, ok := e.submitted[key]; ok {
		e.original = cloneEvents(confirmed)
	} else {
		e.original = e.derive()
	}

	if draft, ok := e.drafts[key]; ok {
		e.events = draft
		delete(e.drafts, key)
	} else {
		e.events = cloneEvents(e.original)
	}
}

// derive expands the weekly template over the seven days of the current week. Ids are
// stable per day and block so a re-derived week matches its earlier snapshot.
func (e *Editor) derive() []schedule.Event {
	events := []schedule.Event{}
	for _, day := range e.week.Days() {
		for i, block := range e.cfg.Template[day.Weekday()] {
			start, end, ok := e.blockRange(day, block)
			if !ok {
				continue
			}
			title := block.Title
			if title == "" {
				title = schedule.DefaultEventTitle
			}
			color := block.Color
			if color == "" {
				color = e.cfg.DefaultColor
			}
			events = append(events, schedule.Event{
				ID:     fmt.Sprintf("tpl-%s-%d", day.Format("20060102"), i),
				Title:  title,
				Start:  start,
				End:    end,
				AllDay: block.AllDay,
				Color:  color,
			})
		}
	}
	return events
}

func (e *Editor) blockRange(day time.Time, block schedule.TimeBlock) (time.Time, time.Time, bool) {
	if block.AllDay {
		return day, day.AddDate(0, 0, 1), true
	}
	startClock, ok := validator.IsValidTime(block.Start)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	endClock, ok := validator.IsValidTime(block.End)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, e.cfg.Location)
	end := time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, e.cfg.Location)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

// ============================================================================
// EDITS
// ============================================================================

// guard is the single lock check every mutation passes through.
func (e *Editor) guard(anchors ...time.Time) error {
	for _, t := range anchors {
		if d := e.cfg.Policy.Check(t); !d.Allowed {
			return &schedule.LockedError{Reason: d.Reason}
		}
	}
	return nil
}

// Create adds a pending block for a selected range.
func (e *Editor) Create(start, end time.Time, allDay bool) (schedule.Event, error) {
	start, end = start.In(e.cfg.Location), end.In(e.cfg.Location)
	if allDay {
		start = e.midnight(start)
		if !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}
	}
	if end.Before(start) {
		return schedule.Event{}, schedule.ErrInvalidRange
	}
	if !e.week.Contains(start) {
		return schedule.Event{}, schedule.ErrOutsideWeek
	}
	if err := e.guard(start); err != nil {
		return schedule.Event{}, err
	}

	ev := schedule.Event{
		ID:     e.cfg.NewID(),
		Title:  schedule.DefaultEventTitle,
		Start:  start,
		End:    end,
		AllDay: allDay,
		Color:  e.cfg.DefaultColor,
		Status: schedule.StatusPending,
	}
	e.events = append(e.events, ev)
	return ev, nil
}

// Move shifts an event to a new range. Both the current and the target start must be unlocked.
func (e *Editor) Move(id string, start, end time.Time) (schedule.Event, error) {
	idx, err := e.indexOf(id)
	if err != nil {
		return schedule.Event{}, err
	}
	start, end = start.In(e.cfg.Location), end.In(e.cfg.Location)
	if err := e.guard(e.events[idx].Start, start); err != nil {
		return schedule.Event{}, err
	}
	if end.Before(start) {
		return schedule.Event{}, schedule.ErrInvalidRange
	}
	if !e.week.Contains(start) {
		return schedule.Event{}, schedule.ErrOutsideWeek
	}

	e.events[idx].Start = start
	e.events[idx].End = end
	e.events[idx].Status = schedule.StatusPending
	return e.events[idx], nil
}

// Resize changes an event's end, and its start when one is given.
func (e *Editor) Resize(id string, start *time.Time, end time.Time) (schedule.Event, error) {
	idx, err := e.indexOf(id)
	if err != nil {
		return schedule.Event{}, err
	}
	anchors := []time.Time{e.events[idx].Start}
	newStart := e.events[idx].Start
	if start != nil {
		newStart = start.In(e.cfg.Location)
		anchors = append(anchors, newStart)
	}
	if err := e.guard(anchors...); err != nil {
		return schedule.Event{}, err
	}
	end = end.In(e.cfg.Location)
	if end.Before(newStart) {
		return schedule.Event{}, schedule.ErrInvalidRange
	}
	if !e.week.Contains(newStart) {
		return schedule.Event{}, schedule.ErrOutsideWeek
	}

	e.events[idx].Start = newStart
	e.events[idx].End = end
	e.events[idx].Status = schedule.StatusPending
	return e.events[idx], nil
}

// Rename sets a new title. Blank titles are rejected.
func (e *Editor) Rename(id, title string) (schedule.Event, error) {
	idx, err := e.indexOf(id)
	if err != nil {
		return schedule.Event{}, err
	}
	if err := e.guard(e.events[idx].Start); err != nil {
		return schedule.Event{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return schedule.Event{}, schedule.ErrTitleRequired
	}

	e.events[idx].Title = title
	e.events[idx].Status = schedule.StatusPending
	return e.events[idx], nil
}

// Delete removes an event once the caller has confirmed.
func (e *Editor) Delete(id string, confirmed bool) error {
	idx, err := e.indexOf(id)
	if err != nil {
		return err
	}
	if err := e.guard(e.events[idx].Start); err != nil {
		return err
	}
	if !confirmed {
		return schedule.ErrConfirmationRequired
	}

	e.events = append(e.events[:idx:idx], e.events[idx+1:]...)
	return nil
}

func (e *Editor) indexOf(id string) (int, error) {
	for i := range e.events {
		if e.events[i].ID == id {
			return i, nil
		}
	}
	return -1, schedule.ErrEventNotFound
}

// ============================================================================
// SUBMISSION
// ============================================================================

// HasPendingChanges reports whether the working copy differs from the snapshot.
func (e *Editor) HasPendingChanges() bool {
	for _, ev := range e.events {
		if ev.Pending() {
			return true
		}
	}
	return len(e.removed()) > 0
}

func (e *Editor) removed() []schedule.Event {
	current := make(map[string]struct{}, len(e.events))
	for _, ev := range e.events {
		current[ev.ID] = struct{}{}
	}
	var gone []schedule.Event
	for _, ev := range e.original {
		if _, ok := current[ev.ID]; !ok {
			gone = append(gone, ev)
		}
	}
	return gone
}

// Commit submits the week's edits: it returns the pending and removed events, clears
// every pending mark and takes a new snapshot.
func (e *Editor) Commit() (submitted, removed []schedule.Event) {
	submitted = []schedule.Event{}
	removed = e.removed()
	for i := range e.events {
		if e.events[i].Pending() {
			submitted = append(submitted, e.events[i])
			e.events[i].Status = schedule.StatusConfirmed
		}
	}

	key := e.week.Key()
	e.original = cloneEvents(e.events)
	e.submitted[key] = cloneEvents(e.events)
	delete(e.drafts, key)
	return submitted, removed
}

// Discard restores the snapshot, dropping every edit made since.
func (e *Editor) Discard() {
	e.events = cloneEvents(e.original)
	delete(e.drafts, e.week.Key())
}

// ============================================================================
// VIEW
// ============================================================================

func (e *Editor) Events() []schedule.Event {
	events := cloneEvents(e.events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

func (e *Editor) View(memberID string) schedule.WeekView {
	days := make([]schedule.DayView, 0, 7)
	for _, day := range e.week.Days() {
		days = append(days, schedule.DayView{
			Date:    day.Format(schedule.DateLayout),
			Weekday: day.Weekday().String(),
			Locked:  e.cfg.Policy.Locks(day),
		})
	}

	var draftWeeks []string
	for key := range e.drafts {
		draftWeeks = append(draftWeeks, key)
	}
	sort.Strings(draftWeeks)

	return schedule.WeekView{
		MemberID:          memberID,
		BaseDate:          e.baseDate.Format(schedule.DateLayout),
		WeekStart:         e.week.Start.Format(schedule.DateLayout),
		WeekEnd:           e.week.End.AddDate(0, 0, -1).Format(schedule.DateLayout),
		Days:              days,
		Events:            e.Events(),
		HasPendingChanges: e.HasPendingChanges(),
		DraftWeeks:        draftWeeks,
	}
}

func (e *Editor) midnight(t time.Time) time.Time {
	t = t.In(e.cfg.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.cfg.Location)
}

func cloneEvents(events []schedule.Event) []schedule.Event {
	out := make([]schedule.Event, len(events))
	copy(out, events)
	return out
}
