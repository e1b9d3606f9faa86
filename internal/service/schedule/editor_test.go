package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

// at returns a time in the week of Monday 2025-03-03 (day 9 is the Sunday).
func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, kst)
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	ids := 0
	return NewEditor(EditorConfig{
		Policy:   schedule.NewLockPolicy(time.Sunday, kst),
		Template: fixtures.DefaultWeeklyTemplate(),
		Location: kst,
		NewID: func() string {
			ids++
			return fmt.Sprintf("new-%d", ids)
		},
	}, at(5, 15))
}

const (
	mondayEvent = "tpl-20250303-0"
	sundayEvent = "tpl-20250309-0"
)

func findEvent(t *testing.T, e *Editor, id string) schedule.Event {
	t.Helper()
	for _, ev := range e.Events() {
		if ev.ID == id {
			return ev
		}
	}
	t.Fatalf("event %s not found", id)
	return schedule.Event{}
}

func TestNewEditor_DerivesWeekFromTemplate(t *testing.T) {
	e := newTestEditor(t)
	view := e.View("m1")

	assert.Equal(t, "2025-03-05", view.BaseDate)
	assert.Equal(t, "2025-03-03", view.WeekStart)
	assert.Equal(t, "2025-03-09", view.WeekEnd)
	assert.False(t, view.HasPendingChanges)
	require.Len(t, view.Days, 7)
	assert.Equal(t, "Monday", view.Days[0].Weekday)
	assert.True(t, view.Days[6].Locked)
	assert.False(t, view.Days[5].Locked)

	// Mon-Fri, Saturday morning and the Sunday day off.
	require.Len(t, view.Events, 7)
	monday := findEvent(t, e, mondayEvent)
	assert.Equal(t, at(3, 9), monday.Start)
	assert.Equal(t, at(3, 18), monday.End)
	assert.Equal(t, schedule.DefaultEventTitle, monday.Title)
	assert.Equal(t, defaultEventColor, monday.Color)

	sunday := findEvent(t, e, sundayEvent)
	assert.True(t, sunday.AllDay)
	assert.Equal(t, "휴무", sunday.Title)
}

func TestNavigation_NextThenPreviousRestoresBaseDate(t *testing.T) {
	e := newTestEditor(t)
	start := e.BaseDate()

	e.Next()
	assert.Equal(t, start.AddDate(0, 0, 7), e.BaseDate())
	assert.Equal(t, "2025-03-10", e.Week().Key())

	e.Previous()
	assert.Equal(t, start, e.BaseDate())

	e.Previous()
	e.Previous()
	e.Next()
	e.Next()
	assert.Equal(t, start, e.BaseDate())
	assert.Equal(t, "2025-03-03", e.Week().Key())
}

func TestLockedDay_RejectsEveryMutation(t *testing.T) {
	e := newTestEditor(t)
	before := e.Events()

	_, err := e.Move(sundayEvent, at(8, 9), at(8, 18))
	assert.ErrorIs(t, err, schedule.ErrDayLocked)

	_, err = e.Resize(sundayEvent, nil, at(10, 0))
	assert.ErrorIs(t, err, schedule.ErrDayLocked)

	_, err = e.Rename(sundayEvent, "근무")
	assert.ErrorIs(t, err, schedule.ErrDayLocked)

	assert.ErrorIs(t, e.Delete(sundayEvent, true), schedule.ErrDayLocked)

	_, err = e.Create(at(9, 10), at(9, 12), false)
	assert.ErrorIs(t, err, schedule.ErrDayLocked)

	// Moving an open day onto the locked day is rejected too.
	_, err = e.Move(mondayEvent, at(9, 9), at(9, 18))
	assert.ErrorIs(t, err, schedule.ErrDayLocked)

	var locked *schedule.LockedError
	require.ErrorAs(t, err, &locked)
	assert.Contains(t, locked.Reason, "일요일")

	assert.Equal(t, before, e.Events())
	assert.False(t, e.HasPendingChanges())
}

func TestAcceptedMutationsMarkPending(t *testing.T) {
	cases := map[string]func(e *Editor) (schedule.Event, error){
		"move": func(e *Editor) (schedule.Event, error) {
			return e.Move(mondayEvent, at(4, 10), at(4, 19))
		},
		"resize": func(e *Editor) (schedule.Event, error) {
			return e.Resize(mondayEvent, nil, at(3, 20))
		},
		"rename": func(e *Editor) (schedule.Event, error) {
			return e.Rename(mondayEvent, "  재택근무  ")
		},
		"create": func(e *Editor) (schedule.Event, error) {
			return e.Create(at(6, 19), at(6, 21), false)
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEditor(t)
			ev, err := mutate(e)
			require.NoError(t, err)
			assert.Equal(t, schedule.StatusPending, ev.Status)
			assert.Equal(t, schedule.StatusPending, findEvent(t, e, ev.ID).Status)
			assert.True(t, e.HasPendingChanges())
		})
	}
}

func TestEdits_ApplyValues(t *testing.T) {
	e := newTestEditor(t)

	moved, err := e.Move(mondayEvent, at(4, 10), at(4, 19))
	require.NoError(t, err)
	assert.Equal(t, at(4, 10), moved.Start)
	assert.Equal(t, at(4, 19), moved.End)

	start := at(4, 8)
	resized, err := e.Resize(mondayEvent, &start, at(4, 20))
	require.NoError(t, err)
	assert.Equal(t, at(4, 8), resized.Start)
	assert.Equal(t, at(4, 20), resized.End)

	renamed, err := e.Rename(mondayEvent, "  재택근무 ")
	require.NoError(t, err)
	assert.Equal(t, "재택근무", renamed.Title)

	created, err := e.Create(at(7, 13), at(7, 0), true)
	require.NoError(t, err)
	assert.True(t, created.AllDay)
	assert.Equal(t, at(7, 0), created.Start)
	assert.Equal(t, at(8, 0), created.End)
	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, schedule.DefaultEventTitle, created.Title)
}

func TestEdits_Validation(t *testing.T) {
	e := newTestEditor(t)

	_, err := e.Create(at(4, 12), at(4, 10), false)
	assert.ErrorIs(t, err, schedule.ErrInvalidRange)

	_, err = e.Create(at(12, 9), at(12, 10), false)
	assert.ErrorIs(t, err, schedule.ErrOutsideWeek)

	_, err = e.Move(mondayEvent, at(4, 10), at(4, 9))
	assert.ErrorIs(t, err, schedule.ErrInvalidRange)

	_, err = e.Move(mondayEvent, at(11, 9), at(11, 18))
	assert.ErrorIs(t, err, schedule.ErrOutsideWeek)

	nextWeek := at(10, 9)
	_, err = e.Resize(mondayEvent, &nextWeek, at(10, 18))
	assert.ErrorIs(t, err, schedule.ErrOutsideWeek)

	_, err = e.Rename(mondayEvent, "   ")
	assert.ErrorIs(t, err, schedule.ErrTitleRequired)

	_, err = e.Move("missing", at(4, 10), at(4, 11))
	assert.ErrorIs(t, err, schedule.ErrEventNotFound)

	assert.False(t, e.HasPendingChanges())
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	e := newTestEditor(t)

	assert.ErrorIs(t, e.Delete(mondayEvent, false), schedule.ErrConfirmationRequired)
	assert.Len(t, e.Events(), 7)

	require.NoError(t, e.Delete(mondayEvent, true))
	assert.Len(t, e.Events(), 6)
	assert.True(t, e.HasPendingChanges(), "a deletion alone is a pending change")

	submitted, removed := e.Commit()
	assert.Empty(t, submitted)
	require.Len(t, removed, 1)
	assert.Equal(t, mondayEvent, removed[0].ID)
	assert.False(t, e.HasPendingChanges())
}

func TestDiscard_RestoresSnapshot(t *testing.T) {
	e := newTestEditor(t)
	original := e.Events()

	_, err := e.Move(mondayEvent, at(4, 10), at(4, 19))
	require.NoError(t, err)
	_, err = e.Create(at(6, 19), at(6, 21), false)
	require.NoError(t, err)
	require.NoError(t, e.Delete("tpl-20250307-0", true))

	e.Discard()
	assert.Equal(t, original, e.Events())
	assert.False(t, e.HasPendingChanges())
}

func TestCommit_SubmitsPendingAndClearsMarks(t *testing.T) {
	e := newTestEditor(t)

	_, err := e.Rename(mondayEvent, "외근")
	require.NoError(t, err)
	created, err := e.Create(at(6, 19), at(6, 21), false)
	require.NoError(t, err)

	submitted, removed := e.Commit()
	assert.Empty(t, removed)
	require.Len(t, submitted, 2)
	for _, ev := range submitted {
		assert.Equal(t, schedule.StatusPending, ev.Status)
	}

	assert.False(t, e.HasPendingChanges())
	for _, ev := range e.Events() {
		assert.False(t, ev.Pending(), ev.ID)
	}
	assert.Equal(t, "외근", findEvent(t, e, mondayEvent).Title)

	// Discard after commit goes back to the committed state, not the template.
	e.Discard()
	assert.Equal(t, "외근", findEvent(t, e, mondayEvent).Title)
	findEvent(t, e, created.ID)

	// The committed week survives navigation.
	e.Next()
	e.Previous()
	assert.Equal(t, "외근", findEvent(t, e, mondayEvent).Title)
	assert.False(t, e.HasPendingChanges())
}

func TestDrafts_SurviveNavigation(t *testing.T) {
	e := newTestEditor(t)

	_, err := e.Rename(mondayEvent, "교육")
	require.NoError(t, err)

	e.Next()
	assert.False(t, e.HasPendingChanges())
	view := e.View("m1")
	assert.Equal(t, []string{"2025-03-03"}, view.DraftWeeks)
	for _, ev := range view.Events {
		assert.NotEqual(t, "교육", ev.Title)
	}

	e.Previous()
	assert.True(t, e.HasPendingChanges())
	assert.Equal(t, "교육", findEvent(t, e, mondayEvent).Title)
	assert.Empty(t, e.View("m1").DraftWeeks)

	// Discarding drops the draft; the template comes back after a round trip.
	e.Discard()
	e.Next()
	e.Previous()
	assert.Equal(t, schedule.DefaultEventTitle, findEvent(t, e, mondayEvent).Title)
}

func TestJumpTo(t *testing.T) {
	e := newTestEditor(t)

	e.JumpTo(time.Date(2025, 12, 25, 23, 30, 0, 0, kst))
	view := e.View("m1")
	assert.Equal(t, "2025-12-25", view.BaseDate)
	assert.Equal(t, "2025-12-22", view.WeekStart)
	assert.Equal(t, "2025-12-28", view.WeekEnd)
}

func TestTemplateFromEntries(t *testing.T) {
	tpl, ok := TemplateFromEntries(nil)
	assert.False(t, ok)
	assert.Empty(t, tpl)

	tpl, ok = TemplateFromEntries([]member.ScheduleEntry{
		{Day: "월", Start: "10:00", End: "19:00"},
		{Day: "Tuesday", Start: "22:00", End: "06:00"},
		{Day: "someday", Start: "10:00", End: "19:00"},
		{Day: "수", Start: "bad", End: "19:00"},
	})
	require.True(t, ok)
	assert.Len(t, tpl, 2)
	assert.Equal(t, "10:00", tpl[time.Monday][0].Start)

	e := NewEditor(EditorConfig{Template: tpl, Location: kst, Policy: schedule.NewLockPolicy(time.Sunday, kst)}, at(5, 0))
	night := findEvent(t, e, "tpl-20250304-0")
	assert.Equal(t, at(4, 22), night.Start)
	assert.Equal(t, at(5, 6), night.End, "an end before the start runs into the next day")
}
