package schedule

import "time"

// Decision is the result of a lock check: Allowed, or Rejected with a reason.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allowed() Decision {
	return Decision{Allowed: true}
}

func Rejected(reason string) Decision {
	return Decision{Reason: reason}
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "일요일",
	time.Monday:    "월요일",
	time.Tuesday:   "화요일",
	time.Wednesday: "수요일",
	time.Thursday:  "목요일",
	time.Friday:    "금요일",
	time.Saturday:  "토요일",
}

// LockPolicy makes every event anchored on Day immutable.
type LockPolicy struct {
	Day      time.Weekday
	Location *time.Location
}

func NewLockPolicy(day time.Weekday, loc *time.Location) LockPolicy {
	return LockPolicy{Day: day, Location: loc}
}

// Check decides whether an event anchored at t may be mutated.
func (p LockPolicy) Check(t time.Time) Decision {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	if t.In(loc).Weekday() == p.Day {
		return Rejected(weekdayNames[p.Day] + "에는 근무 일정을 변경할 수 없습니다")
	}
	return Allowed()
}

// Locks reports whether the policy locks the given calendar day.
func (p LockPolicy) Locks(day time.Time) bool {
	return !p.Check(day).Allowed
}
