package member

import "strings"

// Collection is the ordered member list kept by the document-style stores.
type Collection []Member

func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// HasEmail compares case-insensitively.
func (c Collection) HasEmail(email string) bool {
	for i := range c {
		if strings.EqualFold(c[i].Email, email) {
			return true
		}
	}
	return false
}

// Clone copies the list and each member's slices so callers cannot mutate stored state.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, m := range c {
		out[i] = m.Clone()
	}
	return out
}

func (m Member) Clone() Member {
	if m.Teams != nil {
		m.Teams = append([]string(nil), m.Teams...)
	}
	if m.Schedule != nil {
		m.Schedule = append([]ScheduleEntry(nil), m.Schedule...)
	}
	return m
}
