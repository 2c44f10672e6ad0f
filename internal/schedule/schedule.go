// Package schedule holds the weekly reminder table.
//
// A Schedule maps a clock.Day to an ordered list of "HH:MM" slots. Order is
// the order the slots appeared in the source document; the daily digest
// lists them that way. A Schedule is read-only once loaded.
package schedule

import (
	"strings"

	"remindme/internal/clock"
)

type Event struct {
	Title   string
	Details string
}

// Active reports whether the event has a non-blank title. Inert slots are
// ignored by every trigger.
func (e Event) Active() bool { return strings.TrimSpace(e.Title) != "" }

// HasDetails reports whether Details is non-blank.
func (e Event) HasDetails() bool { return strings.TrimSpace(e.Details) != "" }

type Entry struct {
	At    string
	Event Event
}

type Schedule struct {
	days  map[clock.Day][]Entry
	index map[clock.Day]map[string]int
}

// New returns an empty schedule.
func New() *Schedule {
	return &Schedule{
		days:  map[clock.Day][]Entry{},
		index: map[clock.Day]map[string]int{},
	}
}

// Set stores ev at (day, at). Re-setting an existing slot replaces the event
// but keeps its original position.
func (s *Schedule) Set(day clock.Day, at string, ev Event) {
	idx := s.index[day]
	if idx == nil {
		idx = map[string]int{}
		s.index[day] = idx
	}
	if i, ok := idx[at]; ok {
		s.days[day][i].Event = ev
		return
	}
	idx[at] = len(s.days[day])
	s.days[day] = append(s.days[day], Entry{At: at, Event: ev})
}

// Lookup returns the event stored at (day, at). A missing day or slot is
// reported as ok=false, never as an error.
func (s *Schedule) Lookup(day clock.Day, at string) (Event, bool) {
	if s == nil {
		return Event{}, false
	}
	i, ok := s.index[day][at]
	if !ok {
		return Event{}, false
	}
	return s.days[day][i].Event, true
}

// Entries returns a copy of day's slots in source order.
func (s *Schedule) Entries(day clock.Day) []Entry {
	if s == nil {
		return nil
	}
	return append([]Entry(nil), s.days[day]...)
}

// Days lists the days that have at least one slot, Monday first.
func (s *Schedule) Days() []clock.Day {
	if s == nil {
		return nil
	}
	out := make([]clock.Day, 0, len(s.days))
	for _, d := range clock.Week {
		if len(s.days[d]) > 0 {
			out = append(out, d)
		}
	}
	return out
}

// Len counts slots across all days, inert ones included.
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, es := range s.days {
		n += len(es)
	}
	return n
}

// ActiveLen counts slots with an active event.
func (s *Schedule) ActiveLen() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, es := range s.days {
		for _, e := range es {
			if e.Event.Active() {
				n++
			}
		}
	}
	return n
}
