package clock

import "time"

// TimeFormat is the schedule's time-of-day layout (24h, minute granularity).
const TimeFormat = "15:04"

// Clock supplies the current instant. Implementations return host-local time.
type Clock interface {
	Now() time.Time
}

// System reads the host clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns T. Used by tests and dry runs.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// TimeOfDay formats t as "HH:MM"; seconds are discarded, so an exact-time
// match holds for the whole minute.
func TimeOfDay(t time.Time) string { return t.Format(TimeFormat) }

// SameDate reports whether a and b fall on the same calendar date in a's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
