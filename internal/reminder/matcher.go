// Package reminder decides which notifications are due at a given instant.
//
// Three triggers are evaluated independently on every poll:
//   - exact: a slot at the current "HH:MM"
//   - upcoming: a slot LeadTime ahead of now, on the same day-name
//   - digest: at 00:00, a summary of the day's active slots, once per date
package reminder

import (
	"time"

	"remindme/internal/clock"
	"remindme/internal/schedule"
)

const DefaultLeadTime = 30 * time.Minute

type Kind string

const (
	KindDigest   Kind = "digest"
	KindExact    Kind = "exact"
	KindUpcoming Kind = "upcoming"
)

// Notification is one message the loop should deliver.
type Notification struct {
	Kind Kind
	Day  clock.Day
	// At is the slot time the message refers to (empty for digests).
	At   string
	Text string
}

// DigestState remembers the date of the last successfully sent digest.
// The zero value means "never".
type DigestState struct {
	last time.Time
}

// SentOn reports whether a digest was already sent on t's calendar date.
func (d *DigestState) SentOn(t time.Time) bool {
	return d != nil && !d.last.IsZero() && clock.SameDate(t, d.last)
}

// MarkSent records t's date as sent.
func (d *DigestState) MarkSent(t time.Time) { d.last = t }

// LastSent returns the instant of the last successful digest, zero if never.
func (d *DigestState) LastSent() time.Time { return d.last }

type Matcher struct {
	Schedule *schedule.Schedule
	LeadTime time.Duration

	// ResolveUpcomingDay looks the upcoming slot up under the day-name of
	// now+LeadTime instead of today's. Off by default: an event shortly
	// after midnight is then never announced from the previous evening.
	ResolveUpcomingDay bool
}

func (m *Matcher) lead() time.Duration {
	if m.LeadTime <= 0 {
		return DefaultLeadTime
	}
	return m.LeadTime
}

// Evaluate returns the due notifications in send order: digest, exact, upcoming.
// It does not mutate digest; the caller marks it after a successful send.
func (m *Matcher) Evaluate(now time.Time, digest *DigestState) []Notification {
	out := make([]Notification, 0, 3)
	if n, ok := m.Digest(now, digest); ok {
		out = append(out, n)
	}
	if n, ok := m.Exact(now); ok {
		out = append(out, n)
	}
	if n, ok := m.Upcoming(now); ok {
		out = append(out, n)
	}
	return out
}

// Exact matches the slot at now's "HH:MM".
func (m *Matcher) Exact(now time.Time) (Notification, bool) {
	day, at := clock.DayOf(now), clock.TimeOfDay(now)
	ev, ok := m.Schedule.Lookup(day, at)
	if !ok || !ev.Active() {
		return Notification{}, false
	}
	return Notification{Kind: KindExact, Day: day, At: at, Text: formatExact(at, ev)}, true
}

// Upcoming matches the slot LeadTime ahead of now.
func (m *Matcher) Upcoming(now time.Time) (Notification, bool) {
	lead := m.lead()
	future := now.Add(lead)
	day, at := clock.DayOf(now), clock.TimeOfDay(future)
	if m.ResolveUpcomingDay {
		day = clock.DayOf(future)
	}
	ev, ok := m.Schedule.Lookup(day, at)
	if !ok || !ev.Active() {
		return Notification{}, false
	}
	return Notification{Kind: KindUpcoming, Day: day, At: at, Text: formatUpcoming(lead, at, ev)}, true
}

// Digest fires during the 00:00 minute if no digest went out today and the
// day has at least one active slot.
func (m *Matcher) Digest(now time.Time, digest *DigestState) (Notification, bool) {
	if now.Hour() != 0 || now.Minute() != 0 || digest.SentOn(now) {
		return Notification{}, false
	}
	day := clock.DayOf(now)
	var lines []string
	for _, e := range m.Schedule.Entries(day) {
		if e.Event.Active() {
			lines = append(lines, e.At+" - "+e.Event.Title)
		}
	}
	if len(lines) == 0 {
		return Notification{}, false
	}
	return Notification{Kind: KindDigest, Day: day, Text: formatDigest(day, lines)}, true
}
