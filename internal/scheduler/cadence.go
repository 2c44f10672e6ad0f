package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval is the fixed pause between two polls.
const DefaultInterval = 60 * time.Second

// Cadence decides when the next poll happens.
type Cadence interface {
	Next(now time.Time) time.Time
	String() string
}

// Interval sleeps a fixed duration after each poll.
type Interval time.Duration

func (d Interval) Next(now time.Time) time.Time { return now.Add(time.Duration(d)) }
func (d Interval) String() string               { return "interval:" + time.Duration(d).String() }

// cronCadence wakes at the next instant matching a cron expression, so polls
// stay aligned to wall-clock minutes instead of drifting.
type cronCadence struct {
	expr  string
	sched cron.Schedule
}

func (c cronCadence) Next(now time.Time) time.Time { return c.sched.Next(now) }
func (c cronCadence) String() string               { return "cron:" + c.expr }

var reHHMM = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseCadence parses a poll cadence.
//
// Supported forms:
//   - "" (default): fixed 60s interval
//   - Go duration: "60s", "1m"
//   - HH:MM duration: "00:01"
//   - cron (5 fields or descriptor): "* * * * *", "@every 1m"
//
// Optional prefixes "interval:" and "cron:" force the kind.
func ParseCadence(raw string) (Cadence, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Interval(DefaultInterval), nil
	}
	low := strings.ToLower(s)
	switch {
	case strings.HasPrefix(low, "cron:"):
		return parseCron(strings.TrimSpace(s[len("cron:"):]))
	case strings.HasPrefix(low, "interval:"):
		return parseInterval(strings.TrimSpace(s[len("interval:"):]))
	case strings.ContainsAny(s, " \t") || strings.HasPrefix(s, "@"):
		return parseCron(s)
	default:
		return parseInterval(s)
	}
}

func parseCron(expr string) (Cadence, error) {
	if expr == "" {
		return nil, fmt.Errorf("cron expression required")
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron cadence %q: %w", expr, err)
	}
	return cronCadence{expr: expr, sched: sched}, nil
}

func parseInterval(v string) (Cadence, error) {
	if m := reHHMM.FindStringSubmatch(v); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return nil, fmt.Errorf("invalid minutes in %q", v)
		}
		d := time.Duration(h)*time.Hour + time.Duration(mm)*time.Minute
		if d <= 0 {
			return nil, fmt.Errorf("interval must be > 0")
		}
		return Interval(d), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return nil, fmt.Errorf("invalid cadence %q (use a duration like '60s', HH:MM, or a cron expression)", v)
	}
	if d <= 0 {
		return nil, fmt.Errorf("interval must be > 0")
	}
	return Interval(d), nil
}
