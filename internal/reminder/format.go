package reminder

import (
	"fmt"
	"strings"
	"time"

	"remindme/internal/clock"
	"remindme/internal/schedule"
)

const (
	GreetingText = "RemindMe bot started! Watching for events..."
	FarewellText = "RemindMe bot stopped."
)

func formatExact(at string, ev schedule.Event) string {
	return withDetails(fmt.Sprintf("Reminder %s: %s", at, ev.Title), ev)
}

func formatUpcoming(lead time.Duration, at string, ev schedule.Event) string {
	return withDetails(fmt.Sprintf("In %s (%s): %s", leadLabel(lead), at, ev.Title), ev)
}

func formatDigest(day clock.Day, lines []string) string {
	return fmt.Sprintf("Daily summary - %s\n\n%s", day, strings.Join(lines, "\n"))
}

func withDetails(head string, ev schedule.Event) string {
	if !ev.HasDetails() {
		return head
	}
	return head + "\nDetails: " + ev.Details
}

// leadLabel renders a lead time as "30 minutes", "1 hour", "1h30m".
func leadLabel(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	case d < time.Hour && d%time.Minute == 0:
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	default:
		return strings.TrimSuffix(d.Truncate(time.Minute).String(), "0s")
	}
}
