package clock

import (
	"strings"
	"time"
)

// Day is one of the seven fixed weekday tokens used as schedule keys.
// The week starts on Monday.
type Day string

const (
	Monday    Day = "MONDAY"
	Tuesday   Day = "TUESDAY"
	Wednesday Day = "WEDNESDAY"
	Thursday  Day = "THURSDAY"
	Friday    Day = "FRIDAY"
	Saturday  Day = "SATURDAY"
	Sunday    Day = "SUNDAY"
)

// Week lists every Day in order.
var Week = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// aliases maps the Portuguese tokens of older Reminder.json files.
var aliases = map[string]Day{
	"SEGUNDA": Monday,
	"TERCA":   Tuesday,
	"TERÇA":   Tuesday,
	"QUARTA":  Wednesday,
	"QUINTA":  Thursday,
	"SEXTA":   Friday,
	"SABADO":  Saturday,
	"SÁBADO":  Saturday,
	"DOMINGO": Sunday,
}

// ParseDay resolves a schedule key to a Day. Matching is case-insensitive
// and accepts the legacy Portuguese tokens.
func ParseDay(s string) (Day, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for _, d := range Week {
		if string(d) == key {
			return d, true
		}
	}
	if d, ok := aliases[key]; ok {
		return d, true
	}
	return "", false
}

// DayOf maps t's weekday onto the fixed enumeration.
func DayOf(t time.Time) Day {
	// time.Weekday starts on Sunday=0.
	return Week[(int(t.Weekday())+6)%7]
}
