package clock

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	t.Parallel()
	// 2026-10-12 is a Monday.
	base := time.Date(2026, 10, 12, 9, 0, 0, 0, time.Local)
	for i, want := range Week {
		if got := DayOf(base.AddDate(0, 0, i)); got != want {
			t.Fatalf("DayOf(+%d) = %s, want %s", i, got, want)
		}
	}
}

func TestTimeOfDayDropsSeconds(t *testing.T) {
	t.Parallel()
	ts := time.Date(2026, 10, 12, 7, 5, 59, 999, time.Local)
	if got := TimeOfDay(ts); got != "07:05" {
		t.Fatalf("TimeOfDay = %q, want 07:05", got)
	}
	if now := (Fixed{T: ts}).Now(); DayOf(now) != Monday || TimeOfDay(now) != "07:05" {
		t.Fatalf("fixed clock: %s %s", DayOf(now), TimeOfDay(now))
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Day
		ok   bool
	}{
		{in: "MONDAY", want: Monday, ok: true},
		{in: " sunday ", want: Sunday, ok: true},
		{in: "SEGUNDA", want: Monday, ok: true},
		{in: "terca", want: Tuesday, ok: true},
		{in: "SÁBADO", want: Saturday, ok: true},
		{in: "DOMINGO", want: Sunday, ok: true},
		{in: "FUNDAY", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseDay(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseDay(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSameDate(t *testing.T) {
	t.Parallel()
	a := time.Date(2026, 10, 12, 0, 0, 0, 0, time.Local)
	if !SameDate(a, a.Add(23*time.Hour)) {
		t.Fatal("expected same date")
	}
	if SameDate(a, a.Add(-time.Minute)) {
		t.Fatal("expected different date")
	}
}
