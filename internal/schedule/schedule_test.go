package schedule

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"remindme/internal/clock"
	logx "remindme/pkg/logx"
)

func times(es []Entry) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.At)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadFileKeepsSourceOrder(t *testing.T) {
	t.Parallel()
	s, err := LoadFile(filepath.Join("testdata", "Reminder.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	got := times(s.Entries(clock.Monday))
	want := []string{"08:00", "07:00", "09:00", "12:00"}
	if !equalStrings(got, want) {
		t.Fatalf("Monday order = %v, want %v", got, want)
	}
	if s.Len() != 5 || s.ActiveLen() != 4 {
		t.Fatalf("Len=%d ActiveLen=%d, want 5 and 4", s.Len(), s.ActiveLen())
	}
	if days := s.Days(); len(days) != 2 || days[0] != clock.Monday || days[1] != clock.Tuesday {
		t.Fatalf("Days = %v", days)
	}
}

func TestLoadFileRoundTrip(t *testing.T) {
	t.Parallel()
	s, err := LoadFile(filepath.Join("testdata", "Reminder.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	tests := []struct {
		day  clock.Day
		at   string
		want Event
	}{
		{clock.Monday, "08:00", Event{Title: "Gym", Details: "Leg day"}},
		{clock.Monday, "07:00", Event{Title: "Wake up"}},
		{clock.Monday, "09:00", Event{Title: "Standup", Details: "Room 4"}},
		{clock.Monday, "12:00", Event{Title: "   ", Details: "ignored"}},
		{clock.Tuesday, "18:30", Event{Title: "English class", Details: "Unit 7"}},
	}
	for _, tt := range tests {
		got, ok := s.Lookup(tt.day, tt.at)
		if !ok {
			t.Fatalf("Lookup(%s, %s) missing", tt.day, tt.at)
		}
		if got != tt.want {
			t.Fatalf("Lookup(%s, %s) = %+v, want %+v", tt.day, tt.at, got, tt.want)
		}
	}
	if _, ok := s.Lookup(clock.Sunday, "08:00"); ok {
		t.Fatal("absent day should not resolve")
	}
	if _, ok := s.Lookup(clock.Monday, "08:01"); ok {
		t.Fatal("absent slot should not resolve")
	}
}

func TestLoadFileYAML(t *testing.T) {
	t.Parallel()
	s, err := LoadFile(filepath.Join("testdata", "Reminder.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := times(s.Entries(clock.Monday)); !equalStrings(got, []string{"08:00", "07:00", "09:00"}) {
		t.Fatalf("Monday order = %v", got)
	}
	ev, ok := s.Lookup(clock.Monday, "07:00")
	if !ok || ev.Details != "coffee first" {
		t.Fatalf("Lookup = %+v, %v", ev, ok)
	}
	if _, ok := s.Lookup(clock.Friday, "17:00"); !ok {
		t.Fatal("friday slot missing")
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := LoadFile(path)
	var le *LoadError
	if !errors.As(err, &le) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("LoadFile error = %v, want LoadError wrapping ErrNotExist", err)
	}
	s := Load(path, logx.Nop())
	if s == nil || s.Len() != 0 {
		t.Fatalf("Load should return an empty schedule, got %+v", s)
	}
}

func TestLoadMalformedDegradesToEmpty(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for name, body := range map[string]string{
		"truncated.json": `{"MONDAY": {"09:00": {"title": "x"}`,
		"trailing.json":  `{"MONDAY": {}} {}`,
		"array.json":     `[1, 2, 3]`,
		"empty.json":     ``,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Fatalf("%s: expected LoadError", name)
		}
		if s := Load(path, logx.Nop()); s.Len() != 0 {
			t.Fatalf("%s: expected empty schedule", name)
		}
	}
}

func TestParseSkipsUnexpectedShapes(t *testing.T) {
	t.Parallel()
	doc := `{
		"MONDAY": {"09:00": "not an object", "10:00": {"title": 42}, "11:00": {"title": "ok"}, "9h": {"title": "odd key"}},
		"TUESDAY": ["not", "an", "object"],
		"FUNDAY": {"09:00": {"title": "unknown day"}}
	}`
	s, err := Parse([]byte(doc), "json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := s.Lookup(clock.Monday, "09:00"); ok {
		t.Fatal("scalar slot should be skipped")
	}
	if ev, ok := s.Lookup(clock.Monday, "10:00"); !ok || ev.Active() {
		t.Fatalf("non-string title should yield an inert slot, got %+v %v", ev, ok)
	}
	if ev, ok := s.Lookup(clock.Monday, "11:00"); !ok || ev.Title != "ok" {
		t.Fatalf("Lookup 11:00 = %+v %v", ev, ok)
	}
	if _, ok := s.Lookup(clock.Monday, "9h"); !ok {
		t.Fatal("odd slot keys are kept verbatim")
	}
	if len(s.Entries(clock.Tuesday)) != 0 {
		t.Fatal("array day should hold no slots")
	}
}

func TestDetailsFallback(t *testing.T) {
	t.Parallel()
	s, err := Parse([]byte(`{"MONDAY": {
		"09:00": {"title": "a", "detalhes": "pt", "details": "en"},
		"10:00": {"title": "b", "detalhes": "  ", "details": "en"}
	}}`), "json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ev, _ := s.Lookup(clock.Monday, "09:00"); ev.Details != "pt" {
		t.Fatalf("detalhes should win, got %q", ev.Details)
	}
	if ev, _ := s.Lookup(clock.Monday, "10:00"); ev.Details != "en" {
		t.Fatalf("details fallback, got %q", ev.Details)
	}
}

func TestSetReplacesInPlace(t *testing.T) {
	t.Parallel()
	s := New()
	s.Set(clock.Monday, "08:00", Event{Title: "a"})
	s.Set(clock.Monday, "07:00", Event{Title: "b"})
	s.Set(clock.Monday, "08:00", Event{Title: "c"})
	es := s.Entries(clock.Monday)
	if len(es) != 2 || es[0].At != "08:00" || es[0].Event.Title != "c" {
		t.Fatalf("Entries = %+v", es)
	}
}

func TestNilScheduleIsEmpty(t *testing.T) {
	t.Parallel()
	var s *Schedule
	if _, ok := s.Lookup(clock.Monday, "09:00"); ok || s.Len() != 0 || s.Entries(clock.Monday) != nil {
		t.Fatal("nil schedule must behave as empty")
	}
}
