package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"remindme/internal/clock"
	logx "remindme/pkg/logx"
)

// DefaultPath is where the schedule lives relative to the working directory.
const DefaultPath = "../remindList/Reminder.json"

// LoadError reports a schedule file that could not be read or parsed.
// It is never fatal: the caller continues with an empty schedule.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load schedule %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

var errNotObject = errors.New("top level must be an object")

// Load reads the schedule at path. On any failure it logs a LoadError and
// returns an empty schedule, so the process keeps running with no events.
func Load(path string, log logx.Logger) *Schedule {
	if log.IsZero() {
		log = logx.Nop()
	}
	s, err := LoadFile(path)
	if err != nil {
		log.Error("schedule load failed; running with an empty schedule", logx.String("path", path), logx.Err(err))
		return New()
	}
	log.Info("schedule loaded",
		logx.String("path", path),
		logx.Int("days", len(s.Days())),
		logx.Int("slots", s.Len()),
		logx.Int("active", s.ActiveLen()),
	)
	return s
}

// LoadFile is Load without the fallback. Errors are *LoadError.
func LoadFile(path string) (*Schedule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	s, err := Parse(b, formatOf(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return s, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Parse decodes a schedule document. format is "json" or "yaml".
//
// Unknown day keys and slots whose value is not an object are skipped.
// Slot keys are kept verbatim.
func Parse(data []byte, format string) (*Schedule, error) {
	if format == "yaml" {
		return parseYAML(data)
	}
	return parseJSON(data)
}

// rawEvent mirrors one slot. Both "detalhes" (Portuguese schedule files) and
// "details" are accepted; "detalhes" wins when both are set.
type rawEvent struct {
	Title    any `json:"title" yaml:"title"`
	Detalhes any `json:"detalhes" yaml:"detalhes"`
	Details  any `json:"details" yaml:"details"`
}

func (r rawEvent) event() Event {
	ev := Event{Title: asString(r.Title), Details: asString(r.Detalhes)}
	if strings.TrimSpace(ev.Details) == "" {
		if d := asString(r.Details); d != "" {
			ev.Details = d
		}
	}
	return ev
}

// asString keeps strings and drops everything else; a non-string title makes
// the slot inert rather than failing the load.
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// parseJSON walks the document with a token stream; encoding/json maps
// would lose key order.
func parseJSON(data []byte) (*Schedule, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectObject(dec); err != nil {
		return nil, err
	}
	s := New()
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		day, ok := clock.ParseDay(key)
		if !ok {
			continue
		}
		if err := parseJSONDay(s, day, raw); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("trailing data after schedule object")
		}
		return nil, err
	}
	return s, nil
}

func parseJSONDay(s *Schedule, day clock.Day, raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectObject(dec); err != nil {
		// A day that isn't an object holds no slots.
		if errors.Is(err, errNotObject) {
			return nil
		}
		return err
	}
	for dec.More() {
		at, err := objectKey(dec)
		if err != nil {
			return err
		}
		var slot json.RawMessage
		if err := dec.Decode(&slot); err != nil {
			return err
		}
		var re rawEvent
		if err := json.Unmarshal(slot, &re); err != nil {
			continue
		}
		s.Set(day, at, re.event())
	}
	return nil
}

func expectObject(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}
	return nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token %v", tok)
	}
	return key, nil
}

// parseYAML uses yaml.Node so mapping order survives decoding.
func parseYAML(data []byte) (*Schedule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errNotObject
	}
	s := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		day, ok := clock.ParseDay(root.Content[i].Value)
		if !ok || root.Content[i+1].Kind != yaml.MappingNode {
			continue
		}
		slots := root.Content[i+1].Content
		for j := 0; j+1 < len(slots); j += 2 {
			v := slots[j+1]
			if v.Kind != yaml.MappingNode {
				continue
			}
			var re rawEvent
			if err := v.Decode(&re); err != nil {
				continue
			}
			s.Set(day, slots[j].Value, re.event())
		}
	}
	return s, nil
}
