package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// Decode strictly decodes settings into cfg. Fields absent from data keep
// their current values, so callers pass Default() to get defaults. YAML
// (by .yaml/.yml extension of name) is converted to JSON first so both
// formats share the same unknown-field rejection.
func Decode(name string, data []byte, cfg *Config) error {
	jb, err := toJSON(name, data)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("invalid config: trailing data")
		}
		return err
	}
	return nil
}

func toJSON(name string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if v == nil {
		return []byte("{}"), nil
	}
	j, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("yaml->json: %w", err)
	}
	return j, nil
}

// stringKeys rewrites map keys as strings so the value can be JSON-marshaled.
func stringKeys(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = stringKeys(v)
		}
		return m
	case map[string]any:
		for k, v := range x {
			x[k] = stringKeys(v)
		}
		return x
	case []any:
		for i := range x {
			x[i] = stringKeys(x[i])
		}
		return x
	default:
		return in
	}
}
