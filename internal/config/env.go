package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv.
const (
	EnvTelegramToken  = "TELEGRAM_BOT_TOKEN"
	EnvTelegramUserID = "TELEGRAM_ALLOWED_USER_ID"
	EnvTransport      = "REMINDME_TRANSPORT"
	EnvTwilioSID      = "TWILIO_ACCOUNT_SID"
	EnvTwilioToken    = "TWILIO_AUTH_TOKEN"
	EnvTwilioFrom     = "TWILIO_FROM"
	EnvTwilioTo       = "TWILIO_TO"
	EnvSchedule       = "REMINDME_SCHEDULE"
	EnvConfig         = "REMINDME_CONFIG"
	EnvLogLevel       = "REMINDME_LOG_LEVEL"
)

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv copies KEY=VALUE pairs from files (".env" when none are given)
// into the process environment. Variables that are already set win.
// Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds the effective configuration for the process: .env first,
// then the optional settings file named by REMINDME_CONFIG, then environment
// overrides. The result is validated.
//
// The returned Manager is nil when no settings file is in use.
func FromEnv() (*Config, *Manager, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, nil, &ConfigurationError{Field: ".env", Err: err}
	}
	return Resolve(os.LookupEnv)
}

// Resolve is FromEnv without the .env step, reading variables via lookup.
func Resolve(lookup LookupFunc) (*Config, *Manager, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var (
		cfg *Config
		m   *Manager
	)
	if path := envValue(lookup, EnvConfig); path != "" {
		m = NewManager(path)
		m.SetOverlay(func(c *Config) { ApplyEnv(c, lookup) })
		m.SetValidator(func(c *Config) error { return Validate(c) })
		c, err := m.Parse()
		if err != nil {
			return nil, nil, &ConfigurationError{Field: EnvConfig, Err: err}
		}
		cfg = c
	} else {
		cfg = Default()
		ApplyEnv(cfg, lookup)
	}

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}
	if m != nil {
		m.Commit(cfg)
	}
	return cfg, m, nil
}

// ApplyEnv overwrites cfg fields with non-empty environment values.
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	if cfg == nil || lookup == nil {
		return
	}
	set := func(dst *string, key string) {
		if v := envValue(lookup, key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Transport, EnvTransport)
	set(&cfg.Telegram.Token, EnvTelegramToken)
	set(&cfg.Telegram.AllowedUserID, EnvTelegramUserID)
	set(&cfg.Twilio.AccountSID, EnvTwilioSID)
	set(&cfg.Twilio.AuthToken, EnvTwilioToken)
	set(&cfg.Twilio.From, EnvTwilioFrom)
	set(&cfg.Twilio.To, EnvTwilioTo)
	set(&cfg.Schedule.Path, EnvSchedule)
	set(&cfg.Logging.Level, EnvLogLevel)
}

func envValue(lookup LookupFunc, key string) string {
	v, ok := lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
