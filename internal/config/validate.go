package config

import (
	"errors"
	"strconv"
	"strings"

	"remindme/internal/scheduler"
	logx "remindme/pkg/logx"
)

// Validate checks cfg and returns every problem found, joined. Each
// element is a *ConfigurationError.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &ConfigurationError{Err: errors.New("config is nil")}
	}
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	switch cfg.TransportName() {
	case TransportTelegram:
		if strings.TrimSpace(cfg.Telegram.Token) == "" {
			add(invalid("telegram.token", "missing bot token (set %s)", EnvTelegramToken))
		}
		if _, err := cfg.TelegramChatID(); err != nil {
			add(err)
		}
		if strings.TrimSpace(cfg.Telegram.LogChatID) != "" {
			if _, err := strconv.ParseInt(strings.TrimSpace(cfg.Telegram.LogChatID), 10, 64); err != nil {
				add(invalid("telegram.log_chat_id", "not a chat id: %q", cfg.Telegram.LogChatID))
			}
		}
		_, err := ParseDurationField("telegram.timeout", cfg.Telegram.Timeout)
		add(wrapField("telegram.timeout", err))
	case TransportTwilio:
		req := []struct{ field, env, v string }{
			{"twilio.account_sid", EnvTwilioSID, cfg.Twilio.AccountSID},
			{"twilio.auth_token", EnvTwilioToken, cfg.Twilio.AuthToken},
			{"twilio.from", EnvTwilioFrom, cfg.Twilio.From},
			{"twilio.to", EnvTwilioTo, cfg.Twilio.To},
		}
		for _, r := range req {
			if strings.TrimSpace(r.v) == "" {
				add(invalid(r.field, "missing value (set %s)", r.env))
			}
		}
	default:
		add(invalid("transport", "unknown transport %q (want %s or %s)", cfg.Transport, TransportTelegram, TransportTwilio))
	}

	if !logx.ValidLevel(cfg.Logging.Level) {
		add(invalid("logging.level", "unknown level %q", cfg.Logging.Level))
	}
	if !logx.ValidLevel(cfg.Logging.Chat.MinLevel) {
		add(invalid("logging.chat.min_level", "unknown level %q", cfg.Logging.Chat.MinLevel))
	}
	if cfg.Logging.Chat.RatePerSec < 0 {
		add(invalid("logging.chat.rate_per_sec", "must be >= 0"))
	}

	if _, err := scheduler.ParseCadence(cfg.Reminders.Cadence); err != nil {
		add(wrapField("reminders.cadence", err))
	}
	_, err := ParseDurationField("reminders.lead_time", cfg.Reminders.LeadTime)
	add(wrapField("reminders.lead_time", err))

	if cfg.Notifier.RatePerSec < 0 {
		add(invalid("notifier.rate_per_sec", "must be >= 0"))
	}
	_, err = ParseDurationField("notifier.send_timeout", cfg.Notifier.SendTimeout)
	add(wrapField("notifier.send_timeout", err))

	return errors.Join(errs...)
}

// TransportName returns the normalized transport, defaulting to telegram.
func (c *Config) TransportName() string {
	t := strings.ToLower(strings.TrimSpace(c.Transport))
	if t == "" {
		return TransportTelegram
	}
	return t
}

// TelegramChatID parses the allowed user id, which is also the chat the
// bot writes to.
func (c *Config) TelegramChatID() (int64, error) {
	raw := strings.TrimSpace(c.Telegram.AllowedUserID)
	if raw == "" {
		return 0, invalid("telegram.allowed_user_id", "missing recipient (set %s)", EnvTelegramUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, invalid("telegram.allowed_user_id", "not a chat id: %q", raw)
	}
	return id, nil
}

func wrapField(field string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return err
	}
	return &ConfigurationError{Field: field, Err: err}
}
