package app

import (
	"strconv"
	"strings"
	"time"

	"remindme/internal/config"
	"remindme/internal/notifier"
	"remindme/internal/reminder"
	"remindme/internal/scheduler"
	"remindme/internal/transport"
	"remindme/internal/transport/telegram"
	"remindme/internal/transport/twilio"
	logx "remindme/pkg/logx"
)

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Chat: logx.ChatConfig{
			Enabled:    cfg.Logging.Chat.Enabled,
			MinLevel:   cfg.Logging.Chat.MinLevel,
			RatePerSec: cfg.Logging.Chat.RatePerSec,
		},
	}
}

// recipient resolves the single destination for reminders.
func recipient(cfg *config.Config) (transport.Channel, transport.Recipient, error) {
	if cfg.TransportName() == config.TransportTwilio {
		return transport.ChannelTwilio, transport.Recipient{Address: strings.TrimSpace(cfg.Twilio.To)}, nil
	}
	id, err := cfg.TelegramChatID()
	if err != nil {
		return "", transport.Recipient{}, err
	}
	return transport.ChannelTelegram, transport.Recipient{ChatID: id}, nil
}

// logTarget is where mirrored log lines go: telegram.log_chat_id when set,
// otherwise the reminder recipient.
func logTarget(cfg *config.Config, fallback transport.Recipient) transport.Recipient {
	if cfg.TransportName() != config.TransportTelegram {
		return fallback
	}
	raw := strings.TrimSpace(cfg.Telegram.LogChatID)
	if raw == "" {
		return fallback
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return transport.Recipient{ChatID: id}
}

func newSender(cfg *config.Config, log logx.Logger) (transport.Sender, error) {
	switch cfg.TransportName() {
	case config.TransportTwilio:
		return twilio.New(twilio.Config{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			From:       cfg.Twilio.From,
		}, log)
	default:
		timeout, err := config.ParseDurationField("telegram.timeout", cfg.Telegram.Timeout)
		if err != nil {
			return nil, err
		}
		return telegram.New(telegram.Config{
			Token:   cfg.Telegram.Token,
			Timeout: timeout,
		}, log)
	}
}

func mapNotifierConfig(cfg *config.Config) (notifier.Config, error) {
	ch, to, err := recipient(cfg)
	if err != nil {
		return notifier.Config{}, err
	}
	timeout, err := config.ParseDurationField("notifier.send_timeout", cfg.Notifier.SendTimeout)
	if err != nil {
		return notifier.Config{}, err
	}
	return notifier.Config{
		Channel:     ch,
		Recipient:   to,
		RatePerSec:  cfg.Notifier.RatePerSec,
		SendTimeout: timeout,
	}, nil
}

func mapLeadTime(cfg *config.Config) (time.Duration, error) {
	return config.ParseDurationOrDefault("reminders.lead_time", cfg.Reminders.LeadTime, reminder.DefaultLeadTime)
}

func mapCadence(cfg *config.Config) (scheduler.Cadence, error) {
	c, err := scheduler.ParseCadence(cfg.Reminders.Cadence)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "reminders.cadence", Err: err}
	}
	return c, nil
}
