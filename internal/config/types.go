package config

import "remindme/internal/schedule"

// Transport names accepted by Config.Transport.
const (
	TransportTelegram = "telegram"
	TransportTwilio   = "twilio"
)

type Config struct {
	// Transport selects the messaging channel: "telegram" (default) or "twilio".
	Transport string `json:"transport,omitempty"`

	Telegram  TelegramConfig  `json:"telegram"`
	Twilio    TwilioConfig    `json:"twilio"`
	Schedule  ScheduleConfig  `json:"schedule"`
	Reminders RemindersConfig `json:"reminders"`
	Notifier  NotifierConfig  `json:"notifier"`
	Logging   LoggingConfig   `json:"logging"`
}

// TelegramConfig holds the bot credentials and the single recipient.
// Secrets normally come from the environment rather than the settings file.
type TelegramConfig struct {
	Token         string `json:"token,omitempty"`
	AllowedUserID string `json:"allowed_user_id,omitempty"`
	// Timeout is the HTTP client timeout for Bot API calls (Go duration string).
	Timeout string `json:"timeout,omitempty"`
	// LogChatID receives mirrored log lines when logging.chat is enabled.
	// Empty means the reminder recipient.
	LogChatID string `json:"log_chat_id,omitempty"`
}

type TwilioConfig struct {
	AccountSID string `json:"account_sid,omitempty"`
	AuthToken  string `json:"auth_token,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
}

type ScheduleConfig struct {
	Path string `json:"path,omitempty"`
}

// RemindersConfig controls matching and the polling cadence.
//
// Cadence accepts "60s", "interval:1m", "00:01" or "cron:* * * * *".
// LeadTime is a Go duration string (default "30m").
type RemindersConfig struct {
	Cadence             string `json:"cadence,omitempty"`
	LeadTime            string `json:"lead_time,omitempty"`
	UpcomingResolvesDay bool   `json:"upcoming_resolves_day,omitempty"`
}

// NotifierConfig paces outgoing sends. Zero values disable pacing and
// leave the transport timeout in charge. SendTimeout is checked before each
// message part; use telegram.timeout to bound a single HTTP call.
type NotifierConfig struct {
	RatePerSec  int    `json:"rate_per_sec,omitempty"`
	SendTimeout string `json:"send_timeout,omitempty"`
}

type LoggingConfig struct {
	Level   string        `json:"level"`
	Console bool          `json:"console"`
	File    LogFileConfig `json:"file"`
	Chat    ChatLogConfig `json:"chat"`
}

type LogFileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// ChatLogConfig mirrors log lines at or above MinLevel to the chat transport.
type ChatLogConfig struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

// Default returns the configuration used when no settings file is present.
func Default() *Config {
	return &Config{
		Transport: TransportTelegram,
		Telegram: TelegramConfig{
			Timeout: "15s",
		},
		Schedule: ScheduleConfig{Path: schedule.DefaultPath},
		Reminders: RemindersConfig{
			Cadence:  "60s",
			LeadTime: "30m",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Chat: ChatLogConfig{
				MinLevel:   "error",
				RatePerSec: 1,
			},
		},
	}
}
