package config

import (
	"reflect"
	"strings"

	logx "remindme/pkg/logx"
)

// Sections that only take effect after a restart.
var restartSections = map[string]bool{
	"transport": true,
	"schedule":  true,
	"reminders": true,
	"notifier":  true,
}

// SummarizeChange lists the sections that differ between oldCfg and
// newCfg, with log-safe attrs (never secrets). restart reports whether
// any changed section is only read at startup.
func SummarizeChange(oldCfg, newCfg *Config) (changed []string, attrs []logx.Field, restart bool) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	if oldCfg.TransportName() != newCfg.TransportName() ||
		!reflect.DeepEqual(oldCfg.Telegram, newCfg.Telegram) ||
		!reflect.DeepEqual(oldCfg.Twilio, newCfg.Twilio) {
		changed = append(changed, "transport")
		attrs = append(attrs,
			logx.String("transport", newCfg.TransportName()),
			logx.Bool("telegram.token_set", strings.TrimSpace(newCfg.Telegram.Token) != ""),
		)
	}
	if strings.TrimSpace(oldCfg.Schedule.Path) != strings.TrimSpace(newCfg.Schedule.Path) {
		changed = append(changed, "schedule")
		attrs = append(attrs, logx.String("schedule.path", newCfg.Schedule.Path))
	}
	if oldCfg.Reminders != newCfg.Reminders {
		changed = append(changed, "reminders")
		attrs = append(attrs,
			logx.String("reminders.cadence", newCfg.Reminders.Cadence),
			logx.String("reminders.lead_time", newCfg.Reminders.LeadTime),
		)
	}
	if oldCfg.Notifier != newCfg.Notifier {
		changed = append(changed, "notifier")
		attrs = append(attrs, logx.Int("notifier.rate_per_sec", newCfg.Notifier.RatePerSec))
	}
	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file", newCfg.Logging.File.Enabled),
			logx.Bool("logging.chat", newCfg.Logging.Chat.Enabled),
		)
	}

	for _, s := range changed {
		if restartSections[s] {
			restart = true
			break
		}
	}
	return changed, attrs, restart
}
