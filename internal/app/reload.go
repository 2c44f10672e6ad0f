package app

import (
	"context"
	"strings"

	"remindme/internal/config"
	logx "remindme/pkg/logx"
)

// applyReloads consumes published configs. Only logging is applied live;
// other sections are read once at startup.
func (a *App) applyReloads(ctx context.Context, sub <-chan *config.Config) {
	last := a.cfg
	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-sub:
			if !ok {
				return
			}
			// Coalesce bursts: only the newest config matters.
		drain:
			for {
				select {
				case newer, ok := <-sub:
					if !ok {
						break drain
					}
					if newer != nil {
						next = newer
					}
				default:
					break drain
				}
			}
			if next == nil {
				continue
			}
			a.applyConfig(last, next)
			last = next
		}
	}
}

func (a *App) applyConfig(prev, next *config.Config) {
	sections, attrs, restart := config.SummarizeChange(prev, next)
	if len(sections) == 0 {
		a.log.Debug("config reload received, but no effective changes detected")
		return
	}
	fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
	a.log.Info("config change", fields...)
	if restart {
		a.log.Warn("some changes only take effect after restart", logx.String("changed", strings.Join(sections, ",")))
	}

	for _, s := range sections {
		if s != "logging" {
			continue
		}
		_, to, err := recipient(next)
		if err != nil {
			to = a.notif.Recipient()
		}
		a.logs.SetChatTarget(logTarget(next, to))
		a.logs.Apply(mapLogConfig(next))
		a.log.Info("logging reconfigured", logx.String("level", next.Logging.Level))
	}
}
