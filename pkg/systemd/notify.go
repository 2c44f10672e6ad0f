package systemd

import (
	"sync/atomic"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	logx "remindme/pkg/logx"
)

// Notifier reports service state to systemd via sd_notify. Every method is
// a no-op when the process was not started by systemd (NOTIFY_SOCKET unset).
type Notifier struct {
	log      logx.Logger
	watchdog time.Duration
	pings    atomic.Uint64
}

// NewNotifier reads the watchdog settings systemd passed to the process.
func NewNotifier(log logx.Logger) *Notifier {
	n := &Notifier{log: log}
	wd, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		log.Warn("systemd watchdog settings invalid", logx.Err(err))
	}
	n.watchdog = wd
	if wd > 0 {
		log.Info("systemd watchdog enabled", logx.Duration("timeout", wd))
	}
	return n
}

// WatchdogTimeout is WatchdogSec from the unit, or 0 when disabled.
func (n *Notifier) WatchdogTimeout() time.Duration { return n.watchdog }

// Pings counts watchdog notifications actually delivered.
func (n *Notifier) Pings() uint64 { return n.pings.Load() }

func (n *Notifier) Ready() bool { return n.notify(daemon.SdNotifyReady) }

func (n *Notifier) Stopping() bool { return n.notify(daemon.SdNotifyStopping) }

// Status sets the free-form status line shown by systemctl status.
func (n *Notifier) Status(s string) bool { return n.notify("STATUS=" + s) }

// Watchdog pings the service watchdog. Callers invoke it once per unit of
// progress, so a stalled loop lets the watchdog fire.
func (n *Notifier) Watchdog() bool {
	if n.watchdog <= 0 {
		return false
	}
	ok := n.notify(daemon.SdNotifyWatchdog)
	if ok {
		n.pings.Add(1)
	}
	return ok
}

func (n *Notifier) notify(state string) bool {
	ok, err := daemon.SdNotify(false, state)
	if err != nil {
		n.log.Warn("sd_notify failed", logx.String("state", state), logx.Err(err))
		return false
	}
	return ok
}
