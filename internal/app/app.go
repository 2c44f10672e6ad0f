// Package app wires configuration, transport, schedule and the polling
// loop into one runnable process.
package app

import (
	"context"
	"time"

	"remindme/internal/clock"
	"remindme/internal/config"
	"remindme/internal/eventbus"
	"remindme/internal/notifier"
	"remindme/internal/reminder"
	"remindme/internal/runtime/supervisor"
	"remindme/internal/schedule"
	"remindme/internal/scheduler"
	"remindme/internal/transport"
	logx "remindme/pkg/logx"
	"remindme/pkg/systemd"
)

const (
	farewellTimeout = 10 * time.Second
	stopGrace       = farewellTimeout + 2*time.Second
)

type App struct {
	cfg  *config.Config
	cfgm *config.Manager

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus
	sd   *systemd.Notifier

	sender transport.Sender
	notif  *notifier.Notifier
	loop   *scheduler.Loop

	sup *supervisor.Supervisor
}

type options struct {
	clock  clock.Clock
	sender transport.Sender
}

type Option func(*options)

// WithClock replaces the wall clock used for matching.
func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

// WithSender skips building the configured transport and uses s instead.
func WithSender(s transport.Sender) Option { return func(o *options) { o.sender = s } }

// New builds every component from cfg. cfgm may be nil when no settings
// file is in use; hot reload is then disabled.
func New(cfg *config.Config, cfgm *config.Manager, opts ...Option) (*App, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	sender := o.sender
	if sender == nil {
		bootLog := logx.NewConsole(cfg.Logging.Level).With(logx.String("comp", cfg.TransportName()))
		s, err := newSender(cfg, bootLog)
		if err != nil {
			return nil, err
		}
		sender = s
	}

	ncfg, err := mapNotifierConfig(cfg)
	if err != nil {
		return nil, err
	}

	// Start with the chat sink off so Apply doesn't complain about a
	// missing target, then enable it once the target is known.
	logCfg := mapLogConfig(cfg)
	bootCfg := logCfg
	bootCfg.Chat.Enabled = false
	logSvc, root := logx.New(bootCfg, sender)
	logSvc.SetChatTarget(logTarget(cfg, ncfg.Recipient))
	logSvc.Apply(logCfg)
	log := root.With(logx.String("comp", "app"))

	lead, err := mapLeadTime(cfg)
	if err != nil {
		return nil, err
	}
	cadence, err := mapCadence(cfg)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()
	sd := systemd.NewNotifier(root.With(logx.String("comp", "systemd")))

	sched := schedule.Load(cfg.Schedule.Path, root.With(logx.String("comp", "schedule")))
	matcher := &reminder.Matcher{
		Schedule:           sched,
		LeadTime:           lead,
		ResolveUpcomingDay: cfg.Reminders.UpcomingResolvesDay,
	}

	notif := notifier.New(ncfg, sender, root.With(logx.String("comp", "notifier")), bus)
	loop := scheduler.New(scheduler.Config{
		Cadence:         cadence,
		FarewellTimeout: farewellTimeout,
		OnIteration:     func() { sd.Watchdog() },
	}, matcher, o.clock, notif, root.With(logx.String("comp", "loop")), bus)

	if cfgm != nil {
		cfgm.SetLogger(root.With(logx.String("comp", "config")))
	}

	log.Info("configured",
		logx.String("transport", cfg.TransportName()),
		logx.String("to", ncfg.Recipient.String()),
		logx.String("schedule", cfg.Schedule.Path),
		logx.Int("entries", sched.Len()),
		logx.String("cadence", cadence.String()),
		logx.Duration("lead_time", lead),
	)

	return &App{
		cfg:    cfg,
		cfgm:   cfgm,
		log:    log,
		logs:   logSvc,
		bus:    bus,
		sd:     sd,
		sender: sender,
		notif:  notif,
		loop:   loop,
	}, nil
}

// Loop exposes the polling loop for status checks.
func (a *App) Loop() *scheduler.Loop { return a.loop }

// Done is closed when the app stops running, by Stop or by a fatal error.
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error seen by the supervisor.
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

// Start launches the loop and, when a settings file is in use, the
// config watcher. It returns immediately.
func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx,
		supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true),
	)

	events, unsub := a.bus.Subscribe(64)
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		a.logEvents(c, events)
	})

	if a.cfgm != nil {
		sub := a.cfgm.Subscribe(4)
		a.sup.Go0("config.reload", func(c context.Context) {
			defer a.cfgm.Unsubscribe(sub)
			a.applyReloads(c, sub)
		})
		a.sup.Go("config.watch", a.cfgm.Watch)
	}

	a.sup.Go("loop", a.loop.Run)

	a.sd.Ready()
	a.sd.Status("watching for events")
	a.log.Info("app started")
	return nil
}

// Stop cancels the loop, which sends the farewell, and waits for every
// supervised goroutine up to a bounded grace period.
func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping")
	a.sd.Stopping()
	a.sup.Cancel()

	wctx, cancel := context.WithTimeout(ctx, stopGrace)
	defer cancel()
	err := a.sup.Wait(wctx)
	if err != nil {
		a.log.Warn("stop incomplete", logx.Err(err))
	}
	a.log.Info("stopped", logx.Int64("iterations", int64(a.loop.Iterations())))
	_ = a.logs.Close()
	return err
}

func (a *App) logEvents(ctx context.Context, events <-chan eventbus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
		}
	}
}
