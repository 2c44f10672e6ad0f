package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"remindme/internal/clock"
	"remindme/internal/eventbus"
	"remindme/internal/reminder"
	logx "remindme/pkg/logx"
)

type State int32

const (
	StateStarting State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Sender delivers one text and reports success. *notifier.Notifier satisfies it.
type Sender interface {
	Send(ctx context.Context, text string) bool
}

type Config struct {
	Cadence  Cadence
	Greeting string
	Farewell string
	// FarewellTimeout bounds the farewell send, which runs after ctx is done.
	FarewellTimeout time.Duration
	// OnIteration runs after every poll, panicking or not (watchdog pings).
	OnIteration func()
}

type Loop struct {
	cfg     Config
	matcher *reminder.Matcher
	clock   clock.Clock
	send    Sender
	log     logx.Logger
	bus     eventbus.Bus

	state  atomic.Int32
	digest reminder.DigestState
	iter   atomic.Uint64
}

func New(cfg Config, m *reminder.Matcher, c clock.Clock, send Sender, log logx.Logger, bus eventbus.Bus) *Loop {
	if cfg.Cadence == nil {
		cfg.Cadence = Interval(DefaultInterval)
	}
	if cfg.Greeting == "" {
		cfg.Greeting = reminder.GreetingText
	}
	if cfg.Farewell == "" {
		cfg.Farewell = reminder.FarewellText
	}
	if cfg.FarewellTimeout <= 0 {
		cfg.FarewellTimeout = 10 * time.Second
	}
	if c == nil {
		c = clock.System{}
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Loop{cfg: cfg, matcher: m, clock: c, send: send, log: log, bus: bus}
}

func (l *Loop) State() State { return State(l.state.Load()) }

// Iterations returns how many polls completed.
func (l *Loop) Iterations() uint64 { return l.iter.Load() }

// Digest exposes the loop-owned digest state.
func (l *Loop) Digest() *reminder.DigestState { return &l.digest }

// Run sends the greeting, polls until ctx is canceled, then sends the
// farewell. It only returns after the farewell attempt.
func (l *Loop) Run(ctx context.Context) error {
	l.state.Store(int32(StateStarting))
	l.log.Info("starting", logx.String("cadence", l.cfg.Cadence.String()))
	if !l.send.Send(ctx, l.cfg.Greeting) {
		l.log.Warn("greeting not delivered; continuing")
	}

	l.state.Store(int32(StateRunning))
	l.publish(eventbus.TypeStarted, nil)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		l.Tick(ctx)

		wait := time.Until(l.cfg.Cadence.Next(time.Now()))
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return l.stop()
		case <-timer.C:
		}
	}
}

func (l *Loop) stop() error {
	l.log.Info("interrupt received; sending farewell")
	fctx, cancel := context.WithTimeout(context.Background(), l.cfg.FarewellTimeout)
	defer cancel()
	l.send.Send(fctx, l.cfg.Farewell)
	l.state.Store(int32(StateStopped))
	l.publish(eventbus.TypeStopped, nil)
	return nil
}

// Tick runs one poll. A panic inside it is logged and swallowed so the loop
// keeps its cadence.
func (l *Loop) Tick(ctx context.Context) {
	defer func() {
		l.iter.Add(1)
		if l.cfg.OnIteration != nil {
			l.cfg.OnIteration()
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("poll failed; skipping iteration",
				logx.Any("panic", r),
				logx.Stack(string(debug.Stack())),
			)
		}
	}()

	now := l.clock.Now()
	for _, n := range l.matcher.Evaluate(now, &l.digest) {
		ok := l.send.Send(ctx, n.Text)
		l.log.Debug("trigger fired",
			logx.String("kind", string(n.Kind)),
			logx.String("day", string(n.Day)),
			logx.String("at", n.At),
			logx.Bool("delivered", ok),
		)
		if ok && n.Kind == reminder.KindDigest {
			l.digest.MarkSent(now)
			l.publish(eventbus.TypeDigest, n.Day)
		}
	}
}

func (l *Loop) publish(typ string, data any) {
	if l.bus != nil {
		l.bus.Publish(eventbus.Event{Type: typ, Data: data})
	}
}
