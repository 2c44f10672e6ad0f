// Package supervisor runs named goroutines tied to one context.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	logx "remindme/pkg/logx"
)

// Supervisor manages goroutines tied to a shared context:
//   - named goroutines (for logging)
//   - panic recovery
//   - optional cancel-on-first-error
//   - timeout-aware waiting
type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc

	log         logx.Logger
	cancelOnErr bool

	active   atomic.Int64
	errOnce  sync.Once
	firstErr atomic.Value // error
	doneOnce sync.Once
	doneCh   chan struct{}
	wg       sync.WaitGroup
}

type Option func(*Supervisor)

func WithLogger(log logx.Logger) Option {
	return func(s *Supervisor) { s.log = log }
}

// WithCancelOnError makes the first non-nil error (or panic) cancel the
// supervisor context.
func WithCancelOnError(enabled bool) Option {
	return func(s *Supervisor) { s.cancelOnErr = enabled }
}

func New(parent context.Context, opts ...Option) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	s := &Supervisor{ctx: ctx, cancel: cancel, doneCh: make(chan struct{})}
	for _, o := range opts {
		o(s)
	}
	if s.log.IsZero() {
		s.log = logx.Nop()
	}
	return s
}

func (s *Supervisor) Context() context.Context { return s.ctx }

// Cancel cancels the context without waiting for goroutines to exit.
func (s *Supervisor) Cancel() { s.cancel() }

// Active returns the number of goroutines currently running.
func (s *Supervisor) Active() int64 { return s.active.Load() }

// Err returns the first error observed, if any.
func (s *Supervisor) Err() error {
	err, _ := s.firstErr.Load().(error)
	return err
}

// Go runs fn in a new goroutine. context.Canceled is not treated as an error.
func (s *Supervisor) Go(name string, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	s.active.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.active.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("goroutine panicked",
					logx.String("name", name),
					logx.Any("panic", r),
					logx.Stack(string(debug.Stack())),
				)
				s.fail(fmt.Errorf("panic in %s: %v", name, r))
			}
		}()

		s.log.Debug("goroutine started", logx.String("name", name))
		if err := fn(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.fail(fmt.Errorf("%s: %w", name, err))
		}
		s.log.Debug("goroutine stopped", logx.String("name", name))
	}()
}

// Go0 is Go for functions that don't return an error.
func (s *Supervisor) Go0(name string, fn func(ctx context.Context)) {
	if fn == nil {
		return
	}
	s.Go(name, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}

// Wait blocks until every goroutine returned or ctx is done.
func (s *Supervisor) Wait(ctx context.Context) error {
	s.doneOnce.Do(func() {
		go func() {
			s.wg.Wait()
			close(s.doneCh)
		}()
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.doneCh:
		return s.Err()
	}
}

// Stop cancels the context and waits.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.cancel()
	return s.Wait(ctx)
}

func (s *Supervisor) fail(err error) {
	s.errOnce.Do(func() { s.firstErr.Store(err) })
	if s.cancelOnErr {
		s.cancel()
	}
}
