package supervisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGoErrorCancelsWhenConfigured(t *testing.T) {
	t.Parallel()
	s := New(context.Background(), WithCancelOnError(true))
	s.Go("fails", func(context.Context) error { return errors.New("boom") })
	s.Go0("waits", func(ctx context.Context) { <-ctx.Done() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.Wait(ctx)
	if err == nil || !strings.Contains(err.Error(), "fails: boom") {
		t.Fatalf("Wait = %v, want fails: boom", err)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	t.Parallel()
	s := New(context.Background())
	s.Go0("panics", func(context.Context) { panic("oops") })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err == nil || !strings.Contains(err.Error(), "panic in panics") {
		t.Fatalf("Wait = %v", err)
	}
	if s.Context().Err() != nil {
		t.Fatal("context should stay alive without WithCancelOnError")
	}
	s.Cancel()
}

func TestStopIgnoresCanceled(t *testing.T) {
	t.Parallel()
	s := New(context.Background())
	s.Go("loop", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop = %v", err)
	}
	if s.Active() != 0 {
		t.Fatalf("Active = %d after Stop", s.Active())
	}
}
