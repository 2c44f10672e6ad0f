package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"remindme/internal/eventbus"
	"remindme/internal/transport"
	logx "remindme/pkg/logx"
)

type fakeSender struct {
	mu   sync.Mutex
	err  error
	to   []transport.Recipient
	msgs []string
	dl   []bool
}

func (f *fakeSender) SendText(ctx context.Context, to transport.Recipient, text string, _ *transport.SendOptions) (transport.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.dl = append(f.dl, hasDeadline)
	if f.err != nil {
		return transport.MessageRef{}, f.err
	}
	f.to = append(f.to, to)
	f.msgs = append(f.msgs, text)
	return transport.MessageRef{Recipient: to, ID: "1"}, nil
}

func TestSendSuccess(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	bus := eventbus.New()
	events, unsub := bus.Subscribe(4)
	defer unsub()

	to := transport.Recipient{ChatID: 42}
	n := New(Config{Channel: transport.ChannelTelegram, Recipient: to}, fs, logx.Nop(), bus)
	if !n.Send(context.Background(), "Reminder 09:00: Standup") {
		t.Fatal("Send = false, want true")
	}
	if len(fs.msgs) != 1 || fs.msgs[0] != "Reminder 09:00: Standup" || fs.to[0] != to {
		t.Fatalf("sender got %v to %v", fs.msgs, fs.to)
	}
	e := <-events
	d, ok := e.Data.(Delivery)
	if e.Type != eventbus.TypeSent || !ok || d.To != "42" {
		t.Fatalf("event = %+v", e)
	}
}

func TestSendFailureIsReportedNotReturned(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{err: errors.New("chat not found")}
	bus := eventbus.New()
	events, unsub := bus.Subscribe(4)
	defer unsub()

	n := New(Config{Channel: transport.ChannelTelegram, Recipient: transport.Recipient{ChatID: 1}}, fs, logx.Nop(), bus)
	if n.Send(context.Background(), "x") {
		t.Fatal("Send = true, want false")
	}
	e := <-events
	d, _ := e.Data.(Delivery)
	if e.Type != eventbus.TypeFailed || d.Error == "" {
		t.Fatalf("event = %+v", e)
	}
}

func TestSendWithoutSender(t *testing.T) {
	t.Parallel()
	n := New(Config{}, nil, logx.Logger{}, nil)
	if n.Send(context.Background(), "x") {
		t.Fatal("Send without transport must fail")
	}
}

func TestSendTimeoutSetsDeadline(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	n := New(Config{Recipient: transport.Recipient{ChatID: 1}, SendTimeout: time.Second}, fs, logx.Nop(), nil)
	n.Send(context.Background(), "x")
	n2 := New(Config{Recipient: transport.Recipient{ChatID: 1}}, fs, logx.Nop(), nil)
	n2.Send(context.Background(), "y")
	if len(fs.dl) != 2 || !fs.dl[0] || fs.dl[1] {
		t.Fatalf("deadlines = %v, want [true false]", fs.dl)
	}
}

func TestSendRateLimitHonorsCancel(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	n := New(Config{Recipient: transport.Recipient{ChatID: 1}, RatePerSec: 1}, fs, logx.Nop(), nil)
	if !n.Send(context.Background(), "first") {
		t.Fatal("first send should pass the limiter")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if n.Send(ctx, "second") {
		t.Fatal("send with canceled ctx should fail while waiting for a token")
	}
	if len(fs.msgs) != 1 {
		t.Fatalf("sender got %d messages, want 1", len(fs.msgs))
	}
}
