package notifier

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"remindme/internal/eventbus"
	"remindme/internal/transport"
	logx "remindme/pkg/logx"
)

type Config struct {
	Channel   transport.Channel
	Recipient transport.Recipient
	// RatePerSec paces sends with a token bucket; 0 disables pacing.
	RatePerSec int
	// SendTimeout sets a deadline on the send context; 0 sets none. Neither
	// transport can abort an HTTP call in flight, so the deadline is checked
	// before each message part. telegram.timeout bounds a hung call.
	SendTimeout time.Duration
}

// Delivery is the payload of notify.* events.
type Delivery struct {
	Channel transport.Channel `json:"channel"`
	To      string            `json:"to"`
	At      time.Time         `json:"at"`
	Text    string            `json:"text"`
	Error   string            `json:"error,omitempty"`
}

type Notifier struct {
	cfg     Config
	sender  transport.Sender
	log     logx.Logger
	bus     eventbus.Bus
	limiter *rate.Limiter
}

func New(cfg Config, sender transport.Sender, log logx.Logger, bus eventbus.Bus) *Notifier {
	if log.IsZero() {
		log = logx.Nop()
	}
	n := &Notifier{cfg: cfg, sender: sender, log: log, bus: bus}
	if cfg.RatePerSec > 0 {
		n.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	}
	return n
}

// Recipient returns the configured destination.
func (n *Notifier) Recipient() transport.Recipient { return n.cfg.Recipient }

// Send delivers text and reports whether it went out. Errors are logged,
// never returned.
func (n *Notifier) Send(ctx context.Context, text string) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	err := n.send(ctx, text)
	now := time.Now()
	d := Delivery{Channel: n.cfg.Channel, To: n.cfg.Recipient.String(), At: now, Text: text}
	if err != nil {
		n.log.Error("send failed", logx.String("to", d.To), logx.String("text", text), logx.Err(err))
		d.Error = err.Error()
		n.publish(eventbus.TypeFailed, now, d)
		return false
	}
	n.log.Info("message sent", logx.String("to", d.To), logx.String("text", text))
	n.publish(eventbus.TypeSent, now, d)
	return true
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n.sender == nil {
		return errors.New("notifier: no transport configured")
	}
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if n.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.SendTimeout)
		defer cancel()
	}
	_, err := n.sender.SendText(ctx, n.cfg.Recipient, text, &transport.SendOptions{DisablePreview: true})
	return transport.Wrap(n.cfg.Channel, n.cfg.Recipient, err)
}

func (n *Notifier) publish(typ string, at time.Time, d Delivery) {
	if n.bus == nil {
		return
	}
	n.bus.Publish(eventbus.Event{Type: typ, Time: at, Data: d})
}
