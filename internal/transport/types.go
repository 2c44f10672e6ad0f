package transport

import (
	"context"
	"errors"
	"fmt"
)

// Recipient identifies where a message goes.
//
// Telegram uses ChatID (+ optional forum ThreadID). Phone-based transports
// (Twilio) use Address, e.g. "+5511999990000".
type Recipient struct {
	ChatID   int64
	ThreadID int
	Address  string
}

func (r Recipient) String() string {
	if r.Address != "" {
		return r.Address
	}
	if r.ThreadID != 0 {
		return fmt.Sprintf("%d/%d", r.ChatID, r.ThreadID)
	}
	return fmt.Sprintf("%d", r.ChatID)
}

// IsZero reports whether no destination is set.
func (r Recipient) IsZero() bool { return r.ChatID == 0 && r.Address == "" }

type MessageRef struct {
	Recipient Recipient
	ID        string
}

type SendOptions struct {
	DisablePreview bool
}

// Sender is the messaging collaborator: deliver a text to one recipient.
type Sender interface {
	SendText(ctx context.Context, to Recipient, text string, opt *SendOptions) (MessageRef, error)
}

// Channel names a concrete Sender implementation.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelTwilio   Channel = "twilio"
)

var ErrNoRecipient = errors.New("transport: recipient not set")

// TransportError marks a delivery failure reported by the messaging API
// (unreachable recipient, rejected request, transient upstream error).
// It is distinct from programming errors so callers can drop the send and move on.
type TransportError struct {
	Channel Channel
	To      Recipient
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s send to %s: %v", e.Channel, e.To, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Wrap returns err as a *TransportError unless it already is one.
func Wrap(ch Channel, to Recipient, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Channel: ch, To: to, Err: err}
}
