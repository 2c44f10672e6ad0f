// Package twilio delivers texts as SMS or WhatsApp messages through Twilio.
package twilio

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"remindme/internal/transport"
	logx "remindme/pkg/logx"
)

type Config struct {
	AccountSID string
	AuthToken  string
	// From is the sender number in E.164 form. A "whatsapp:" prefix selects WhatsApp.
	From string
}

// messageCreator is the slice of the Twilio REST client we use.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Sender struct {
	cfg Config
	log logx.Logger
	api messageCreator
}

var _ transport.Sender = (*Sender)(nil)

func New(cfg Config, log logx.Logger) (*Sender, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilio account sid and auth token are required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("twilio sender number is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Sender{cfg: cfg, log: log, api: client.Api}, nil
}

// SendText sends one message to to.Address. The Twilio client has no
// context support, so ctx is only checked before the call.
func (s *Sender) SendText(ctx context.Context, to transport.Recipient, text string, _ *transport.SendOptions) (transport.MessageRef, error) {
	addr := strings.TrimSpace(to.Address)
	if addr == "" {
		return transport.MessageRef{}, transport.ErrNoRecipient
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return transport.MessageRef{}, transport.Wrap(transport.ChannelTwilio, to, err)
		}
	}

	from := strings.TrimSpace(s.cfg.From)
	if strings.HasPrefix(from, "whatsapp:") && !strings.HasPrefix(addr, "whatsapp:") {
		addr = "whatsapp:" + addr
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(addr)
	params.SetFrom(from)
	params.SetBody(text)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return transport.MessageRef{}, transport.Wrap(transport.ChannelTwilio, to, err)
	}
	ref := transport.MessageRef{Recipient: to}
	if resp != nil && resp.Sid != nil {
		ref.ID = *resp.Sid
	}
	return ref, nil
}
