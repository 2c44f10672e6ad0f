// Package telegram delivers texts through the Telegram Bot API (telebot).
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"remindme/internal/transport"
	logx "remindme/pkg/logx"
)

const textLimit = 4000

type Config struct {
	Token string
	// Timeout bounds each Bot API HTTP call. 0 keeps the telebot default client.
	Timeout time.Duration
	// SkipProbe skips the startup getMe call.
	SkipProbe bool
	// URL overrides the Bot API endpoint (tests, local bot-api servers).
	URL string
}

type Sender struct {
	log logx.Logger
	bot *tele.Bot
}

var _ transport.Sender = (*Sender)(nil)

// New builds the bot without contacting Telegram, then calls getMe once to
// log the bot's username. Only a blank token is an error; an unreachable
// Bot API is logged and left to the first send.
func New(cfg Config, log logx.Logger) (*Sender, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	settings := tele.Settings{
		Token:   strings.TrimSpace(cfg.Token),
		URL:     cfg.URL,
		Offline: true,
	}
	if cfg.Timeout > 0 {
		settings.Client = &http.Client{Timeout: cfg.Timeout}
	}
	b, err := tele.NewBot(settings)
	if err != nil {
		return nil, err
	}
	s := &Sender{log: log, bot: b}
	if !cfg.SkipProbe {
		s.probe()
	}
	return s, nil
}

// probe reports whether the Bot API accepted the token.
func (s *Sender) probe() bool {
	data, err := s.bot.Raw("getMe", nil)
	if err != nil {
		s.log.Warn("telegram getMe failed; continuing without it", logx.Err(err))
		return false
	}
	var resp struct {
		Result tele.User `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err == nil && resp.Result.Username != "" {
		s.log.Info("telegram bot ready", logx.String("username", resp.Result.Username))
	}
	return true
}

// SendText sends text to a chat, splitting it into several messages when it
// exceeds Telegram's length limit. The returned ref points at the first part.
// telebot takes no context, so ctx is only checked before each part; the
// HTTP client timeout bounds a call in flight.
func (s *Sender) SendText(ctx context.Context, to transport.Recipient, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
	if to.ChatID == 0 {
		return transport.MessageRef{}, transport.ErrNoRecipient
	}
	if opt == nil {
		opt = &transport.SendOptions{}
	}
	chat := &tele.Chat{ID: to.ChatID}

	var first transport.MessageRef
	for i, chunk := range splitText(text, textLimit) {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return first, transport.Wrap(transport.ChannelTelegram, to, err)
			}
		}
		msg, err := s.bot.Send(chat, chunk, &tele.SendOptions{
			DisableWebPagePreview: opt.DisablePreview,
			ThreadID:              to.ThreadID,
		})
		if err != nil {
			return first, transport.Wrap(transport.ChannelTelegram, to, err)
		}
		if i == 0 {
			first = transport.MessageRef{Recipient: to, ID: strconv.Itoa(msg.ID)}
		}
	}
	return first, nil
}

// splitText cuts s into chunks of at most limit runes, preferring newline
// boundaries.
func splitText(s string, limit int) []string {
	if limit <= 0 {
		limit = textLimit
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}

	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := min(start+limit, len(rs))

		if end < len(rs) {
			for i := end - 1; i > start; i-- {
				// Avoid tiny chunks: only cut in the last two thirds of the window.
				if rs[i] == '\n' && i-start >= limit/3 {
					end = i + 1
					break
				}
			}
		}

		out = append(out, strings.TrimRight(string(rs[start:end]), "\n"))
		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}
