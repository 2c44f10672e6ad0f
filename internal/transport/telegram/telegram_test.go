package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"remindme/internal/notifier"
	"remindme/internal/transport"
	logx "remindme/pkg/logx"
)

// botAPI is a minimal Bot API server recording every call.
type botAPI struct {
	mu     sync.Mutex
	calls  []string
	sends  []map[string]any
	status int
	reply  func(method string, n int) string
}

func (b *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	var params map[string]any
	_ = json.NewDecoder(r.Body).Decode(&params)

	b.mu.Lock()
	b.calls = append(b.calls, method)
	n := 0
	if method == "sendMessage" {
		b.sends = append(b.sends, params)
		n = len(b.sends)
	}
	status, reply := b.status, b.reply
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write([]byte(reply(method, n)))
}

func okReply(method string, n int) string {
	if method == "getMe" {
		return `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"RemindMe","username":"remindme_bot"}}`
	}
	return fmt.Sprintf(`{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":42,"type":"private"},"text":"x"}}`, n)
}

func newAPI(t *testing.T, api *botAPI) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return srv
}

func TestSplitTextShortIsUntouched(t *testing.T) {
	t.Parallel()
	got := splitText("Reminder 09:00: Standup", textLimit)
	if len(got) != 1 || got[0] != "Reminder 09:00: Standup" {
		t.Fatalf("splitText = %q", got)
	}
}

func TestSplitTextPrefersNewlines(t *testing.T) {
	t.Parallel()
	line := strings.Repeat("a", 9)
	text := strings.Repeat(line+"\n", 10) // 100 runes
	got := splitText(text, 35)
	for _, c := range got {
		if len([]rune(c)) > 35 {
			t.Fatalf("chunk longer than limit: %q", c)
		}
		if strings.HasPrefix(c, "\n") || strings.HasSuffix(c, "\n") {
			t.Fatalf("chunk has dangling newline: %q", c)
		}
		for _, l := range strings.Split(c, "\n") {
			if l != line {
				t.Fatalf("line was cut: %q", l)
			}
		}
	}
	if joined := strings.Join(got, "\n"); joined != strings.TrimRight(text, "\n") {
		t.Fatal("chunks lost content")
	}
}

func TestNewRejectsEmptyToken(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{Token: "  "}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestSendTextRequiresChat(t *testing.T) {
	t.Parallel()
	s, err := New(Config{Token: "123:abc", SkipProbe: true}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = s.SendText(context.Background(), transport.Recipient{}, "hi", nil)
	if !errors.Is(err, transport.ErrNoRecipient) {
		t.Fatalf("SendText error = %v, want ErrNoRecipient", err)
	}
}

func TestSendTextPostsChatAndText(t *testing.T) {
	t.Parallel()
	api := &botAPI{reply: okReply}
	srv := newAPI(t, api)

	s, err := New(Config{Token: "123:abc", URL: srv.URL}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref, err := s.SendText(context.Background(), transport.Recipient{ChatID: 42}, "Reminder 09:00: Standup", nil)
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if ref.ID != "1" || ref.Recipient.ChatID != 42 {
		t.Fatalf("ref = %+v", ref)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.calls) != 2 || api.calls[0] != "getMe" {
		t.Fatalf("calls = %v, want getMe then sendMessage", api.calls)
	}
	got := api.sends[0]
	if fmt.Sprint(got["chat_id"]) != "42" || got["text"] != "Reminder 09:00: Standup" {
		t.Fatalf("sendMessage params = %v", got)
	}
}

func TestSendTextSplitsLongText(t *testing.T) {
	t.Parallel()
	api := &botAPI{reply: okReply}
	srv := newAPI(t, api)

	s, err := New(Config{Token: "123:abc", URL: srv.URL, SkipProbe: true}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	text := strings.Repeat("á", textLimit+100)
	ref, err := s.SendText(context.Background(), transport.Recipient{ChatID: 42}, text, nil)
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if ref.ID != "1" {
		t.Fatalf("ref should point at the first part, got %q", ref.ID)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.sends) != 2 {
		t.Fatalf("sendMessage calls = %d, want 2", len(api.sends))
	}
	first, _ := api.sends[0]["text"].(string)
	second, _ := api.sends[1]["text"].(string)
	if len([]rune(first)) != textLimit || len([]rune(second)) != 100 {
		t.Fatalf("part lengths = %d, %d", len([]rune(first)), len([]rune(second)))
	}
}

func TestSendTextWrapsAPIErrors(t *testing.T) {
	t.Parallel()
	api := &botAPI{reply: func(string, int) string {
		return `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`
	}}
	srv := newAPI(t, api)

	s, err := New(Config{Token: "123:abc", URL: srv.URL, SkipProbe: true}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = s.SendText(context.Background(), transport.Recipient{ChatID: 42}, "hi", nil)
	var te *transport.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v (%T), want *transport.TransportError", err, err)
	}
	if te.Channel != transport.ChannelTelegram || te.To.ChatID != 42 {
		t.Fatalf("TransportError = %+v", te)
	}
}

func TestSendTextStopsWhenContextDone(t *testing.T) {
	t.Parallel()
	api := &botAPI{reply: okReply}
	srv := newAPI(t, api)

	s, err := New(Config{Token: "123:abc", URL: srv.URL, SkipProbe: true}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.SendText(ctx, transport.Recipient{ChatID: 42}, "hi", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.sends) != 0 {
		t.Fatalf("sendMessage called %d times after cancel", len(api.sends))
	}
}

func TestNewSurvivesUnavailableBotAPI(t *testing.T) {
	t.Parallel()
	api := &botAPI{
		status: http.StatusBadGateway,
		reply: func(string, int) string {
			return `{"ok":false,"error_code":502,"description":"Bad Gateway"}`
		},
	}
	srv := newAPI(t, api)

	s, err := New(Config{Token: "123:abc", URL: srv.URL}, logx.Nop())
	if err != nil {
		t.Fatalf("New must not fail when the Bot API is down: %v", err)
	}
	if s.probe() {
		t.Fatal("probe should report the failing getMe")
	}

	n := notifier.New(notifier.Config{
		Channel:   transport.ChannelTelegram,
		Recipient: transport.Recipient{ChatID: 42},
	}, s, logx.Nop(), nil)
	if n.Send(context.Background(), "Reminder 09:00: Standup") {
		t.Fatal("Send should report false while the Bot API is down")
	}
}
