package logx

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"remindme/internal/transport"
)

const chatMaxLen = 3500

func (s *Service) chatWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case it := <-s.chatQueue:
			_, _ = s.sender.SendText(ctx, it.to, it.msg, &transport.SendOptions{DisablePreview: true})
		}
	}
}

// chatWriter is a zerolog.LevelWriter that never blocks logging: lines that
// don't fit in the queue or exceed the rate limit are dropped.
type chatWriter struct{ svc *Service }

func (w *chatWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.InfoLevel, p)
}

func (w *chatWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	s := w.svc
	s.mu.Lock()
	to := s.target
	lim := s.limiter
	minLevel := s.minLevel
	s.mu.Unlock()

	if to.IsZero() || lim == nil || level < minLevel || !lim.Allow() {
		return len(p), nil
	}
	msg := formatChatLine(p)
	if msg == "" {
		return len(p), nil
	}
	select {
	case s.chatQueue <- chatLine{to: to, msg: msg}:
	default:
	}
	return len(p), nil
}

// formatChatLine renders a zerolog JSON line as "[LEVEL] message" followed by
// one "- key=value" line per field, keys sorted.
func formatChatLine(p []byte) string {
	var m map[string]any
	if err := json.Unmarshal(p, &m); err != nil {
		return truncate(strings.TrimSpace(string(p)), chatMaxLen)
	}

	lvl, _ := m["level"].(string)
	msg, _ := m["message"].(string)

	var b strings.Builder
	if lvl != "" {
		b.WriteString("[" + strings.ToUpper(lvl) + "] ")
	}
	b.WriteString(msg)

	keys := make([]string, 0, len(m))
	for k := range m {
		switch k {
		case "time", "level", "message":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		limit := 600
		if k == "stack" {
			limit = 900
		}
		b.WriteString("\n- " + k + "=")
		b.WriteString(truncate(fmt.Sprint(m[k]), limit))
	}
	return truncate(b.String(), chatMaxLen)
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	suffix := "..."
	if n < 10 {
		suffix = ""
	}
	cut := n - len(suffix)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}
