package logx

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"remindme/internal/transport"
)

type Config struct {
	Level   string
	Console bool
	File    FileConfig
	Chat    ChatConfig
}

type FileConfig struct {
	Enabled bool
	Path    string
}

// ChatConfig mirrors log lines at or above MinLevel to a chat via the
// configured transport.Sender.
type ChatConfig struct {
	Enabled    bool
	MinLevel   string
	RatePerSec int
}

// Service owns the log sinks and lets Apply() swap them at runtime.
type Service struct {
	mu  sync.Mutex
	cfg Config

	root atomic.Value // zerolog.Logger

	file *os.File

	sender     transport.Sender
	chatQueue  chan chatLine
	chatOnce   sync.Once
	chatCancel context.CancelFunc
	chatWG     sync.WaitGroup

	// guarded by mu
	target   transport.Recipient
	limiter  *rate.Limiter
	minLevel zerolog.Level
}

type chatLine struct {
	to  transport.Recipient
	msg string
}

// New creates the logging service, applies cfg immediately and returns both
// the Service and a root Logger bound to it.
func New(cfg Config, sender transport.Sender) (*Service, Logger) {
	zerolog.ErrorFieldName = "err"
	zerolog.TimeFieldFormat = consoleTimeFormat

	s := &Service{
		cfg:       cfg,
		sender:    sender,
		chatQueue: make(chan chatLine, 256),
	}
	s.root.Store(zerolog.New(newConsoleWriter(Stdout())).
		Level(parseLevel(cfg.Level, zerolog.InfoLevel)).
		With().Timestamp().Logger())

	s.Apply(cfg)
	return s, Logger{svc: s}
}

func (s *Service) current() zerolog.Logger {
	zl, ok := s.root.Load().(zerolog.Logger)
	if !ok {
		return zerolog.Nop()
	}
	return zl
}

func (s *Service) Logger() Logger { return Logger{svc: s} }

// SetChatTarget sets where the chat sink delivers. A zero Recipient disables delivery.
func (s *Service) SetChatTarget(to transport.Recipient) {
	s.mu.Lock()
	s.target = to
	s.mu.Unlock()
}

func (s *Service) Close() error {
	s.mu.Lock()
	f := s.file
	s.file = nil
	cancel := s.chatCancel
	s.chatCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.chatWG.Wait()
	}
	if f != nil {
		return f.Close()
	}
	return nil
}

// Apply swaps logger outputs/levels at runtime. Safe for concurrent use.
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	s.minLevel = parseLevel(cfg.Chat.MinLevel, zerolog.WarnLevel)
	rps := max(1, cfg.Chat.RatePerSec)
	s.limiter = rate.NewLimiter(rate.Limit(rps), rps)

	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}

	writers := make([]io.Writer, 0, 3)
	if cfg.Console {
		writers = append(writers, newConsoleWriter(Stdout()))
	}
	if cfg.File.Enabled {
		path := strings.TrimSpace(cfg.File.Path)
		if path == "" {
			path = "./remindme.log"
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(Stderr(), "logx: failed opening log file %q: %v\n", path, err)
		} else {
			s.file = f
			writers = append(writers, zerolog.SyncWriter(f))
		}
	}
	if cfg.Chat.Enabled && s.sender != nil {
		s.chatOnce.Do(func() {
			ctx, cancel := context.WithCancel(context.Background())
			s.chatCancel = cancel
			s.chatWG.Add(1)
			go func() {
				defer s.chatWG.Done()
				s.chatWorker(ctx)
			}()
		})
		writers = append(writers, &chatWriter{svc: s})
		if s.target.IsZero() {
			fmt.Fprintln(Stderr(), "logx: chat logging enabled but no target is set")
		}
	}
	if len(writers) == 0 {
		writers = append(writers, newConsoleWriter(Stdout()))
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(cfg.Level, zerolog.InfoLevel)).
		With().Timestamp().Logger()
	s.root.Store(zl)
}

func newConsoleWriter(w io.Writer) io.Writer {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	cw.FormatCaller = func(i interface{}) string {
		s, _ := i.(string)
		return s
	}
	return cw
}

// Stdout returns the configured stdout sink.
func Stdout() io.Writer { return os.Stdout }

// Stderr returns the configured stderr sink.
func Stderr() io.Writer { return os.Stderr }
