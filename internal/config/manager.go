package config

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	logx "remindme/pkg/logx"
)

const (
	reloadDebounce     = 250 * time.Millisecond
	restartBackoffBase = 250 * time.Millisecond
	restartBackoffMax  = 5 * time.Second
)

// Manager owns the settings file: it parses it, keeps the last accepted
// version and republishes it to subscribers when the file changes.
type Manager struct {
	path string

	mu       sync.RWMutex
	cfg      *Config
	lastHash uint64

	// subsMu is held while sending so Unsubscribe never closes a channel
	// mid-send.
	subsMu sync.Mutex
	subs   []chan *Config

	log       logx.Logger
	overlay   func(*Config)
	validator func(*Config) error
}

func NewManager(path string) *Manager {
	return &Manager{path: path, log: logx.Nop()}
}

func (m *Manager) SetLogger(log logx.Logger) { m.log = log }

// SetOverlay installs a hook applied to every parsed config, before
// validation. Environment overrides go here.
func (m *Manager) SetOverlay(fn func(*Config)) { m.overlay = fn }

// SetValidator installs the check Watch runs before publishing a reload.
func (m *Manager) SetValidator(fn func(*Config) error) { m.validator = fn }

// Parse reads the file on top of Default() and applies the overlay.
func (m *Manager) Parse() (*Config, error) {
	b, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := Decode(m.path, b, cfg); err != nil {
		return nil, err
	}
	if m.overlay != nil {
		m.overlay(cfg)
	}
	return cfg, nil
}

func (m *Manager) Commit(cfg *Config) {
	h := hashConfig(cfg)
	m.mu.Lock()
	m.cfg = cfg
	m.lastHash = h
	m.mu.Unlock()
}

func (m *Manager) Subscribe(buffer int) chan *Config {
	ch := make(chan *Config, buffer)
	m.subsMu.Lock()
	m.subs = append(m.subs, ch)
	m.subsMu.Unlock()
	return ch
}

func (m *Manager) Unsubscribe(ch chan *Config) {
	if ch == nil {
		return
	}
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for i, s := range m.subs {
		if s != ch {
			continue
		}
		last := len(m.subs) - 1
		m.subs[i] = m.subs[last]
		m.subs[last] = nil
		m.subs = m.subs[:last]
		close(ch)
		return
	}
}

// publish delivers cfg to every subscriber. A full buffer loses its oldest
// entry so the newest config always gets through.
func (m *Manager) publish(cfg *Config) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- cfg:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- cfg:
		default:
			m.log.Debug("config update dropped (subscriber slow)", logx.Int("queue_cap", cap(ch)))
		}
	}
}

// reload parses, validates and publishes the file if its content changed.
func (m *Manager) reload() {
	cfg, err := m.Parse()
	if err != nil {
		m.log.Warn("config parse failed", logx.String("path", m.path), logx.Err(err))
		return
	}
	h := hashConfig(cfg)
	m.mu.RLock()
	unchanged := h != 0 && h == m.lastHash
	m.mu.RUnlock()
	if unchanged {
		m.log.Debug("config unchanged; skipping publish", logx.String("path", m.path))
		return
	}
	if m.validator != nil {
		if err := m.validator(cfg); err != nil {
			m.log.Warn("config rejected", logx.String("path", m.path), logx.Err(err))
			return
		}
	}
	m.Commit(cfg)
	m.publish(cfg)
	m.log.Info("config reloaded", logx.String("path", m.path))
}

// Watch reloads the file on change until ctx is done. The directory is
// watched rather than the file so editors that replace the file on save
// are seen. A broken watcher is recreated with jittered backoff.
func (m *Manager) Watch(ctx context.Context) error {
	dir := filepath.Dir(m.path)
	file := filepath.Base(m.path)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	backoff := restartBackoffBase
	sleep := func(reason string, err error) bool {
		wait := backoff + time.Duration(rng.Int63n(int64(backoff/2)+1))
		backoff = min(backoff*2, restartBackoffMax)
		m.log.Warn(reason, logx.String("dir", dir), logx.Duration("backoff", wait), logx.Err(err))
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
			return true
		}
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	queueReload := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(reloadDebounce, func() {
			if ctx.Err() == nil {
				m.reload()
			}
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for ctx.Err() == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			if !sleep("config watch init failed", err) {
				return nil
			}
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			if !sleep("config watch add failed", err) {
				return nil
			}
			continue
		}
		backoff = restartBackoffBase
		m.log.Debug("config watcher started", logx.String("dir", dir), logx.String("file", file))

		err = m.watchLoop(ctx, w, file, queueReload)
		_ = w.Close()
		if ctx.Err() != nil {
			return nil
		}
		if !sleep("config watcher stopped; restarting", err) {
			return nil
		}
	}
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, w *fsnotify.Watcher, file string, changed func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) != 0 {
				changed()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if err == nil {
				continue
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				m.log.Warn("config watch overflow; forcing reload", logx.Err(err))
				changed()
				continue
			}
			if strings.Contains(strings.ToLower(err.Error()), "closed") {
				return err
			}
			m.log.Warn("config watch error", logx.Err(err))
		}
	}
}

func hashConfig(cfg *Config) uint64 {
	if cfg == nil {
		return 0
	}
	b, err := json.Marshal(cfg)
	if err != nil || len(b) == 0 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}
