// Package eventbus fans delivery lifecycle signals out to in-process observers.
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	TypeSent    = "notify.sent"
	TypeFailed  = "notify.failed"
	TypeDigest  = "digest.sent"
	TypeStarted = "loop.started"
	TypeStopped = "loop.stopped"
)

// Event is a small in-memory signal.
//
// Contract:
//   - Publish never blocks.
//   - Subscribers get buffered channels; a slow subscriber drops events.
type Event struct {
	Type string
	Time time.Time
	Data any
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New returns an in-memory fanout bus. It owns no goroutines.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	// Hold the read lock while sending: unsubscribe closes under the write
	// lock, so a send can never hit a closed channel.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}
