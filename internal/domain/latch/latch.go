// Package latch provides one-shot guards: each key can be tripped once until
// the latch is reset. The experience uses them for "sign once" and
// "stabilized fires once".
package latch

import (
	"sync"
	"sync/atomic"
)

// Well-known keys.
const (
	KeySigned     = "signed"
	KeyStabilized = "stabilized"
	KeyNotified   = "stabilized-notified"
	KeyCoherence  = "entered-coherence"
)

// Latch records tripped keys.
type Latch interface {
	// Trip atomically trips key. It returns true only for the call that
	// tripped it; later calls return false until Reset.
	Trip(key string) bool

	// Tripped reports whether key has been tripped.
	Tripped(key string) bool

	// Reset clears every key.
	Reset()

	Size() int64
}

type inMemoryLatch struct {
	mu      sync.RWMutex
	tripped map[string]struct{}
	size    atomic.Int64
}

// New creates an empty in-memory latch.
func New() Latch {
	return &inMemoryLatch{tripped: make(map[string]struct{})}
}

func (l *inMemoryLatch) Trip(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.tripped[key]; ok {
		return false
	}
	l.tripped[key] = struct{}{}
	l.size.Add(1)
	return true
}

func (l *inMemoryLatch) Tripped(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.tripped[key]
	return ok
}

func (l *inMemoryLatch) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.tripped)
	l.size.Store(0)
}

func (l *inMemoryLatch) Size() int64 {
	return l.size.Load()
}
