// Package inflight rejects a second submission of an action while the first
// one is still outstanding. Different keys never block each other.
package inflight

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

type Guard struct {
	mu    sync.Mutex
	slots map[string]*semaphore.Weighted
}

func New() *Guard {
	return &Guard{slots: make(map[string]*semaphore.Weighted)}
}

// TryAcquire claims key. When ok is false the key is busy and release is nil.
// release is safe to call more than once.
func (g *Guard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, exists := g.slots[key]
	if !exists {
		slot = semaphore.NewWeighted(1)
		g.slots[key] = slot
	}

	if !slot.TryAcquire(1) {
		return nil, false
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()

			slot.Release(1)
			delete(g.slots, key)
		})
	}, true
}

func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, exists := g.slots[key]
	return exists
}
