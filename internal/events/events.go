// Package events carries config-change notifications between views.
//
// Cross-view consistency after a write is broadcast-and-refetch: whoever
// saves a config publishes a Change, and every listener refetches what it is
// showing. The backend's own change notifications are forwarded onto the
// same bus. Listeners must be idempotent on refetch.
package events

import (
	"sync"

	"github.com/Nitrolaunch/nitroctl/internal/config"
)

// Change says which config record changed.
type Change struct {
	// ID of the instance or template. Empty for the base template.
	ID string
	// Mode says what kind of record it was.
	Mode config.Mode
}

// Bus is a process-local publish/subscribe fanout for Changes.
// The zero value is ready to use. Handlers run synchronously on the
// publishing goroutine and must not block.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Change)
}

// Subscribe registers a handler and returns a token for Unsubscribe.
func (b *Bus) Subscribe(fn func(Change)) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]func(Change))
	}
	b.next++
	b.subs[b.next] = fn
	return b.next
}

// Unsubscribe removes a handler. Unknown tokens are ignored.
func (b *Bus) Unsubscribe(token int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, token)
}

// Publish delivers a change to every subscriber.
func (b *Bus) Publish(change Change) {
	b.mu.Lock()
	handlers := make([]func(Change), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(change)
	}
}
