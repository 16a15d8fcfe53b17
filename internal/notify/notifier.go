package notify

import (
	"context"
	"sync"
)

// Broadcaster is the in-process change notifier: a single "data changed,
// re-read" signal with no payload, delivered to any number of
// subscribers. Delivery is non-blocking; a subscriber that has not
// drained its channel simply coalesces signals.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan struct{})}
}

// Subscribe returns a channel that receives a signal whenever data
// changes, and a cancel function to unsubscribe.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
	return ch, cancel
}

// Notify signals every subscriber. Never blocks: a subscriber with a
// signal already queued keeps the one it has.
func (b *Broadcaster) Notify(_ context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Multi fans one Notify out to several notifiers.
type Multi []interface{ Notify(context.Context) }

func (m Multi) Notify(ctx context.Context) {
	for _, n := range m {
		n.Notify(ctx)
	}
}
