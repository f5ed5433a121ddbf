package watch

import (
	"context"
	"sync"

	"github.com/rekhigroup/livplus-backend/pkg/logger"
)

// Query describes one live view over a remote collection or document. Two
// queries are the same subscription if and only if their IDs are equal;
// changing the ID tears the old subscription down and starts a new one.
type Query[V any] struct {
	ID    string
	Topic string
	Fetch func(ctx context.Context) (V, error)
}

// Snapshot is one delivered state of the bound data. Data stays at its zero
// value until the first fetch completes; Loading distinguishes "not yet
// arrived" from "arrived empty".
type Snapshot[V any] struct {
	Data    V
	Loading bool
}

// Binding keeps a query result live: it fetches on subscribe and refetches
// whenever the feed signals a change on the query's topic. A fetch started
// under an old query can never overwrite a newer query's snapshot.
type Binding[V any] struct {
	feed Feed
	logg *logger.Logger

	mu         sync.Mutex
	generation uint64
	query      *Query[V]
	snapshot   Snapshot[V]
	cancelFeed func()
	cancelRun  context.CancelFunc
	watchers   map[chan Snapshot[V]]struct{}
	closed     bool
}

// NewCollection builds a binding over a list-shaped query.
func NewCollection[T any](feed Feed, logg *logger.Logger) *Binding[[]T] {
	return newBinding[[]T](feed, logg)
}

// NewDocument builds a binding over a single-record query. The record pointer
// is nil both before the first snapshot and when the document does not exist;
// Loading tells the two states apart.
func NewDocument[T any](feed Feed, logg *logger.Logger) *Binding[*T] {
	return newBinding[*T](feed, logg)
}

func newBinding[V any](feed Feed, logg *logger.Logger) *Binding[V] {
	return &Binding[V]{
		feed:     feed,
		logg:     logg,
		watchers: map[chan Snapshot[V]]struct{}{},
	}
}

// SetQuery replaces the active query. A nil query means "not ready yet": the
// binding unsubscribes, reports Loading=false with zero data, and waits.
// Passing a query with the same ID as the current one is a no-op.
func (b *Binding[V]) SetQuery(ctx context.Context, query *Query[V]) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if query != nil && b.query != nil && query.ID == b.query.ID {
		b.mu.Unlock()
		return
	}

	// Invalidate any in-flight fetch for the previous query.
	b.generation++
	generation := b.generation
	b.teardownLocked()
	b.query = query

	if query == nil {
		var zero V
		b.snapshot = Snapshot[V]{Data: zero, Loading: false}
		b.notifyLocked()
		b.mu.Unlock()
		return
	}

	var zero V
	b.snapshot = Snapshot[V]{Data: zero, Loading: true}
	b.notifyLocked()

	runCtx, cancelRun := context.WithCancel(context.WithoutCancel(ctx))
	b.cancelRun = cancelRun

	var updates <-chan struct{}
	if b.feed != nil && query.Topic != "" {
		updates, b.cancelFeed = b.feed.Subscribe(query.Topic)
	}
	b.mu.Unlock()

	go b.run(runCtx, generation, query, updates)
}

func (b *Binding[V]) run(ctx context.Context, generation uint64, query *Query[V], updates <-chan struct{}) {
	b.fetch(ctx, generation, query)
	if updates == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			b.fetch(ctx, generation, query)
		}
	}
}

func (b *Binding[V]) fetch(ctx context.Context, generation uint64, query *Query[V]) {
	data, err := query.Fetch(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || generation != b.generation {
		// The query changed while this fetch was in flight; its result
		// belongs to a defunct subscription and must not be delivered.
		return
	}
	if err != nil {
		if b.logg != nil {
			b.logg.Error(b.logg.WithField(ctx, "query_id", query.ID), "watch fetch failed", err)
		}
		var zero V
		b.snapshot = Snapshot[V]{Data: zero, Loading: false}
		b.notifyLocked()
		return
	}
	b.snapshot = Snapshot[V]{Data: data, Loading: false}
	b.notifyLocked()
}

// Snapshot returns the current state.
func (b *Binding[V]) Snapshot() Snapshot[V] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}

// Watch registers a consumer channel that receives every snapshot change.
// The returned cancel func must be called when the consumer goes away.
func (b *Binding[V]) Watch() (<-chan Snapshot[V], func()) {
	ch := make(chan Snapshot[V], 8)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.watchers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.watchers[ch]; ok {
			delete(b.watchers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Close tears the binding down deterministically; no snapshot is delivered
// after Close returns.
func (b *Binding[V]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.generation++
	b.teardownLocked()
	for ch := range b.watchers {
		delete(b.watchers, ch)
		close(ch)
	}
}

func (b *Binding[V]) teardownLocked() {
	if b.cancelFeed != nil {
		b.cancelFeed()
		b.cancelFeed = nil
	}
	if b.cancelRun != nil {
		b.cancelRun()
		b.cancelRun = nil
	}
}

func (b *Binding[V]) notifyLocked() {
	for ch := range b.watchers {
		select {
		case ch <- b.snapshot:
		default:
			// Slow consumers drop intermediate snapshots; they always see
			// the latest state on the next delivery.
		}
	}
}
