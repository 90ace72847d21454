package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/pkg/metrics"
)

// DefaultLifetime is how long a toast stays visible
const DefaultLifetime = 3000 * time.Millisecond

// maxToasts bounds the queue; the oldest toast is dropped beyond it
const maxToasts = 64

// Kind is the visual category of a toast
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Categories let sinks pick the toasts they care about
const (
	CategoryGeneral = ""
	CategoryWin     = "win"
	CategorySession = "session"
)

// Toast is one transient notification
type Toast struct {
	ID        string
	Message   string
	Kind      Kind
	Category  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ChangeType says whether a toast appeared or went away
type ChangeType int

const (
	Added ChangeType = iota
	Removed
)

// Change is delivered to subscribers in the order it happened
type Change struct {
	Type  ChangeType
	Toast Toast
}

// Sink receives every published toast, e.g. to relay wins elsewhere
type Sink interface {
	Deliver(ctx context.Context, toast Toast) error
}

// Option configures a Queue
type Option func(*Queue)

// WithLifetime overrides DefaultLifetime
func WithLifetime(lifetime time.Duration) Option {
	return func(q *Queue) {
		if lifetime > 0 {
			q.lifetime = lifetime
		}
	}
}

// WithSink adds a sink
func WithSink(sink Sink) Option {
	return func(q *Queue) {
		q.sinks = append(q.sinks, sink)
	}
}

// WithLogger overrides the logger
func WithLogger(logger *logging.Logger) Option {
	return func(q *Queue) {
		q.logger = logger
	}
}

type subscriber struct {
	id uint64
	fn func(Change)
}

// Queue holds the visible toasts. Each toast removes itself after the
// lifetime, keyed by its own id, so concurrent publishes never remove
// each other's entries.
type Queue struct {
	lifetime time.Duration
	cache    *expirable.LRU[string, Toast]
	sinks    []Sink
	logger   *logging.Logger

	// changes are queued here and fanned out by dispatch; the cache
	// invokes its eviction callback under its own lock, so subscribers
	// must never run on that path
	pendingMu sync.Mutex
	pending   []Change
	signal    chan struct{}

	subsMu sync.Mutex
	subs   []subscriber
	nextID uint64

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewQueue creates a Queue and starts its dispatcher
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		lifetime: DefaultLifetime,
		logger:   logging.Default,
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.cache = expirable.NewLRU[string, Toast](maxToasts, q.onEvict, q.lifetime)

	q.wg.Add(1)
	go q.dispatch()
	return q
}

// Publish appends a toast and schedules its removal
func (q *Queue) Publish(message string, kind Kind) Toast {
	return q.PublishCategory(message, kind, CategoryGeneral)
}

// PublishCategory appends a toast tagged with category
func (q *Queue) PublishCategory(message string, kind Kind, category string) Toast {
	now := time.Now()
	toast := Toast{
		ID:        uuid.New().String(),
		Message:   message,
		Kind:      kind,
		Category:  category,
		CreatedAt: now,
		ExpiresAt: now.Add(q.lifetime),
	}

	// enqueue before Add so Added always precedes a capacity eviction
	q.enqueue(Change{Type: Added, Toast: toast})
	q.cache.Add(toast.ID, toast)

	metrics.ToastsPublished.WithLabelValues(string(kind)).Inc()
	metrics.ToastsActive.Inc()

	for _, sink := range q.sinks {
		q.deliver(sink, toast)
	}
	return toast
}

// Dismiss removes a toast before its lifetime ends
func (q *Queue) Dismiss(id string) bool {
	return q.cache.Remove(id)
}

// Entries returns the live toasts, oldest first
func (q *Queue) Entries() []Toast {
	return q.cache.Values()
}

// Subscribe registers fn for queue changes and returns its cancel func
func (q *Queue) Subscribe(fn func(Change)) func() {
	q.subsMu.Lock()
	defer q.subsMu.Unlock()

	q.nextID++
	id := q.nextID
	q.subs = append(q.subs, subscriber{id: id, fn: fn})

	return func() {
		q.subsMu.Lock()
		defer q.subsMu.Unlock()
		for i, sub := range q.subs {
			if sub.id == id {
				q.subs = append(q.subs[:i], q.subs[i+1:]...)
				return
			}
		}
	}
}

// Close stops dispatching and waits for in-flight sink deliveries
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
	q.wg.Wait()
}

func (q *Queue) onEvict(_ string, toast Toast) {
	metrics.ToastsActive.Dec()
	q.enqueue(Change{Type: Removed, Toast: toast})
}

func (q *Queue) enqueue(change Change) {
	q.pendingMu.Lock()
	q.pending = append(q.pending, change)
	q.pendingMu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *Queue) dispatch() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			return
		case <-q.signal:
		}

		q.pendingMu.Lock()
		batch := q.pending
		q.pending = nil
		q.pendingMu.Unlock()

		q.subsMu.Lock()
		subs := make([]subscriber, len(q.subs))
		copy(subs, q.subs)
		q.subsMu.Unlock()

		for _, change := range batch {
			for _, sub := range subs {
				sub.fn(change)
			}
		}
	}
}

func (q *Queue) deliver(sink Sink, toast Toast) {
	select {
	case <-q.done:
		return
	default:
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sink.Deliver(ctx, toast); err != nil {
			q.logger.Warn("[NOTIFY] Sink delivery failed: %v", err)
		}
	}()
}
