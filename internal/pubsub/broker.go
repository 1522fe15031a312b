package pubsub

import (
	"sync"
	"time"
)

const defaultBufferSize = 64

// Subscription is a handle to a broker subscription.
// Events arrive on C until Cancel is called or the broker closes, at which
// point C is closed.
type Subscription[T any] struct {
	C      <-chan Event[T]
	ch     chan Event[T]
	cancel func()
	once   sync.Once
}

// Cancel removes the subscription from its broker and closes C.
// Safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
}

// Broker is a generic in-process pub/sub event broker.
// Publishing never blocks: events are dropped for subscribers whose channel
// buffer is full.
type Broker[T any] struct {
	mu     sync.RWMutex
	subs   map[chan Event[T]]struct{}
	closed bool
	buffer int
}

// NewBroker creates a broker with the default buffer size (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with a custom per-subscriber buffer.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[chan Event[T]]struct{}),
		buffer: size,
	}
}

// Subscribe registers a new subscriber.
// Subscribing to a closed broker returns a subscription whose channel is
// already closed.
func (b *Broker[T]) Subscribe() *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event[T], b.buffer)
	if b.closed {
		close(ch)
		return &Subscription[T]{C: ch, ch: ch, cancel: func() {}}
	}
	b.subs[ch] = struct{}{}

	return &Subscription[T]{
		C:  ch,
		ch: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.closed {
				return
			}
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
		},
	}
}

// Publish sends an event to all current subscribers without blocking.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			// Subscriber is not keeping up; drop rather than block.
		}
	}
}

// Close shuts down the broker and closes every subscriber channel.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
