package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroker_PublishAndReceive(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	sub := b.Subscribe()
	b.Publish(CreatedEvent, "hello")

	select {
	case ev := <-sub.C:
		require.Equal(t, CreatedEvent, ev.Type)
		require.Equal(t, "hello", ev.Payload)
		require.WithinDuration(t, time.Now(), ev.Timestamp, time.Second)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	b := NewBroker[int]()
	defer b.Close()

	s1 := b.Subscribe()
	s2 := b.Subscribe()
	require.Equal(t, 2, b.SubscriberCount())

	b.Publish(UpdatedEvent, 42)

	for _, s := range []*Subscription[int]{s1, s2} {
		select {
		case ev := <-s.C:
			require.Equal(t, 42, ev.Payload)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBroker_CancelStopsDelivery(t *testing.T) {
	b := NewBroker[int]()
	defer b.Close()

	sub := b.Subscribe()
	sub.Cancel()
	sub.Cancel() // idempotent

	require.Equal(t, 0, b.SubscriberCount())

	_, open := <-sub.C
	require.False(t, open, "cancelled subscription channel should be closed")
}

func TestBroker_PublishDropsWhenFull(t *testing.T) {
	b := NewBrokerWithBuffer[int](1)
	defer b.Close()

	sub := b.Subscribe()

	// Second publish must not block even though nobody is reading.
	done := make(chan struct{})
	go func() {
		b.Publish(CreatedEvent, 1)
		b.Publish(CreatedEvent, 2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	ev := <-sub.C
	require.Equal(t, 1, ev.Payload, "first event delivered, second dropped")
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker[int]()
	sub := b.Subscribe()

	b.Close()
	b.Close() // idempotent

	_, open := <-sub.C
	require.False(t, open)

	// Operations on a closed broker are no-ops, not panics.
	b.Publish(CreatedEvent, 1)
	sub.Cancel()

	late := b.Subscribe()
	_, open = <-late.C
	require.False(t, open, "subscribing after close yields a closed channel")
}
