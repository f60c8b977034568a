package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublishedEvent(t *testing.T) {
	r := NewReporter()
	_, events, _ := r.Subscribe()

	r.Publish(Event{Phase: PhaseStarting, Message: "go"})

	select {
	case ev := <-events:
		assert.Equal(t, PhaseStarting, ev.Phase)
	case <-time.After(time.Second):
		t.Fatal("expected a boundary-phase event to be delivered")
	}
}

func TestBoundaryPhaseEventsAreNeverDropped(t *testing.T) {
	r := NewReporter()
	_, events, _ := r.Subscribe()

	// Fill and exceed the subscriber buffer with boundary events; a
	// blocking publisher must still succeed for every one once drained.
	go func() {
		for i := 0; i < subscriberBuffer+5; i++ {
			r.Publish(Event{Phase: PhaseComplete, Current: i})
		}
	}()

	received := 0
	for received < subscriberBuffer+5 {
		select {
		case <-events:
			received++
		case <-time.After(2 * time.Second):
			t.Fatalf("only received %d of %d boundary events", received, subscriberBuffer+5)
		}
	}
}

func TestIntraPhaseEventsDropUnderBackPressure(t *testing.T) {
	r := NewReporter()
	id, events, _ := r.Subscribe()
	defer r.Unsubscribe(id)

	for i := 0; i < subscriberBuffer+5; i++ {
		r.Publish(Event{Phase: PhaseHashing, Current: i})
	}

	count := 0
	for {
		select {
		case <-events:
			count++
		default:
			assert.LessOrEqual(t, count, subscriberBuffer)
			return
		}
	}
}

func TestUnsubscribeClosesChannels(t *testing.T) {
	r := NewReporter()
	id, events, deletes := r.Subscribe()

	r.Unsubscribe(id)

	_, ok := <-events
	assert.False(t, ok)
	_, ok = <-deletes
	assert.False(t, ok)
}

func TestPublishDeleteNeverBlocks(t *testing.T) {
	r := NewReporter()
	_, _, deletes := r.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer+5; i++ {
			r.PublishDelete(DeleteEvent{Current: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishDelete must never block on a full subscriber buffer")
	}

	require.NotNil(t, deletes)
}
