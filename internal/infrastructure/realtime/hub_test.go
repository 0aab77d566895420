package realtime

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therapyai/caseload/internal/core/domain"
)

func TestHub_PublishReachesOnlyThatChild(t *testing.T) {
	h := NewHub(nil, zerolog.Nop())
	a, cancelA := h.Subscribe("child-a")
	defer cancelA()
	b, cancelB := h.Subscribe("child-b")
	defer cancelB()

	h.Publish("child-a", domain.ChatMessage{ID: "m1", Text: "hello"})

	select {
	case msg := <-a:
		assert.Equal(t, "m1", msg.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber of child-a got nothing")
	}
	select {
	case msg := <-b:
		t.Fatalf("child-b received %+v", msg)
	default:
	}
}

func TestHub_CancelClosesAndCounts(t *testing.T) {
	total := 0
	h := NewHub(func(d int) { total += d }, zerolog.Nop())

	ch, cancel := h.Subscribe("c")
	require.Equal(t, 1, h.Subscribers("c"))
	require.Equal(t, 1, total)

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.Subscribers("c"))
	assert.Equal(t, 0, total)

	h.Publish("c", domain.ChatMessage{ID: "late"})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(nil, zerolog.Nop())
	_, cancel := h.Subscribe("c")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			h.Publish("c", domain.ChatMessage{ID: "m"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}
