package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliversToUser(t *testing.T) {
	hub := NewHub()

	a1, cancelA1 := hub.Subscribe(1)
	defer cancelA1()
	a2, cancelA2 := hub.Subscribe(1)
	defer cancelA2()
	b, cancelB := hub.Subscribe(2)
	defer cancelB()

	assert.Equal(t, 2, hub.Subscribers(1))

	hub.Publish(1, NoteEvent{Type: EventNoteCreated, NoteID: 7, ID: 7})

	assert.Equal(t, uint(7), (<-a1).ID)
	assert.Equal(t, uint(7), (<-a2).ID)
	assert.Empty(t, b)
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(1)
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers(1))

	hub.Publish(1, NoteEvent{Type: EventNoteDeleted})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(1)
	defer cancel()

	for i := 0; i < subscriberBuffer*3; i++ {
		hub.Publish(1, NoteEvent{Type: EventNoteUpdated, ID: uint(i)})
	}
	require.Len(t, ch, subscriberBuffer)
}

func TestHub_NilIsSafe(t *testing.T) {
	var hub *Hub
	hub.Publish(1, NoteEvent{Type: EventNoteCreated})
}

func TestHub_ConcurrentPublishAndCancel(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		ch, cancel := hub.Subscribe(1)
		go func() {
			defer wg.Done()
			for range ch {
			}
		}()
		go func() {
			defer wg.Done()
			hub.Publish(1, NoteEvent{Type: EventNoteUpdated})
			cancel()
		}()
	}
	wg.Wait()
	assert.Zero(t, hub.Subscribers(1))
}
