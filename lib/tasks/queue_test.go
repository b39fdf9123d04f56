package tasks

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasks(t *testing.T) {
	q := NewQueue(4, 2)

	var mu sync.Mutex
	ran := make(map[string]bool)
	for _, name := range []string{"a", "b", "c"} {
		name := name
		err := q.Enqueue(name, func() error {
			mu.Lock()
			ran[name] = true
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
	}
	q.Stop()

	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, ran)
}

func TestEnqueueFullQueue(t *testing.T) {
	q := NewQueue(1, 1)
	defer q.Stop()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, q.Enqueue("blocker", func() error {
		close(started)
		<-block
		return nil
	}))
	<-started

	// Worker is busy; one slot in the channel, the next must be refused
	require.NoError(t, q.Enqueue("queued", func() error { return nil }))
	err := q.Enqueue("overflow", func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueFull)

	close(block)
}

func TestEnqueueAfterStop(t *testing.T) {
	q := NewQueue(4, 1)
	q.Stop()

	err := q.Enqueue("late", func() error { return nil })
	assert.ErrorIs(t, err, ErrStopped)
}

func TestStopWaitsForInFlightTasks(t *testing.T) {
	q := NewQueue(4, 1)

	done := false
	require.NoError(t, q.Enqueue("slow", func() error {
		time.Sleep(20 * time.Millisecond)
		done = true
		return nil
	}))
	q.Stop()

	assert.True(t, done)
}
