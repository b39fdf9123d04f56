// Package tasks is the background dispatch layer: a bounded queue consumed
// by a fixed worker pool. Long-running notifications to the external
// service (train, optimize) go through here so the request path never
// blocks on them, while a full queue is still observable at enqueue time.
package tasks

import (
	"errors"
	"log"
	"sync"
)

// ErrQueueFull means the dispatch queue has no capacity left
var ErrQueueFull = errors.New("dispatch queue is full")

// ErrStopped means the queue is no longer accepting work
var ErrStopped = errors.New("dispatch queue is stopped")

// Task is one unit of background work
type Task struct {
	Name string
	Run  func() error
}

// Queue is a bounded work queue with a fixed worker pool. Task failures
// are logged and dropped; the poll path reconciles state later.
type Queue struct {
	tasks chan Task
	wg    sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewQueue creates a queue with the given capacity and starts its workers
func NewQueue(capacity, workers int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	if workers <= 0 {
		workers = 1
	}
	q := &Queue{tasks: make(chan Task, capacity)}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for task := range q.tasks {
		if err := task.Run(); err != nil {
			log.Printf("background task %s failed: %v", task.Name, err)
		}
	}
}

// Enqueue submits a task without blocking. Returns ErrQueueFull when the
// queue has no capacity, ErrStopped after Stop.
func (q *Queue) Enqueue(name string, run func() error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return ErrStopped
	}
	select {
	case q.tasks <- Task{Name: name, Run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight tasks to finish
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.tasks)
	q.mu.Unlock()
	q.wg.Wait()
}
