package queue

import (
	"context"
	"sync"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// DispatchQueue is a bounded FIFO between the HTTP handler and the dispatch
// workers. Enqueue never blocks: a full queue is reported so the caller can
// fall back to dispatching inline.
type DispatchQueue struct {
	items chan Item

	mu     sync.RWMutex
	closed bool
}

func New(capacity int) *DispatchQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &DispatchQueue{items: make(chan Item, capacity)}
}

// Enqueue returns ErrQueueFull when the buffer is at capacity or the queue
// has been closed for shutdown.
func (q *DispatchQueue) Enqueue(item Item) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return domain.ErrQueueFull
	}
	select {
	case q.items <- item:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Dequeue blocks until an item is available, the queue is closed and
// drained, or ctx is cancelled. The bool is false in the last two cases.
func (q *DispatchQueue) Dequeue(ctx context.Context) (Item, bool) {
	select {
	case item, ok := <-q.items:
		return item, ok
	case <-ctx.Done():
		return Item{}, false
	}
}

// Close stops accepting items. Items already buffered are still handed out
// by Dequeue, which lets workers drain before shutdown.
func (q *DispatchQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.items)
	}
}

// Depth returns the number of items waiting.
func (q *DispatchQueue) Depth() int {
	return len(q.items)
}

// Capacity returns the buffer size.
func (q *DispatchQueue) Capacity() int {
	return cap(q.items)
}
