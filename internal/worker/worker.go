package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joeyedi1/eclandingpage/internal/queue"
)

// Handler delivers one queued lead. The service layer implements it, which
// keeps dispatch and persistence rules in one place for both modes.
type Handler interface {
	Deliver(ctx context.Context, item queue.Item)
}

// Worker is a single goroutine that pulls leads off the dispatch queue and
// hands them to the Handler.
type Worker struct {
	id      int
	q       *queue.DispatchQueue
	handler Handler
	logger  *zap.Logger

	onDone func(latency time.Duration)
}

// NewWorker constructs a worker. onDone is optional (nil = no-op).
func NewWorker(id int, q *queue.DispatchQueue, h Handler, logger *zap.Logger, onDone func(time.Duration)) *Worker {
	if onDone == nil {
		onDone = func(time.Duration) {}
	}
	return &Worker{id: id, q: q, handler: h, logger: logger, onDone: onDone}
}

// Run blocks until the queue is closed and drained or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started", zap.Int("id", w.id))
	for {
		item, ok := w.q.Dequeue(ctx)
		if !ok {
			w.logger.Info("worker stopping", zap.Int("id", w.id))
			return
		}
		w.process(ctx, item)
	}
}

func (w *Worker) process(ctx context.Context, item queue.Item) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("lead delivery panicked",
				zap.String("lead_id", item.LeadID), zap.Any("panic", r))
		}
		w.onDone(time.Since(start))
	}()

	w.handler.Deliver(ctx, item)
}
