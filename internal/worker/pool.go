package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joeyedi1/eclandingpage/internal/queue"
)

// MetricHooks carries the metric callback functions injected by main.
type MetricHooks struct {
	OnDelivered func(latency time.Duration)
	OnDepth     func(depth int)
}

// Pool manages the lifecycle of the async dispatch workers plus the queue
// depth sampler.
type Pool struct {
	workers []*Worker
	sampler *DepthSampler
	q       *queue.DispatchQueue

	wg        sync.WaitGroup
	samplerWG sync.WaitGroup
}

// NewPool creates size identical workers sharing q.
func NewPool(size int, q *queue.DispatchQueue, h Handler, logger *zap.Logger, hooks MetricHooks) *Pool {
	workers := make([]*Worker, size)
	for i := range workers {
		workers[i] = NewWorker(i, q, h, logger.With(zap.Int("worker_id", i)), hooks.OnDelivered)
	}
	return &Pool{
		workers: workers,
		sampler: NewDepthSampler(q, time.Second, hooks.OnDepth, logger),
		q:       q,
	}
}

// Start launches all workers and the sampler. Cancelling ctx aborts them
// immediately; use Shutdown to drain first.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
	p.samplerWG.Add(1)
	go func() {
		defer p.samplerWG.Done()
		p.sampler.Run(ctx)
	}()
}

// Shutdown closes the queue so workers drain what is buffered, then waits
// for them. abort must cancel the ctx passed to Start; it is always called.
// If ctx expires before the drain completes, in-flight work is cancelled
// and ctx.Err() is returned once every goroutine has exited.
func (p *Pool) Shutdown(ctx context.Context, abort context.CancelFunc) error {
	p.q.Close()

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = ctx.Err()
	}
	abort()
	<-drained
	p.samplerWG.Wait()
	return err
}
