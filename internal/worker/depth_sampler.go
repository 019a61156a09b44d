package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joeyedi1/eclandingpage/internal/queue"
)

// DepthSampler ticks every interval and reports the dispatch queue depth.
// It logs a warning when the queue is more than three quarters full.
type DepthSampler struct {
	q        *queue.DispatchQueue
	interval time.Duration
	report   func(int)
	logger   *zap.Logger
}

func NewDepthSampler(q *queue.DispatchQueue, interval time.Duration, report func(int), logger *zap.Logger) *DepthSampler {
	if report == nil {
		report = func(int) {}
	}
	return &DepthSampler{q: q, interval: interval, report: report, logger: logger}
}

// Run samples until ctx is cancelled.
func (s *DepthSampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.sample()
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *DepthSampler) sample() {
	depth := s.q.Depth()
	s.report(depth)
	if capacity := s.q.Capacity(); depth*4 > capacity*3 {
		s.logger.Warn("dispatch queue nearly full",
			zap.Int("depth", depth), zap.Int("capacity", capacity))
	}
}
