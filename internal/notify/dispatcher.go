package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joeyedi1/eclandingpage/internal/domain"
	"github.com/joeyedi1/eclandingpage/internal/ratelimiter"
)

// DefaultTimeout bounds a single channel send when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Hooks carries optional metric callbacks injected by main so the
// dispatcher stays free of Prometheus imports.
type Hooks struct {
	OnOutcome func(outcome domain.DispatchOutcome)
}

// Options configures a Dispatcher. Zero values are usable.
type Options struct {
	Timeout  time.Duration
	Limiter  *ratelimiter.ChannelLimiters
	Location *time.Location
	Hooks    Hooks
	// Now is overridable in tests.
	Now func() time.Time
}

// Dispatcher sends one lead to every channel concurrently and waits for all
// of them. Dispatch never fails: each channel's result is an outcome.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	limiter  *ratelimiter.ChannelLimiters
	loc      *time.Location
	now      func() time.Time
	onResult func(domain.DispatchOutcome)
	logger   *zap.Logger
}

func NewDispatcher(channels []Channel, opts Options, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		channels: channels,
		timeout:  opts.Timeout,
		limiter:  opts.Limiter,
		loc:      opts.Location,
		now:      opts.Now,
		onResult: opts.Hooks.OnOutcome,
		logger:   logger,
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.loc == nil {
		d.loc = time.UTC
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.onResult == nil {
		d.onResult = func(domain.DispatchOutcome) {}
	}
	return d
}

// ActiveCount reports how many channels have credentials.
func (d *Dispatcher) ActiveCount() int {
	n := 0
	for _, ch := range d.channels {
		if ch.Active() {
			n++
		}
	}
	return n
}

// Dispatch formats and sends lead on every active channel in parallel.
// Outcomes are returned in channel order; inactive channels are reported as
// skipped without any network call. Total latency is bounded by the slowest
// channel, which is itself bounded by the per-channel timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, lead domain.LeadSubmission) []domain.DispatchOutcome {
	at := d.now().In(d.loc)
	outcomes := make([]domain.DispatchOutcome, len(d.channels))

	var g errgroup.Group
	for i, ch := range d.channels {
		if !ch.Active() {
			outcomes[i] = domain.DispatchOutcome{
				Channel: ch.Name(),
				Status:  domain.OutcomeSkipped,
				Detail:  "not configured",
			}
			continue
		}
		g.Go(func() error {
			outcomes[i] = d.send(ctx, ch, lead, at)
			return nil
		})
	}
	// Workers never return errors; failures live in the outcomes.
	_ = g.Wait()

	for _, o := range outcomes {
		d.onResult(o)
	}
	return outcomes
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, lead domain.LeadSubmission, at time.Time) (out domain.DispatchOutcome) {
	start := time.Now()
	out.Channel = ch.Name()
	log := d.logger.With(zap.String("channel", ch.Name()))

	defer func() {
		if r := recover(); r != nil {
			out.Status = domain.OutcomeFailed
			out.Detail = fmt.Sprintf("panic: %v", r)
			log.Error("channel panicked", zap.Any("panic", r))
		}
		out.Latency = time.Since(start)
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, ch.Name()); err != nil {
			out.Status = domain.OutcomeFailed
			out.Detail = "rate limited: " + err.Error()
			log.Warn("rate limiter refused send", zap.Error(err))
			return out
		}
	}

	receipt, err := ch.Send(ctx, ch.Format(lead, at))
	if err != nil {
		out.Status = domain.OutcomeFailed
		out.Detail = err.Error()
		log.Warn("channel send failed", zap.Error(err))
		return out
	}

	out.Status = domain.OutcomeSent
	out.Detail = receipt.ProviderID
	log.Info("channel send succeeded",
		zap.String("provider_id", receipt.ProviderID),
		zap.Duration("latency", time.Since(start)),
	)
	return out
}
