package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joeyedi1/eclandingpage/internal/domain"
	"github.com/joeyedi1/eclandingpage/internal/queue"
	"github.com/joeyedi1/eclandingpage/internal/repository"
)

// Submission results reported through Hooks.OnSubmit.
const (
	ResultAccepted = "accepted"
	ResultInvalid  = "invalid"
)

// Dispatcher sends a lead to every channel and reports per-channel outcomes.
// *notify.Dispatcher satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, lead domain.LeadSubmission) []domain.DispatchOutcome
}

// Hooks carries optional metric callbacks injected by main.
type Hooks struct {
	OnSubmit func(result string)
}

// Options configures a LeadService. A nil Queue means every lead is
// dispatched inline before Submit returns.
type Options struct {
	Queue *queue.DispatchQueue
	Hooks Hooks
	Now   func() time.Time
}

// SubmitResult describes an accepted lead.
type SubmitResult struct {
	LeadID string
	// Queued is true when dispatch was handed to the worker pool.
	Queued   bool
	Outcomes []domain.DispatchOutcome
}

// LeadService coordinates validation, the lead store and dispatch.
// HTTP handlers and workers depend on this service, not on each other.
type LeadService struct {
	repo       repository.LeadRepository
	dispatcher Dispatcher
	q          *queue.DispatchQueue
	onSubmit   func(string)
	now        func() time.Time
	logger     *zap.Logger
}

func NewLeadService(repo repository.LeadRepository, d Dispatcher, opts Options, logger *zap.Logger) *LeadService {
	s := &LeadService{
		repo:       repo,
		dispatcher: d,
		q:          opts.Queue,
		onSubmit:   opts.Hooks.OnSubmit,
		now:        opts.Now,
		logger:     logger,
	}
	if s.onSubmit == nil {
		s.onSubmit = func(string) {}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Submit validates a submission, records it and dispatches it.
//
// Only validation fails the call. Channel failures and lead-store failures
// are logged and leave the result successful: the submitter is told their
// interest was received whatever happens downstream.
//
// Dispatch is detached from ctx cancellation so a client that disconnects
// mid-request does not abort notifications already in flight.
func (s *LeadService) Submit(ctx context.Context, sub domain.LeadSubmission, remoteAddr string) (*SubmitResult, error) {
	if err := sub.Validate(); err != nil {
		s.onSubmit(ResultInvalid)
		return nil, err
	}

	lead := &domain.Lead{
		ID:          uuid.NewString(),
		Submission:  sub,
		RemoteAddr:  remoteAddr,
		SubmittedAt: s.now().UTC(),
		Outcomes:    []domain.DispatchOutcome{},
	}
	log := s.logger.With(zap.String("lead_id", lead.ID))

	if err := s.repo.Create(ctx, lead); err != nil {
		log.Error("failed to store lead", zap.Error(err))
	}
	s.onSubmit(ResultAccepted)

	dctx := context.WithoutCancel(ctx)

	if s.q != nil {
		err := s.q.Enqueue(queue.Item{LeadID: lead.ID, Submission: sub})
		if err == nil {
			log.Info("lead queued for dispatch", zap.Int("queue_depth", s.q.Depth()))
			return &SubmitResult{LeadID: lead.ID, Queued: true}, nil
		}
		if !errors.Is(err, domain.ErrQueueFull) {
			return nil, err
		}
		log.Warn("dispatch queue full, dispatching inline")
	}

	outcomes := s.deliver(dctx, lead.ID, sub, log)
	return &SubmitResult{LeadID: lead.ID, Outcomes: outcomes}, nil
}

// Deliver dispatches a queued lead. It implements worker.Handler.
func (s *LeadService) Deliver(ctx context.Context, item queue.Item) {
	s.deliver(ctx, item.LeadID, item.Submission, s.logger.With(zap.String("lead_id", item.LeadID)))
}

func (s *LeadService) deliver(ctx context.Context, id string, sub domain.LeadSubmission, log *zap.Logger) []domain.DispatchOutcome {
	outcomes := s.dispatcher.Dispatch(ctx, sub)

	if err := s.repo.RecordOutcomes(ctx, id, outcomes); err != nil {
		log.Warn("failed to record dispatch outcomes", zap.Error(err))
	}

	summary := domain.Summary(outcomes)
	fields := []zap.Field{
		zap.Int("sent", summary[domain.OutcomeSent]),
		zap.Int("failed", summary[domain.OutcomeFailed]),
		zap.Int("skipped", summary[domain.OutcomeSkipped]),
	}
	switch {
	case len(outcomes) > 0 && summary[domain.OutcomeSkipped] == len(outcomes):
		log.Warn("lead accepted but no channel is configured", fields...)
	case summary[domain.OutcomeSent] == 0 && summary[domain.OutcomeFailed] > 0:
		log.Error("lead accepted but every active channel failed", fields...)
	default:
		log.Info("lead dispatched", fields...)
	}
	return outcomes
}

// Get returns a stored lead.
func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of stored leads, newest first, and the total count.
func (s *LeadService) List(ctx context.Context, f domain.ListFilter) ([]*domain.Lead, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.repo.List(ctx, f)
}
