package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joeyedi1/eclandingpage/internal/domain"
	"github.com/joeyedi1/eclandingpage/internal/queue"
	"github.com/joeyedi1/eclandingpage/internal/repository"
	"github.com/joeyedi1/eclandingpage/internal/service"
)

// stubDispatcher records what it was asked to send.
type stubDispatcher struct {
	outcomes []domain.DispatchOutcome

	mu      sync.Mutex
	calls   int
	sawDone bool
}

func (d *stubDispatcher) Dispatch(ctx context.Context, lead domain.LeadSubmission) []domain.DispatchOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.sawDone = ctx.Err() != nil
	return d.outcomes
}

func (d *stubDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

var validSub = domain.LeadSubmission{
	Name:           "Jane",
	Mobile:         "91234567",
	Email:          "jane@example.com",
	Request:        "Brochure",
	ConsentContact: true,
}

var sentOutcomes = []domain.DispatchOutcome{
	{Channel: "telegram", Status: domain.OutcomeSent},
	{Channel: "twilio", Status: domain.OutcomeSkipped},
}

func newService(opts service.Options) (*service.LeadService, *repository.MemoryLeadRepository, *stubDispatcher) {
	repo := repository.NewMemoryLeadRepository()
	d := &stubDispatcher{outcomes: sentOutcomes}
	return service.NewLeadService(repo, d, opts, zap.NewNop()), repo, d
}

func TestLeadService_Submit(t *testing.T) {
	var results []string
	svc, repo, d := newService(service.Options{
		Hooks: service.Hooks{OnSubmit: func(r string) { results = append(results, r) }},
	})
	ctx := context.Background()

	res, err := svc.Submit(ctx, validSub, "203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.LeadID == "" || res.Queued {
		t.Fatalf("unexpected result %+v", res)
	}
	if d.callCount() != 1 {
		t.Fatalf("expected one dispatch, got %d", d.callCount())
	}
	if len(res.Outcomes) != 2 {
		t.Fatalf("expected outcomes in result, got %+v", res.Outcomes)
	}

	stored, err := repo.GetByID(ctx, res.LeadID)
	if err != nil {
		t.Fatalf("lead not stored: %v", err)
	}
	if stored.RemoteAddr != "203.0.113.9" || stored.Submission.Name != "Jane" {
		t.Fatalf("unexpected stored lead %+v", stored)
	}
	if len(stored.Outcomes) != 2 || stored.Outcomes[0].Status != domain.OutcomeSent {
		t.Fatalf("expected outcomes recorded, got %+v", stored.Outcomes)
	}
	if len(results) != 1 || results[0] != service.ResultAccepted {
		t.Fatalf("unexpected hook results %v", results)
	}
}

func TestLeadService_Submit_InvalidNeverDispatches(t *testing.T) {
	svc, repo, d := newService(service.Options{})

	bad := validSub
	bad.Email = "  "
	_, err := svc.Submit(context.Background(), bad, "")

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "email" {
		t.Fatalf("expected ValidationError on email, got %v", err)
	}
	if !errors.Is(err, domain.ErrMissingField) {
		t.Fatal("expected error to wrap ErrMissingField")
	}
	if d.callCount() != 0 {
		t.Fatal("dispatch must not run for invalid submissions")
	}
	if repo.Len() != 0 {
		t.Fatal("invalid submissions must not be stored")
	}
}

func TestLeadService_Submit_StoreFailureStillDispatches(t *testing.T) {
	svc, repo, d := newService(service.Options{})
	repo.CreateErr = errors.New("db down")

	res, err := svc.Submit(context.Background(), validSub, "")
	if err != nil {
		t.Fatalf("store failure must not fail the submission: %v", err)
	}
	if res == nil || d.callCount() != 1 {
		t.Fatal("expected dispatch despite store failure")
	}
}

func TestLeadService_Submit_DetachedFromClientCancel(t *testing.T) {
	svc, _, d := newService(service.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Submit(ctx, validSub, ""); err != nil {
		t.Fatal(err)
	}
	if d.sawDone {
		t.Fatal("dispatch context must not inherit client cancellation")
	}
}

func TestLeadService_Submit_AsyncQueues(t *testing.T) {
	q := queue.New(1)
	svc, _, d := newService(service.Options{Queue: q})

	res, err := svc.Submit(context.Background(), validSub, "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Queued || res.Outcomes != nil {
		t.Fatalf("expected queued result, got %+v", res)
	}
	if q.Depth() != 1 || d.callCount() != 0 {
		t.Fatalf("expected lead on the queue and no inline dispatch (depth=%d calls=%d)", q.Depth(), d.callCount())
	}

	// Queue is now full: the next lead is dispatched inline.
	res, err = svc.Submit(context.Background(), validSub, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Queued || d.callCount() != 1 {
		t.Fatalf("expected inline fallback, got %+v calls=%d", res, d.callCount())
	}
}

func TestLeadService_DeliverRecordsOutcomes(t *testing.T) {
	q := queue.New(4)
	svc, repo, _ := newService(service.Options{Queue: q})
	ctx := context.Background()

	res, _ := svc.Submit(ctx, validSub, "")
	item, ok := q.Dequeue(ctx)
	if !ok {
		t.Fatal("expected queued item")
	}
	svc.Deliver(ctx, item)

	stored, err := repo.GetByID(ctx, res.LeadID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Outcomes) != 2 {
		t.Fatalf("expected outcomes recorded by Deliver, got %+v", stored.Outcomes)
	}
}

func TestLeadService_ListClampsPaging(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc, _, _ := newService(service.Options{Now: func() time.Time { return now }})
	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(context.Background(), validSub, ""); err != nil {
			t.Fatal(err)
		}
	}

	leads, total, err := svc.List(context.Background(), domain.ListFilter{Page: 0, Limit: 0})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(leads) != 3 {
		t.Fatalf("expected 3 leads with default paging, got total=%d len=%d", total, len(leads))
	}
	if !leads[0].SubmittedAt.Equal(now) {
		t.Fatalf("expected injected clock, got %s", leads[0].SubmittedAt)
	}
}

func TestLeadService_LogsDispatchSummary(t *testing.T) {
	cases := []struct {
		name     string
		outcomes []domain.DispatchOutcome
		level    zapcore.Level
		message  string
	}{
		{
			name: "all skipped",
			outcomes: []domain.DispatchOutcome{
				{Channel: "telegram", Status: domain.OutcomeSkipped},
				{Channel: "twilio", Status: domain.OutcomeSkipped},
			},
			level:   zapcore.WarnLevel,
			message: "lead accepted but no channel is configured",
		},
		{
			name: "every active channel failed",
			outcomes: []domain.DispatchOutcome{
				{Channel: "telegram", Status: domain.OutcomeFailed},
				{Channel: "twilio", Status: domain.OutcomeSkipped},
			},
			level:   zapcore.ErrorLevel,
			message: "lead accepted but every active channel failed",
		},
		{
			name:     "delivered",
			outcomes: sentOutcomes,
			level:    zapcore.InfoLevel,
			message:  "lead dispatched",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			d := &stubDispatcher{outcomes: tc.outcomes}
			svc := service.NewLeadService(repository.NewMemoryLeadRepository(), d, service.Options{}, zap.New(core))

			if _, err := svc.Submit(context.Background(), validSub, "203.0.113.9"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			entries := logs.FilterMessage(tc.message).All()
			if len(entries) != 1 {
				t.Fatalf("expected one %q entry, got %d (all: %v)", tc.message, len(entries), logs.All())
			}
			if entries[0].Level != tc.level {
				t.Fatalf("expected level %s, got %s", tc.level, entries[0].Level)
			}
			if _, ok := entries[0].ContextMap()["lead_id"]; !ok {
				t.Fatal("summary entry should carry lead_id")
			}
		})
	}
}
