package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/joeyedi1/eclandingpage/internal/domain"
	"github.com/joeyedi1/eclandingpage/internal/repository"
)

func seed(t *testing.T, repo *repository.MemoryLeadRepository, n int, base time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		l := &domain.Lead{
			ID:          fmt.Sprintf("lead-%d", i),
			Submission:  domain.LeadSubmission{Name: fmt.Sprintf("n%d", i)},
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(context.Background(), l); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
}

func TestMemoryLeadRepository_CreateAndGet(t *testing.T) {
	repo := repository.NewMemoryLeadRepository()
	ctx := context.Background()

	lead := &domain.Lead{ID: "a", Submission: domain.LeadSubmission{Name: "Jane"}}
	if err := repo.Create(ctx, lead); err != nil {
		t.Fatal(err)
	}

	// The store must not alias the caller's value.
	lead.Submission.Name = "mutated"

	got, err := repo.GetByID(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Submission.Name != "Jane" {
		t.Fatalf("expected stored copy, got %q", got.Submission.Name)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryLeadRepository_RecordOutcomes(t *testing.T) {
	repo := repository.NewMemoryLeadRepository()
	ctx := context.Background()
	_ = repo.Create(ctx, &domain.Lead{ID: "a"})

	outcomes := []domain.DispatchOutcome{{Channel: "telegram", Status: domain.OutcomeSent}}
	if err := repo.RecordOutcomes(ctx, "a", outcomes); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetByID(ctx, "a")
	if len(got.Outcomes) != 1 || got.Outcomes[0].Status != domain.OutcomeSent {
		t.Fatalf("unexpected outcomes %+v", got.Outcomes)
	}

	if err := repo.RecordOutcomes(ctx, "missing", outcomes); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryLeadRepository_ListPaginatesNewestFirst(t *testing.T) {
	repo := repository.NewMemoryLeadRepository()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seed(t, repo, 5, base)

	page1, total, err := repo.List(context.Background(), domain.ListFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(page1) != 2 || page1[0].ID != "lead-4" || page1[1].ID != "lead-3" {
		t.Fatalf("unexpected first page %v", ids(page1))
	}

	page3, _, _ := repo.List(context.Background(), domain.ListFilter{Page: 3, Limit: 2})
	if len(page3) != 1 || page3[0].ID != "lead-0" {
		t.Fatalf("unexpected last page %v", ids(page3))
	}

	beyond, _, _ := repo.List(context.Background(), domain.ListFilter{Page: 9, Limit: 2})
	if len(beyond) != 0 {
		t.Fatalf("expected empty page, got %v", ids(beyond))
	}
}

func TestMemoryLeadRepository_ListTimeWindow(t *testing.T) {
	repo := repository.NewMemoryLeadRepository()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seed(t, repo, 5, base)

	from := base.Add(time.Minute)
	to := base.Add(3 * time.Minute)
	got, total, err := repo.List(context.Background(), domain.ListFilter{From: &from, To: &to, Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(got) != 3 {
		t.Fatalf("expected 3 leads in window, got total=%d %v", total, ids(got))
	}
}

func ids(leads []*domain.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}
