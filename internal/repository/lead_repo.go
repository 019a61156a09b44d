package repository

import (
	"context"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// LeadRepository defines all persistence operations for leads.
// The pgx implementation is in pg_lead_repo.go; memory_lead_repo.go serves
// deployments without DATABASE_URL and unit tests.
type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) error
	RecordOutcomes(ctx context.Context, id string, outcomes []domain.DispatchOutcome) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	// List returns the requested page, newest first, and the total match count.
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Lead, int, error)
}
