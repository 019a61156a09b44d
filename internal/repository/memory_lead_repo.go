package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// MemoryLeadRepository keeps leads in process memory. It backs the server
// when no database is configured and doubles as the test store.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	leads map[string]*domain.Lead

	// Optional error overrides for exercising failure paths in tests.
	CreateErr         error
	RecordOutcomesErr error
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{leads: make(map[string]*domain.Lead)}
}

func (m *MemoryLeadRepository) Create(_ context.Context, l *domain.Lead) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[l.ID] = cloneLead(l)
	return nil
}

func (m *MemoryLeadRepository) RecordOutcomes(_ context.Context, id string, outcomes []domain.DispatchOutcome) error {
	if m.RecordOutcomesErr != nil {
		return m.RecordOutcomesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Outcomes = slices.Clone(outcomes)
	return nil
}

func (m *MemoryLeadRepository) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.leads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneLead(l), nil
}

func (m *MemoryLeadRepository) List(_ context.Context, f domain.ListFilter) ([]*domain.Lead, int, error) {
	m.mu.RLock()
	matched := make([]*domain.Lead, 0, len(m.leads))
	for _, l := range m.leads {
		if f.From != nil && l.SubmittedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && l.SubmittedAt.After(*f.To) {
			continue
		}
		matched = append(matched, cloneLead(l))
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *domain.Lead) int {
		return b.SubmittedAt.Compare(a.SubmittedAt)
	})

	total := len(matched)
	if f.Limit <= 0 {
		return matched, total, nil
	}
	start := (max(f.Page, 1) - 1) * f.Limit
	if start >= total {
		return []*domain.Lead{}, total, nil
	}
	end := min(start+f.Limit, total)
	return matched[start:end], total, nil
}

// Len reports how many leads are stored.
func (m *MemoryLeadRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.leads)
}

func cloneLead(l *domain.Lead) *domain.Lead {
	c := *l
	c.Outcomes = slices.Clone(l.Outcomes)
	return &c
}

var _ LeadRepository = (*MemoryLeadRepository)(nil)
