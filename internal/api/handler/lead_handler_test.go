package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joeyedi1/eclandingpage/internal/api/handler"
	"github.com/joeyedi1/eclandingpage/internal/domain"
	"github.com/joeyedi1/eclandingpage/internal/repository"
	"github.com/joeyedi1/eclandingpage/internal/service"
)

// uuidColumnRepo fails malformed ids the way a UUID primary key does.
type uuidColumnRepo struct {
	*repository.MemoryLeadRepository
	lookups int
}

func (r *uuidColumnRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	r.lookups++
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(`invalid input syntax for type uuid: "` + id + `"`)
	}
	return r.MemoryLeadRepository.GetByID(ctx, id)
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, domain.LeadSubmission) []domain.DispatchOutcome {
	return nil
}

func TestLeadHandler_GetByID(t *testing.T) {
	repo := &uuidColumnRepo{MemoryLeadRepository: repository.NewMemoryLeadRepository()}
	stored := &domain.Lead{ID: uuid.NewString(), Submission: domain.LeadSubmission{Name: "Jane"}}
	if err := repo.Create(context.Background(), stored); err != nil {
		t.Fatal(err)
	}

	svc := service.NewLeadService(repo, noopDispatcher{}, service.Options{}, zap.NewNop())
	h := handler.NewLeadHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/leads/{id}", h.GetByID)

	tests := []struct {
		name    string
		id      string
		status  int
		lookups int
	}{
		{"stored lead", stored.ID, http.StatusOK, 1},
		{"unknown uuid", uuid.NewString(), http.StatusNotFound, 1},
		{"malformed id", "not-a-uuid", http.StatusNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.lookups = 0
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/"+tt.id, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if repo.lookups != tt.lookups {
				t.Fatalf("store lookups = %d, want %d", repo.lookups, tt.lookups)
			}
		})
	}
}
