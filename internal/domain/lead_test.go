package domain_test

import (
	"errors"
	"testing"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

func TestLeadSubmission_Validate(t *testing.T) {
	valid := domain.LeadSubmission{
		Name:           "Jane",
		Mobile:         "81234567",
		Email:          "jane@x.com",
		Request:        "brochure",
		ConsentContact: true,
	}

	t.Run("valid submission passes", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("preferred unit is optional", func(t *testing.T) {
		s := valid
		s.PreferredUnit = ""
		if err := s.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	tests := []struct {
		field  string
		mutate func(*domain.LeadSubmission)
	}{
		{"name", func(s *domain.LeadSubmission) { s.Name = "" }},
		{"mobile", func(s *domain.LeadSubmission) { s.Mobile = "" }},
		{"email", func(s *domain.LeadSubmission) { s.Email = "" }},
		{"request", func(s *domain.LeadSubmission) { s.Request = "" }},
		{"name", func(s *domain.LeadSubmission) { s.Name = "   " }},
	}
	for _, tc := range tests {
		t.Run("missing "+tc.field, func(t *testing.T) {
			s := valid
			tc.mutate(&s)

			err := s.Validate()
			if !errors.Is(err, domain.ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected ValidationError on %q, got %v", tc.field, err)
			}
		})
	}

	t.Run("first missing field in form order is reported", func(t *testing.T) {
		var empty domain.LeadSubmission
		var ve *domain.ValidationError
		if !errors.As(empty.Validate(), &ve) || ve.Field != "name" {
			t.Fatalf("expected name to be reported first, got %v", ve)
		}
	})
}

func TestSummary(t *testing.T) {
	counts := domain.Summary([]domain.DispatchOutcome{
		{Channel: "telegram", Status: domain.OutcomeSent},
		{Channel: "twilio", Status: domain.OutcomeFailed},
		{Channel: "callmebot", Status: domain.OutcomeSkipped},
		{Channel: "extra", Status: domain.OutcomeSkipped},
	})

	if counts[domain.OutcomeSent] != 1 || counts[domain.OutcomeFailed] != 1 || counts[domain.OutcomeSkipped] != 2 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
