package domain

import (
	"strings"
	"time"
)

// LeadSubmission is the register-interest form payload posted by the landing page.
type LeadSubmission struct {
	Name             string `json:"name"`
	Mobile           string `json:"mobile"`
	Email            string `json:"email"`
	PreferredUnit    string `json:"preferredUnit"`
	Request          string `json:"request"`
	ConsentContact   bool   `json:"consentContact"`
	ConsentMarketing bool   `json:"consentMarketing"`
}

// Validate fails fast on the first empty required field, in form order.
func (s *LeadSubmission) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", s.Name},
		{"mobile", s.Mobile},
		{"email", s.Email},
		{"request", s.Request},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field}
		}
	}
	return nil
}

// Lead is an accepted submission as recorded by the lead store.
type Lead struct {
	ID          string            `json:"id"`
	Submission  LeadSubmission    `json:"submission"`
	RemoteAddr  string            `json:"remote_addr,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Outcomes    []DispatchOutcome `json:"outcomes"`
}

// ListFilter holds query parameters for paginated lead listing.
type ListFilter struct {
	From  *time.Time
	To    *time.Time
	Page  int
	Limit int
}
