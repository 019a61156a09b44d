package queue

import "github.com/joeyedi1/eclandingpage/internal/domain"

// Item is one lead waiting for asynchronous dispatch. The lead is already
// stored; the worker records outcomes against LeadID.
type Item struct {
	LeadID     string
	Submission domain.LeadSubmission
}
