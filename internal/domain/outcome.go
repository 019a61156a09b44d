package domain

import "time"

// OutcomeStatus is the settled state of one channel in a dispatch run.
type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// DispatchOutcome records what happened to one channel during a dispatch run.
type DispatchOutcome struct {
	Channel string        `json:"channel"`
	Status  OutcomeStatus `json:"status"`
	Detail  string        `json:"detail"`
	Latency time.Duration `json:"latency_ns,omitempty"`
}

// Summary counts outcomes per status.
func Summary(outcomes []DispatchOutcome) map[OutcomeStatus]int {
	counts := map[OutcomeStatus]int{
		OutcomeSent:    0,
		OutcomeFailed:  0,
		OutcomeSkipped: 0,
	}
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}
