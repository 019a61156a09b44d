package amortization

import (
	"fmt"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// StageDefinition is one milestone of a progressive payment scheme.
type StageDefinition struct {
	Name              string  `yaml:"name" json:"name"`
	CumulativePercent float64 `yaml:"cumulative_percent" json:"cumulative_percent"`
	ScrollThreshold   float64 `yaml:"scroll_threshold" json:"scroll_threshold"`
	Description       string  `yaml:"description" json:"description"`
}

// Schedule is a validated, immutable stage table.
type Schedule struct {
	stages     []StageDefinition
	thresholds []float64
}

// DefaultStages is the progressive payment scheme for a building under
// construction, compressed to eight scroll milestones.
func DefaultStages() []StageDefinition {
	return []StageDefinition{
		{Name: "Foundation", CumulativePercent: 10, ScrollThreshold: 0.10,
			Description: "Completion of foundation work"},
		{Name: "Reinforced Concrete Framework", CumulativePercent: 20, ScrollThreshold: 0.20,
			Description: "Structural framework of the unit completed"},
		{Name: "Partition Walls", CumulativePercent: 25, ScrollThreshold: 0.30,
			Description: "Brick walls of the unit completed"},
		{Name: "Roofing & Ceiling", CumulativePercent: 30, ScrollThreshold: 0.40,
			Description: "Roofing and ceiling of the unit completed"},
		{Name: "Doors, Windows & Services", CumulativePercent: 35, ScrollThreshold: 0.50,
			Description: "Door sub-frames, window frames, electrical wiring, plastering and plumbing"},
		{Name: "Car Park, Roads & Drains", CumulativePercent: 40, ScrollThreshold: 0.60,
			Description: "Car park, roads and drains serving the development"},
		{Name: "Temporary Occupation Permit", CumulativePercent: 75, ScrollThreshold: 0.80,
			Description: "Keys handed over at TOP"},
		{Name: "Certificate of Statutory Completion", CumulativePercent: 100, ScrollThreshold: 1.0,
			Description: "Final payment on CSC"},
	}
}

// NewSchedule validates stages: at least one entry, cumulative percent in
// (0,100] and scroll threshold in (0,1], both strictly increasing, ending at
// exactly 100 and 1.0.
func NewSchedule(stages []StageDefinition) (*Schedule, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: no stages", domain.ErrInvalidStages)
	}

	var prevPercent, prevThreshold float64
	thresholds := make([]float64, len(stages))
	for i, st := range stages {
		if st.Name == "" {
			return nil, fmt.Errorf("%w: stage %d has no name", domain.ErrInvalidStages, i)
		}
		if !(st.CumulativePercent > prevPercent) || st.CumulativePercent > 100 {
			return nil, fmt.Errorf("%w: stage %q cumulative percent %.2f out of order or range",
				domain.ErrInvalidStages, st.Name, st.CumulativePercent)
		}
		if !(st.ScrollThreshold > prevThreshold) || st.ScrollThreshold > 1 {
			return nil, fmt.Errorf("%w: stage %q scroll threshold %.3f out of order or range",
				domain.ErrInvalidStages, st.Name, st.ScrollThreshold)
		}
		prevPercent, prevThreshold = st.CumulativePercent, st.ScrollThreshold
		thresholds[i] = st.ScrollThreshold
	}
	if prevPercent != 100 || prevThreshold != 1 {
		return nil, fmt.Errorf("%w: last stage must reach 100%% at threshold 1.0", domain.ErrInvalidStages)
	}

	copied := make([]StageDefinition, len(stages))
	copy(copied, stages)
	return &Schedule{stages: copied, thresholds: thresholds}, nil
}

// MustSchedule is NewSchedule for tables known to be valid at compile time.
func MustSchedule(stages []StageDefinition) *Schedule {
	s, err := NewSchedule(stages)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schedule) Len() int { return len(s.stages) }

// Stage returns the definition at index i.
func (s *Schedule) Stage(i int) StageDefinition { return s.stages[i] }

// Stages returns a copy of the table.
func (s *Schedule) Stages() []StageDefinition {
	out := make([]StageDefinition, len(s.stages))
	copy(out, s.stages)
	return out
}

// Thresholds returns a copy of the scroll thresholds in stage order.
func (s *Schedule) Thresholds() []float64 {
	out := make([]float64, len(s.thresholds))
	copy(out, s.thresholds)
	return out
}

// StageFor maps a progress value to its stage.
func (s *Schedule) StageFor(progress float64) (int, StageDefinition) {
	i := StageForProgress(progress, s.thresholds)
	return i, s.stages[i]
}

// DrawnPrincipal is the part of loanQuantum disbursed once stage i is reached.
func (s *Schedule) DrawnPrincipal(i int, loanQuantum float64) float64 {
	return s.stages[i].CumulativePercent / 100 * loanQuantum
}

// StagePayment pairs a stage with the payment due once it is reached.
type StagePayment struct {
	Index int `json:"index"`
	StageDefinition
	DrawnPrincipal float64 `json:"drawn_principal"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

// Payments lists the monthly payment at every stage for a loan of loanQuantum.
func (s *Schedule) Payments(loanQuantum, annualRatePercent, termYears float64) []StagePayment {
	out := make([]StagePayment, len(s.stages))
	for i, st := range s.stages {
		drawn := s.DrawnPrincipal(i, loanQuantum)
		out[i] = StagePayment{
			Index:           i,
			StageDefinition: st,
			DrawnPrincipal:  drawn,
			MonthlyPayment:  MonthlyPayment(drawn, annualRatePercent, termYears),
		}
	}
	return out
}
