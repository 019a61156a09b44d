package amortization

// StagerConfig holds the loan terms a Stager applies to every stage.
type StagerConfig struct {
	AnnualRatePercent float64
	TermYears         float64
	// LoanToValue is the financed fraction of the purchase price.
	LoanToValue float64
	// Smoothing is the AdvanceDisplay rate applied per sample.
	Smoothing float64
}

// Frame is the state emitted after each progress sample.
type Frame struct {
	Progress         float64         `json:"progress"`
	StageIndex       int             `json:"stage_index"`
	Stage            StageDefinition `json:"stage"`
	TargetPayment    float64         `json:"target_payment"`
	DisplayedPayment float64         `json:"displayed_payment"`
}

// StageChange is delivered to observers when a sample crosses into a
// different stage.
type StageChange struct {
	From          int
	To            int
	Stage         StageDefinition
	TargetPayment float64
}

// Stager drives the staged payment display for one viewing session.
// A Stager is not safe for concurrent use; each session owns its own.
type Stager struct {
	schedule *Schedule
	cfg      StagerConfig
	quantum  float64

	index     int
	displayed float64

	nextID    int
	observers map[int]func(StageChange)
	order     []int
}

// NewStager starts a session for a purchase price. The initial state is
// stage 0 showing its payment directly, without animating up from zero.
func NewStager(schedule *Schedule, price float64, cfg StagerConfig) *Stager {
	s := &Stager{
		schedule:  schedule,
		cfg:       cfg,
		observers: make(map[int]func(StageChange)),
	}
	s.SetPrice(price)
	return s
}

// Subscribe registers fn for stage changes and returns a function that
// removes it. Observers run synchronously in registration order.
func (s *Stager) Subscribe(fn func(StageChange)) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.order = append(s.order, id)

	return func() {
		if _, ok := s.observers[id]; !ok {
			return
		}
		delete(s.observers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// SetPrice changes the purchase price and resets the session.
func (s *Stager) SetPrice(price float64) {
	s.quantum = price * s.cfg.LoanToValue
	s.Reset()
}

// Reset returns to stage 0 with the display snapped to its target.
// Observers are not notified.
func (s *Stager) Reset() {
	s.index = 0
	s.displayed = s.target(0)
}

// LoanQuantum is the total financed amount for the current price.
func (s *Stager) LoanQuantum() float64 { return s.quantum }

// Current returns the state without advancing it.
func (s *Stager) Current() (index int, displayed float64) {
	return s.index, s.displayed
}

// Sample advances the session by one progress tick.
func (s *Stager) Sample(progress float64) Frame {
	newIndex, stage := s.schedule.StageFor(progress)
	target := s.target(newIndex)

	if newIndex != s.index {
		change := StageChange{From: s.index, To: newIndex, Stage: stage, TargetPayment: target}
		s.index = newIndex
		s.notify(change)
	}

	s.displayed = AdvanceDisplay(s.displayed, target, s.cfg.Smoothing)

	return Frame{
		Progress:         progress,
		StageIndex:       s.index,
		Stage:            stage,
		TargetPayment:    target,
		DisplayedPayment: s.displayed,
	}
}

func (s *Stager) target(i int) float64 {
	return MonthlyPayment(s.schedule.DrawnPrincipal(i, s.quantum), s.cfg.AnnualRatePercent, s.cfg.TermYears)
}

func (s *Stager) notify(change StageChange) {
	// Copy so an observer may unsubscribe itself.
	ids := append([]int(nil), s.order...)
	for _, id := range ids {
		if fn, ok := s.observers[id]; ok {
			fn(change)
		}
	}
}
