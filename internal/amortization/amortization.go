// Package amortization holds the mortgage arithmetic behind the landing page:
// the annuity monthly payment, the progressive-payment stage lookup driven by
// scroll progress, and the smoothing step used to animate the displayed value.
//
// Everything except Stager is a pure function and safe to call on every
// animation tick.
package amortization

import (
	"fmt"
	"math"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// SnapEpsilon is the absolute distance, in currency units, below which
// AdvanceDisplay jumps straight to the target.
const SnapEpsilon = 1.0

// LoanParameters describes a fully drawn loan.
type LoanParameters struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         float64 `json:"term_years"`
}

// Validate rejects parameters outside the domain of MonthlyPayment.
func (p LoanParameters) Validate() error {
	switch {
	case math.IsNaN(p.Principal) || math.IsInf(p.Principal, 0) || p.Principal <= 0:
		return fmt.Errorf("%w: principal must be positive", domain.ErrInvalidLoan)
	case math.IsNaN(p.AnnualRatePercent) || math.IsInf(p.AnnualRatePercent, 0) || p.AnnualRatePercent < 0:
		return fmt.Errorf("%w: interest rate must not be negative", domain.ErrInvalidLoan)
	case math.IsNaN(p.TermYears) || math.IsInf(p.TermYears, 0) || p.TermYears <= 0:
		return fmt.Errorf("%w: term must be positive", domain.ErrInvalidLoan)
	}
	return nil
}

// Estimate is the calculator result for one set of loan parameters.
type Estimate struct {
	LoanParameters
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// Estimate computes the monthly payment and lifetime totals.
func (p LoanParameters) Estimate() Estimate {
	monthly := MonthlyPayment(p.Principal, p.AnnualRatePercent, p.TermYears)
	total := monthly * p.TermYears * 12
	return Estimate{
		LoanParameters: p,
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  total - p.Principal,
	}
}

// MonthlyPayment returns the standard annuity payment
//
//	M = P·r·(1+r)^n / ((1+r)^n − 1)
//
// with r the monthly rate and n the number of monthly payments. A zero rate
// degenerates to P/n. A non-positive principal or term yields 0.
func MonthlyPayment(principal, annualRatePercent, termYears float64) float64 {
	if !(principal > 0) || !(termYears > 0) {
		return 0
	}
	monthlyRate := annualRatePercent / 100 / 12
	n := termYears * 12

	if monthlyRate == 0 {
		return principal / n
	}
	growth := math.Pow(1+monthlyRate, n)
	return principal * monthlyRate * growth / (growth - 1)
}

// StageForProgress returns the index of the first threshold that is greater
// than or equal to progress. Progress past every threshold clamps to the last
// index. The lookup is stateless, so moving progress backwards moves the
// index backwards too. An empty threshold list yields 0.
func StageForProgress(progress float64, thresholds []float64) int {
	if len(thresholds) == 0 || math.IsNaN(progress) {
		return 0
	}
	for i, t := range thresholds {
		if t >= progress {
			return i
		}
	}
	return len(thresholds) - 1
}

// AdvanceDisplay performs one exponential smoothing step from previous toward
// target. Within SnapEpsilon it returns target exactly. A rate outside (0,1]
// is treated as 1.
func AdvanceDisplay(previous, target, rate float64) float64 {
	if math.Abs(target-previous) < SnapEpsilon {
		return target
	}
	if !(rate > 0) || rate >= 1 {
		return target
	}
	return previous + (target-previous)*rate
}
