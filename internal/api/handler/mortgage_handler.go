package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/joeyedi1/eclandingpage/internal/amortization"
	"github.com/joeyedi1/eclandingpage/internal/campaign"
)

// MortgageHandler serves the calculator and progressive payment endpoints.
// All three are stateless reads over the campaign's loan terms.
type MortgageHandler struct {
	c *campaign.Campaign
}

func NewMortgageHandler(c *campaign.Campaign) *MortgageHandler {
	return &MortgageHandler{c: c}
}

// StageResponse is the stateless stage lookup result.
type StageResponse struct {
	Index             int     `json:"index"`
	Name              string  `json:"name"`
	CumulativePercent float64 `json:"cumulative_percent"`
	Progress          float64 `json:"progress"`
	LoanQuantum       float64 `json:"loan_quantum"`
	TargetPayment     float64 `json:"target_payment"`
}

// Estimate handles GET /api/v1/mortgage/estimate
//
// @Summary  Monthly payment for a fully drawn loan
// @Tags     mortgage
// @Produce  json
// @Param    principal  query     number  false  "Loan amount"
// @Param    rate       query     number  false  "Annual interest rate, percent"
// @Param    tenure     query     number  false  "Term in years"
// @Success  200        {object}  amortization.Estimate
// @Failure  400        {object}  map[string]string
// @Router   /api/v1/mortgage/estimate [get]
func (h *MortgageHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	loan := h.c.Loan
	params := amortization.LoanParameters{}
	var err error

	if params.Principal, err = queryFloat(r, "principal", loan.DefaultPrincipal); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.AnnualRatePercent, err = queryFloat(r, "rate", loan.AnnualRatePercent); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.TermYears, err = queryFloat(r, "tenure", loan.TermYears); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, params.Estimate())
}

// Schedule handles GET /api/v1/mortgage/schedule
//
// @Summary  Monthly payment at every construction stage
// @Tags     mortgage
// @Produce  json
// @Param    price  query     number  false  "Purchase price"
// @Success  200    {object}  map[string]any
// @Failure  400    {object}  map[string]string
// @Router   /api/v1/mortgage/schedule [get]
func (h *MortgageHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	price, err := h.price(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	quantum := h.c.LoanQuantum(price)
	loan := h.c.Loan
	respondJSON(w, http.StatusOK, map[string]any{
		"price":               price,
		"loan_to_value":       loan.LoanToValue,
		"loan_quantum":        quantum,
		"annual_rate_percent": loan.AnnualRatePercent,
		"term_years":          loan.TermYears,
		"stages":              h.c.Schedule().Payments(quantum, loan.AnnualRatePercent, loan.TermYears),
	})
}

// Stage handles GET /api/v1/mortgage/stage
//
// @Summary  Stage reached at a given scroll progress
// @Tags     mortgage
// @Produce  json
// @Param    price     query     number  false  "Purchase price"
// @Param    progress  query     number  true   "Scroll progress, 0 to 1"
// @Success  200       {object}  StageResponse
// @Failure  400       {object}  map[string]string
// @Router   /api/v1/mortgage/stage [get]
func (h *MortgageHandler) Stage(w http.ResponseWriter, r *http.Request) {
	price, err := h.price(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if r.URL.Query().Get("progress") == "" {
		respondError(w, http.StatusBadRequest, "progress is required")
		return
	}
	progress, err := queryFloat(r, "progress", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule := h.c.Schedule()
	quantum := h.c.LoanQuantum(price)
	i, st := schedule.StageFor(progress)
	loan := h.c.Loan

	respondJSON(w, http.StatusOK, StageResponse{
		Index:             i,
		Name:              st.Name,
		CumulativePercent: st.CumulativePercent,
		Progress:          progress,
		LoanQuantum:       quantum,
		TargetPayment: amortization.MonthlyPayment(
			schedule.DrawnPrincipal(i, quantum), loan.AnnualRatePercent, loan.TermYears),
	})
}

func (h *MortgageHandler) price(r *http.Request) (float64, error) {
	price, err := queryFloat(r, "price", h.c.Loan.DefaultPrice)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, fmt.Errorf("price must be positive")
	}
	return price, nil
}

// queryFloat parses a finite float query parameter, returning def when absent.
func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}
