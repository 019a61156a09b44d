// Package campaign loads the per-project content that re-brands the landing
// page: project details, calculator defaults and the progressive payment table.
package campaign

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joeyedi1/eclandingpage/internal/amortization"
)

type Project struct {
	Name        string `yaml:"name" json:"name"`
	District    string `yaml:"district" json:"district"`
	LaunchDate  string `yaml:"launch_date" json:"launch_date"`
	Description string `yaml:"description" json:"description"`
	VIPDiscount string `yaml:"vip_discount" json:"vip_discount"`
}

// Loan holds the calculator defaults and the loan-to-value ratio used to
// derive the financed amount from a purchase price.
type Loan struct {
	DefaultPrice      float64 `yaml:"default_price" json:"default_price"`
	DefaultPrincipal  float64 `yaml:"default_principal" json:"default_principal"`
	AnnualRatePercent float64 `yaml:"annual_rate_percent" json:"annual_rate_percent"`
	TermYears         float64 `yaml:"term_years" json:"term_years"`
	LoanToValue       float64 `yaml:"loan_to_value" json:"loan_to_value"`
	Smoothing         float64 `yaml:"smoothing" json:"smoothing"`
}

// Campaign is the decoded campaign file.
type Campaign struct {
	Project Project                        `yaml:"project" json:"project"`
	Loan    Loan                           `yaml:"loan" json:"loan"`
	Stages  []amortization.StageDefinition `yaml:"stages" json:"stages"`

	schedule *amortization.Schedule
}

// Default is the built-in campaign used when no file is present.
func Default() *Campaign {
	c := &Campaign{
		Project: Project{
			Name:        "Aura Executive Condominium",
			District:    "District 23",
			LaunchDate:  "2024-03-15T00:00:00",
			Description: "The Future of Luxury Living in the West. Up to $30k Grant for First Timers.",
			VIPDiscount: "Register now to secure Early Bird VVIP Pricing.",
		},
		Loan:   defaultLoan(),
		Stages: amortization.DefaultStages(),
	}
	c.schedule = amortization.MustSchedule(c.Stages)
	return c
}

// Load reads a campaign from path. A missing file yields Default; any other
// read, parse or validation failure is returned.
func Load(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read campaign file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates campaign YAML. Loan values the file omits keep
// their defaults; values it sets, zero included, are taken as written.
func Parse(data []byte) (*Campaign, error) {
	c := Campaign{Loan: defaultLoan()}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse campaign: %w", err)
	}

	if c.Project.Name == "" {
		return nil, errors.New("campaign project name is required")
	}
	if len(c.Stages) == 0 {
		c.Stages = amortization.DefaultStages()
	}

	if c.Loan.LoanToValue <= 0 || c.Loan.LoanToValue > 1 {
		return nil, fmt.Errorf("campaign loan_to_value %.2f must be in (0,1]", c.Loan.LoanToValue)
	}
	if err := (amortization.LoanParameters{
		Principal:         c.Loan.DefaultPrincipal,
		AnnualRatePercent: c.Loan.AnnualRatePercent,
		TermYears:         c.Loan.TermYears,
	}).Validate(); err != nil {
		return nil, fmt.Errorf("campaign loan defaults: %w", err)
	}

	schedule, err := amortization.NewSchedule(c.Stages)
	if err != nil {
		return nil, fmt.Errorf("campaign stages: %w", err)
	}
	c.schedule = schedule
	return &c, nil
}

// Schedule returns the validated stage table.
func (c *Campaign) Schedule() *amortization.Schedule { return c.schedule }

// StagerConfig returns the loan terms for a scroll session.
func (c *Campaign) StagerConfig() amortization.StagerConfig {
	return amortization.StagerConfig{
		AnnualRatePercent: c.Loan.AnnualRatePercent,
		TermYears:         c.Loan.TermYears,
		LoanToValue:       c.Loan.LoanToValue,
		Smoothing:         c.Loan.Smoothing,
	}
}

// LoanQuantum is the financed share of a purchase price.
func (c *Campaign) LoanQuantum(price float64) float64 {
	return price * c.Loan.LoanToValue
}

func defaultLoan() Loan {
	return Loan{
		DefaultPrice:      1_480_000,
		DefaultPrincipal:  1_500_000,
		AnnualRatePercent: 3.5,
		TermYears:         30,
		LoanToValue:       0.75,
		Smoothing:         0.15,
	}
}
