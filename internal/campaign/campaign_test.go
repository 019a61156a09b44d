package campaign_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeyedi1/eclandingpage/internal/campaign"
	"github.com/joeyedi1/eclandingpage/internal/domain"
)

const riverModern = `
project:
  name: River Modern
  district: District 3
  launch_date: "2025-01-10T00:00:00"
loan:
  default_price: 2000000
  annual_rate_percent: 2.9
  term_years: 25
  loan_to_value: 0.8
stages:
  - name: Foundation
    cumulative_percent: 20
    scroll_threshold: 0.25
  - name: Structure
    cumulative_percent: 60
    scroll_threshold: 0.6
  - name: Completion
    cumulative_percent: 100
    scroll_threshold: 1.0
`

func TestLoad_MissingFileUsesDefault(t *testing.T) {
	c, err := campaign.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Project.Name != campaign.Default().Project.Name {
		t.Fatalf("expected default campaign, got %q", c.Project.Name)
	}
	if c.Schedule().Len() != 8 {
		t.Fatalf("expected 8 default stages, got %d", c.Schedule().Len())
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaign.yaml")
	if err := os.WriteFile(path, []byte(riverModern), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := campaign.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Project.Name != "River Modern" || c.Project.District != "District 3" {
		t.Fatalf("unexpected project: %+v", c.Project)
	}
	if c.Loan.AnnualRatePercent != 2.9 || c.Loan.TermYears != 25 || c.Loan.LoanToValue != 0.8 {
		t.Fatalf("unexpected loan: %+v", c.Loan)
	}
	// Omitted values fall back to defaults.
	if c.Loan.DefaultPrincipal != 1_500_000 || c.Loan.Smoothing != 0.15 {
		t.Fatalf("expected defaults to fill gaps, got %+v", c.Loan)
	}
	if c.Schedule().Len() != 3 || c.Schedule().Stage(1).Name != "Structure" {
		t.Fatalf("unexpected stages: %+v", c.Schedule().Stages())
	}
	if got := c.LoanQuantum(2_000_000); got != 1_600_000 {
		t.Fatalf("expected quantum 1600000, got %v", got)
	}

	cfg := c.StagerConfig()
	if cfg.LoanToValue != 0.8 || cfg.TermYears != 25 {
		t.Fatalf("unexpected stager config: %+v", cfg)
	}
}

func TestParse_ExplicitZeroRate(t *testing.T) {
	c, err := campaign.Parse([]byte("project:\n  name: Interest Free\nloan:\n  annual_rate_percent: 0\n  term_years: 10\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Loan.AnnualRatePercent != 0 {
		t.Fatalf("explicit 0%% rate was replaced with %v", c.Loan.AnnualRatePercent)
	}
	if c.Loan.TermYears != 10 || c.Loan.DefaultPrincipal != 1_500_000 {
		t.Fatalf("unexpected loan: %+v", c.Loan)
	}
	if cfg := c.StagerConfig(); cfg.AnnualRatePercent != 0 {
		t.Fatalf("stager config should carry the 0%% rate, got %v", cfg.AnnualRatePercent)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
	}{
		{"malformed", "project: [", nil},
		{"no project name", "project:\n  district: D1\n", nil},
		{"bad ltv", "project:\n  name: X\nloan:\n  loan_to_value: 1.5\n", nil},
		{"explicit zero term", "project:\n  name: X\nloan:\n  term_years: 0\n", domain.ErrInvalidLoan},
		{"negative rate", "project:\n  name: X\nloan:\n  annual_rate_percent: -1\n", domain.ErrInvalidLoan},
		{"bad stages", strings.Replace(riverModern, "cumulative_percent: 100", "cumulative_percent: 90", 1), domain.ErrInvalidStages},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := campaign.Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}
