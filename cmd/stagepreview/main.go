// Command stagepreview replays a scroll session against a campaign's
// progressive payment table and prints the payment the page would display at
// each step, along with every stage change.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/joeyedi1/eclandingpage/internal/amortization"
	"github.com/joeyedi1/eclandingpage/internal/campaign"
)

func main() {
	var (
		campaignFile = flag.String("campaign", "campaign.yaml", "campaign file; the built-in campaign is used when missing")
		price        = flag.Float64("price", 0, "purchase price (default: the campaign's default price)")
		steps        = flag.Int("steps", 20, "samples per scroll direction")
		smoothing    = flag.Float64("smoothing", 0, "display smoothing rate in (0,1] (default: the campaign's)")
	)
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync() //nolint:errcheck

	camp, err := campaign.Load(*campaignFile)
	if err != nil {
		logger.Fatal("failed to load campaign", zap.Error(err))
	}
	if *steps < 1 {
		logger.Fatal("steps must be at least 1", zap.Int("steps", *steps))
	}

	cfg := camp.StagerConfig()
	if *smoothing > 0 {
		cfg.Smoothing = *smoothing
	}
	p := *price
	if p <= 0 {
		p = camp.Loan.DefaultPrice
	}

	run(os.Stdout, camp, p, *steps, cfg)
}

// run scrolls from the top to the bottom of the page and back up again.
func run(w io.Writer, camp *campaign.Campaign, price float64, steps int, cfg amortization.StagerConfig) {
	stager := amortization.NewStager(camp.Schedule(), price, cfg)
	unsubscribe := stager.Subscribe(func(c amortization.StageChange) {
		fmt.Fprintf(w, "  -> stage %d → %d: %s (target %.2f)\n", c.From, c.To, c.Stage.Name, c.TargetPayment)
	})
	defer unsubscribe()

	fmt.Fprintf(w, "%s: price %.0f, loan %.0f at %.2f%% over %.0f years\n",
		camp.Project.Name, price, stager.LoanQuantum(), cfg.AnnualRatePercent, cfg.TermYears)
	_, displayed := stager.Current()
	fmt.Fprintf(w, "start: displayed %.2f\n", displayed)

	sample := func(progress float64) {
		f := stager.Sample(progress)
		fmt.Fprintf(w, "%5.2f  [%d] %-38s target %10.2f  displayed %10.2f\n",
			f.Progress, f.StageIndex, f.Stage.Name, f.TargetPayment, f.DisplayedPayment)
	}
	for i := 0; i <= steps; i++ {
		sample(float64(i) / float64(steps))
	}
	for i := steps - 1; i >= 0; i-- {
		sample(float64(i) / float64(steps))
	}
}
