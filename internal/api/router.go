package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joeyedi1/eclandingpage/internal/api/handler"
	apimw "github.com/joeyedi1/eclandingpage/internal/api/middleware"
	"github.com/joeyedi1/eclandingpage/internal/campaign"
	"github.com/joeyedi1/eclandingpage/internal/queue"
	"github.com/joeyedi1/eclandingpage/internal/service"
)

// Deps carries everything the HTTP layer needs. Queue and DB are nil when
// dispatch is synchronous or leads are kept in memory.
type Deps struct {
	Service        *service.LeadService
	Campaign       *campaign.Campaign
	Queue          *queue.DispatchQueue
	DB             handler.Pinger
	Gatherer       prometheus.Gatherer
	SubmitLimiter  *apimw.IPRateLimiter
	AdminToken     string
	ActiveChannels int
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(d Deps, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestSize(64 << 10)) // form posts are tiny
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	lh := handler.NewLeadHandler(d.Service, logger)
	mh := handler.NewMortgageHandler(d.Campaign)
	ch := handler.NewCampaignHandler(d.Campaign)
	qh := handler.NewMetricsHandler(d.Queue)
	hh := handler.NewHealthHandler(d.DB, d.ActiveChannels)

	// Submission routes share one per-IP budget.
	submit := func(r chi.Router) {
		if d.SubmitLimiter != nil {
			r.Use(apimw.RateLimit(d.SubmitLimiter, logger))
		}
		r.Post("/", lh.Register)
	}

	// --- routes ---
	r.Get("/health", hh.Health)

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	// Path the landing page form posts to.
	r.Route("/api/register", submit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Group(submit)

			if d.AdminToken != "" {
				r.Group(func(r chi.Router) {
					r.Use(apimw.AdminToken(d.AdminToken))
					r.Get("/", lh.List)
					r.Get("/{id}", lh.GetByID)
				})
			}
		})

		r.Get("/mortgage/estimate", mh.Estimate)
		r.Get("/mortgage/schedule", mh.Schedule)
		r.Get("/mortgage/stage", mh.Stage)

		r.Get("/campaign", ch.Get)

		// JSON metrics snapshot
		r.Get("/metrics", qh.GetMetrics)
	})

	return r
}
