package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apimw "github.com/joeyedi1/eclandingpage/internal/api/middleware"
	"github.com/joeyedi1/eclandingpage/internal/domain"
	"github.com/joeyedi1/eclandingpage/internal/service"
)

// LeadHandler serves the register-interest form and the admin lead API.
type LeadHandler struct {
	svc    *service.LeadService
	logger *zap.Logger
}

func NewLeadHandler(svc *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{svc: svc, logger: logger}
}

// Register handles POST /api/register and POST /api/v1/leads
//
// @Summary     Submit a register-interest form
// @Tags        leads
// @Accept      json
// @Produce     json
// @Param       body  body      domain.LeadSubmission  true  "Form payload"
// @Success     200   {object}  SubmitResponse
// @Failure     400   {object}  SubmitResponse
// @Failure     500   {object}  SubmitResponse
// @Router      /api/register [post]
func (h *LeadHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(zap.String("correlation_id", apimw.GetCorrelationID(r.Context())))

	var sub domain.LeadSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		// Parse failures are reported as server errors, matching what the
		// landing page already handles.
		log.Warn("decode submission failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, SubmitResponse{Message: msgServerError})
		return
	}

	res, err := h.svc.Submit(r.Context(), sub, r.RemoteAddr)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			log.Info("submission rejected", zap.String("field", verr.Field))
			respondJSON(w, http.StatusBadRequest, SubmitResponse{Message: msgMissingFields})
			return
		}
		log.Error("submission failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, SubmitResponse{Message: msgServerError})
		return
	}

	log.Info("submission accepted", zap.String("lead_id", res.LeadID), zap.Bool("queued", res.Queued))
	respondJSON(w, http.StatusOK, SubmitResponse{Success: true, Message: msgSubmitted})
}

// GetByID handles GET /api/v1/leads/{id}
//
// @Summary  Get a stored lead with its dispatch outcomes
// @Tags     leads
// @Produce  json
// @Param    X-Admin-Token  header    string  true  "Admin token"
// @Param    id             path      string  true  "Lead UUID"
// @Success  200            {object}  domain.Lead
// @Failure  404            {object}  map[string]string
// @Router   /api/v1/leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		mapError(w, domain.ErrNotFound)
		return
	}
	lead, err := h.svc.Get(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// List handles GET /api/v1/leads
//
// @Summary  List stored leads, newest first
// @Tags     leads
// @Produce  json
// @Param    X-Admin-Token  header    string  true   "Admin token"
// @Param    from           query     string  false  "Submitted after (RFC3339)"
// @Param    to             query     string  false  "Submitted before (RFC3339)"
// @Param    page           query     int     false  "Page number (default 1)"
// @Param    limit          query     int     false  "Items per page (default 20, max 100)"
// @Success  200            {object}  map[string]any
// @Router   /api/v1/leads [get]
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseListFilter(r)
	leads, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list leads failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if leads == nil {
		leads = []*domain.Lead{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  leads,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

func parseListFilter(r *http.Request) domain.ListFilter {
	q := r.URL.Query()
	filter := domain.ListFilter{Page: 1, Limit: 20}

	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		filter.Page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 100 {
		filter.Limit = l
	}
	if f := q.Get("from"); f != "" {
		if t, err := time.Parse(time.RFC3339, f); err == nil {
			filter.From = &t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}
	return filter
}
