package handler

import (
	"net/http"

	"github.com/joeyedi1/eclandingpage/internal/campaign"
)

// CampaignHandler exposes the project details the landing page renders.
type CampaignHandler struct {
	c *campaign.Campaign
}

func NewCampaignHandler(c *campaign.Campaign) *CampaignHandler {
	return &CampaignHandler{c: c}
}

// Get handles GET /api/v1/campaign
//
// @Summary  Project details and calculator defaults
// @Tags     campaign
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /api/v1/campaign [get]
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"project": h.c.Project,
		"loan":    h.c.Loan,
		"stages":  h.c.Schedule().Stages(),
	})
}
