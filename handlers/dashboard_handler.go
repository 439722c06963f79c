package handlers

import (
	"log/slog"
	"net/http"

	"github.com/covedrive/cricket-club/middleware"
	"github.com/covedrive/cricket-club/services"
)

type DashboardHandler struct {
	financeService services.FinanceService
	logger         *slog.Logger
}

func NewDashboardHandler(financeService services.FinanceService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		financeService: financeService,
		logger:         logger,
	}
}

// GetOrganizationSummary aggregates the financials of every team managed by
// the authenticated player.
func (h *DashboardHandler) GetOrganizationSummary(w http.ResponseWriter, r *http.Request) {
	managerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, h.logger, "authentication required")
		return
	}

	summary, err := h.financeService.OrganizationSummary(r.Context(), managerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"summary": summary}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}
