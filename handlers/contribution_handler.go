package handlers

import (
	"log/slog"
	"net/http"

	"github.com/covedrive/cricket-club/services"
)

type ContributionHandler struct {
	contributionService services.ContributionService
	logger              *slog.Logger
}

func NewContributionHandler(contributionService services.ContributionService, logger *slog.Logger) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
		logger:              logger,
	}
}

func (h *ContributionHandler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	var input services.CreateContributionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	contribution, err := h.contributionService.CreateContribution(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"contribution": contribution}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *ContributionHandler) ListContributions(w http.ResponseWriter, r *http.Request) {
	contributions, err := h.contributionService.ListContributions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"contributions": contributions}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *ContributionHandler) ListContributionsByPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	contributions, err := h.contributionService.ListContributionsByPlayer(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"contributions": contributions}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *ContributionHandler) DeleteContribution(w http.ResponseWriter, r *http.Request) {
	contributionID, err := getIDFromURL(r, "contributionID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	if err := h.contributionService.DeleteContribution(r.Context(), contributionID); err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
