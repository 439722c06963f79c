package handlers

import (
	"log/slog"
	"net/http"

	"github.com/covedrive/cricket-club/middleware"
	"github.com/covedrive/cricket-club/services"
)

type PlayerHandler struct {
	playerService  services.PlayerService
	financeService services.FinanceService
	logger         *slog.Logger
}

func NewPlayerHandler(playerService services.PlayerService, financeService services.FinanceService, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		playerService:  playerService,
		financeService: financeService,
		logger:         logger,
	}
}

func (h *PlayerHandler) GetPlayerByID(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	player, err := h.playerService.GetPlayerByID(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *PlayerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	currentPlayerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, h.logger, "failed to identify current player")
		return
	}
	currentRole, err := middleware.GetPlayerRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, h.logger, "failed to identify current player")
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	player, err := h.playerService.UpdateProfile(r.Context(), playerID, input, currentPlayerID, currentRole)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *PlayerHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	currentPlayerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, h.logger, "failed to identify current player")
		return
	}
	currentRole, err := middleware.GetPlayerRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, h.logger, "failed to identify current player")
		return
	}

	contentType := r.Header.Get("Content-Type")
	player, err := h.playerService.UploadPhoto(r.Context(), playerID, contentType, r.Body, currentPlayerID, currentRole)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	if err := h.playerService.DeletePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	balance, err := h.financeService.PlayerBalance(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"balance": balance}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *PlayerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	history, err := h.financeService.PlayerHistory(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}
