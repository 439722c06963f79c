package handlers

import (
	"log/slog"
	"net/http"

	"github.com/covedrive/cricket-club/services"
)

type ExpenseHandler struct {
	expenseService services.ExpenseService
	logger         *slog.Logger
}

func NewExpenseHandler(expenseService services.ExpenseService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var input services.CreateExpenseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"expense": expense}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseService.ListExpenses(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"expenses": expenses}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := getIDFromURL(r, "expenseID")
	if err != nil {
		badRequestResponse(w, r, h.logger, err)
		return
	}

	if err := h.expenseService.DeleteExpense(r.Context(), expenseID); err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
