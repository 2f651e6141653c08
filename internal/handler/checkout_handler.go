package handler

import (
	"errors"
	"net/http"

	"wareg/internal/model"
	"wareg/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler serves the checkout journal.
type CheckoutHandler struct {
	journal service.JournalService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(journal service.JournalService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		journal: journal,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// GetByID handles GET /api/checkouts/{id} requests.
func (h *CheckoutHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	checkoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid checkout ID format", h.logger)
		return
	}

	checkout, err := h.journal.GetByID(r.Context(), checkoutID)
	if err != nil {
		if errors.Is(err, model.ErrJournalDisabled) {
			writeServiceError(w, err, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve checkout", h.logger)
		return
	}

	if checkout == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeCheckoutNotFound, model.ErrCheckoutNotFound.Message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, checkout, h.logger)
}
