package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"wareg/internal/model"
	"wareg/internal/session"
	"wareg/internal/upstream"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code. Encoding
// failures are logged; the status line has already been sent.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message}, logger)
}

// writeServiceError maps an error from the cart, catalogue or journal to a response.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorised to place orders", logger)
		case statusErr.StatusCode < http.StatusInternalServerError:
			writeError(w, http.StatusBadGateway, model.ErrCodeUpstreamRejected, err.Error(), logger)
		default:
			writeError(w, http.StatusBadGateway, model.ErrCodeUpstreamUnavailable, err.Error(), logger)
		}
		return
	}

	writeError(w, http.StatusBadGateway, model.ErrCodeUpstreamUnavailable, err.Error(), logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeMenuNotFound, model.ErrCodeCheckoutNotFound, model.ErrCodeJournalDisabled:
		return http.StatusNotFound
	case model.ErrCodeSessionNotFound, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeUpstreamRejected:
		return http.StatusBadGateway
	case model.ErrCodeInvalidJSON, model.ErrCodeInvalidParameter:
		return http.StatusBadRequest
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// sessionFrom returns the request's session, writing a 401 when there is none.
func sessionFrom(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeSessionNotFound, model.ErrSessionNotFound.Message, logger)
		return nil, false
	}
	return sess, true
}

// menuIDParam parses the {menuID} path parameter.
func menuIDParam(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int, bool) {
	raw := chi.URLParam(r, "menuID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "menu ID must be an integer", logger)
		return 0, false
	}
	return id, true
}
