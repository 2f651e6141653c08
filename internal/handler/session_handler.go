package handler

import (
	"net/http"

	"wareg/internal/notify"

	"github.com/rs/zerolog"
)

// SessionEnder ends sessions.
type SessionEnder interface {
	Delete(id string) bool
}

// SessionHandler handles session-scoped requests that are not cart or menu operations.
type SessionHandler struct {
	sessions   SessionEnder
	cookieName string
	secure     bool
	logger     zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions SessionEnder, cookieName string, secure bool, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger.With().Str("handler", "session").Logger(),
	}
}

type notificationsResponse struct {
	Notifications []notify.Notification `json:"notifications"`
}

// Notifications handles GET /api/notifications requests. Returned
// notifications are removed from the session.
func (h *SessionHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: sess.Feed.Drain()}, h.logger)
}

// End handles DELETE /api/session requests.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	h.sessions.Delete(sess.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
