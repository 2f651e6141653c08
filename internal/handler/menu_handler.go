package handler

import (
	"net/http"

	"wareg/internal/model"
	"wareg/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// MenuHandler serves the session's menu page.
type MenuHandler struct {
	logger zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		logger: logger.With().Str("handler", "menu").Logger(),
	}
}

// List handles GET /api/menus requests.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(*session.Session) {})
}

// ToggleCategory handles POST /api/menus/categories/{category} requests.
func (h *MenuHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	h.respond(w, r, func(sess *session.Session) {
		sess.Catalog.HandleCategoryChange(category)
	})
}

// SetRating handles PUT /api/menus/rating requests.
func (h *MenuHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	var req model.RatingRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	h.respond(w, r, func(sess *session.Session) {
		sess.Catalog.HandleRatingChange(req.Rating)
	})
}

// SetQuery handles PUT /api/menus/query requests.
func (h *MenuHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var req model.QueryRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	h.respond(w, r, func(sess *session.Session) {
		sess.Catalog.HandleFilterByQuery(req.Query)
	})
}

// NextPage handles POST /api/menus/pages/next requests.
func (h *MenuHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *session.Session) {
		sess.Catalog.GoToNextPage()
	})
}

// PreviousPage handles POST /api/menus/pages/previous requests.
func (h *MenuHandler) PreviousPage(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *session.Session) {
		sess.Catalog.GoToPreviousPage()
	})
}

// respond loads the catalogue on first use, applies change and writes the page.
// A failed load is not an error: the page is simply empty.
func (h *MenuHandler) respond(w http.ResponseWriter, r *http.Request, change func(*session.Session)) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	_ = sess.Catalog.FetchMenus(r.Context())
	change(sess)

	writeJSON(w, http.StatusOK, sess.Catalog.Snapshot(), h.logger)
}
