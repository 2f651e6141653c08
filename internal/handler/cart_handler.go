package handler

import (
	"net/http"

	"wareg/internal/model"
	"wareg/internal/service"
	"wareg/internal/session"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	checkout service.CheckoutService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(checkout service.CheckoutService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		checkout: checkout,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Cart.Snapshot(), h.logger)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddToCartRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	item, ok := h.lookup(w, r, sess, req.MenuID)
	if !ok {
		return
	}

	sess.Cart.AddToCart(item, req.Quantity)
	writeJSON(w, http.StatusOK, sess.Cart.Snapshot(), h.logger)
}

// Increase handles POST /api/cart/items/{menuID}/increase requests.
func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(sess *session.Session, id int) {
		sess.Cart.IncreaseQuantity(id)
	})
}

// Decrease handles POST /api/cart/items/{menuID}/decrease requests.
func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(sess *session.Session, id int) {
		sess.Cart.DecreaseQuantity(id)
	})
}

// Remove handles DELETE /api/cart/items/{menuID} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(sess *session.Session, id int) {
		sess.Cart.RemoveFromCart(id)
	})
}

// SubmitItem handles POST /api/cart/orders requests: one unit is ordered
// upstream immediately and added to the cart when accepted.
func (h *CartHandler) SubmitItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req model.SubmitItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	item, ok := h.lookup(w, r, sess, req.MenuID)
	if !ok {
		return
	}

	if err := sess.Cart.AddToCartServer(r.Context(), item); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, sess.Cart.Snapshot(), h.logger)
}

// Checkout handles POST /api/cart/checkout requests. Per-line failures are
// reported in the body; the response is 200 whenever the run completed.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	result := h.checkout.Checkout(r.Context(), sess.Cart)
	writeJSON(w, http.StatusOK, result, h.logger)
}

func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, apply func(*session.Session, int)) {
	sess, ok := sessionFrom(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := menuIDParam(w, r, h.logger)
	if !ok {
		return
	}

	apply(sess, id)
	writeJSON(w, http.StatusOK, sess.Cart.Snapshot(), h.logger)
}

// lookup resolves a menu from the session's catalogue, loading it on first use.
func (h *CartHandler) lookup(w http.ResponseWriter, r *http.Request, sess *session.Session, menuID int) (model.MenuItem, bool) {
	_ = sess.Catalog.FetchMenus(r.Context())

	item, found := sess.Catalog.Lookup(menuID)
	if !found {
		writeError(w, http.StatusNotFound, model.ErrCodeMenuNotFound, model.ErrMenuNotFound.Message, h.logger)
		return model.MenuItem{}, false
	}
	return item, true
}
