package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderRequest is the body of POST /orders on the remote API.
type OrderRequest struct {
	OrderItems []OrderItemRequest `json:"orderItems"`
}

// OrderItemRequest is a single line of an upstream order.
type OrderItemRequest struct {
	MenuID   int `json:"menuId"`
	Quantity int `json:"quantity"`
}

// LineOutcome records the result of submitting one cart line.
type LineOutcome struct {
	MenuID    int    `json:"menuId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

// CheckoutResult summarises a checkout run. The cart is cleared regardless of outcome.
type CheckoutResult struct {
	ID        uuid.UUID     `json:"id"`
	SessionID string        `json:"sessionId,omitempty"`
	Lines     []LineOutcome `json:"lines"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   time.Time     `json:"endedAt"`
}

// Succeeded returns the number of lines accepted upstream.
func (r *CheckoutResult) Succeeded() int {
	n := 0
	for _, l := range r.Lines {
		if l.Succeeded {
			n++
		}
	}
	return n
}

// Failed returns the number of lines rejected or not delivered.
func (r *CheckoutResult) Failed() int {
	return len(r.Lines) - r.Succeeded()
}

// CheckoutRecord is a journalled checkout row.
type CheckoutRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID string    `json:"sessionId" db:"session_id"`
	StartedAt time.Time `json:"startedAt" db:"started_at"`
	EndedAt   time.Time `json:"endedAt" db:"ended_at"`
}

// CheckoutLineRecord is a journalled line outcome row.
type CheckoutLineRecord struct {
	ID         uuid.UUID `json:"-" db:"id"`
	CheckoutID uuid.UUID `json:"-" db:"checkout_id"`
	Position   int       `json:"position" db:"position"`
	MenuID     int       `json:"menuId" db:"menu_id"`
	Name       string    `json:"name" db:"name"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Succeeded  bool      `json:"succeeded" db:"succeeded"`
	Error      *string   `json:"error,omitempty" db:"error"`
}

// CheckoutResponse is the journal lookup payload.
type CheckoutResponse struct {
	CheckoutRecord
	Lines []CheckoutLineRecord `json:"lines"`
}
