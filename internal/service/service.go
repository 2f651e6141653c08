package service

import (
	"context"

	"wareg/internal/model"

	"github.com/google/uuid"
)

// JournalService records checkout outcomes.
type JournalService interface {
	// Record stores a checkout result with all its line outcomes.
	Record(ctx context.Context, result *model.CheckoutResult) error

	// GetByID retrieves a recorded checkout. It returns nil, nil when the
	// checkout does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutResponse, error)
}

// CheckoutService runs a cart checkout and journals the outcome.
type CheckoutService interface {
	// Checkout submits every cart line and returns the per-line outcomes.
	Checkout(ctx context.Context, cart CartCheckout) *model.CheckoutResult
}

// CartCheckout is the part of a cart a checkout needs.
type CartCheckout interface {
	Checkout(ctx context.Context) *model.CheckoutResult
}
