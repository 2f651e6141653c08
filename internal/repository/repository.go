package repository

import (
	"context"

	"wareg/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CheckoutRepository defines data access for the checkout journal.
type CheckoutRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateCheckout inserts a checkout within the provided transaction.
	CreateCheckout(ctx context.Context, tx pgx.Tx, checkout *model.CheckoutRecord) error

	// CreateCheckoutLines inserts line outcomes within the provided transaction.
	CreateCheckoutLines(ctx context.Context, tx pgx.Tx, lines []model.CheckoutLineRecord) error

	// GetByID retrieves a checkout with its lines ordered by position.
	// It returns nil, nil, nil when the checkout does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutRecord, []model.CheckoutLineRecord, error)
}
