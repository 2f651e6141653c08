package repository

import (
	"context"
	"errors"
	"fmt"

	"wareg/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// checkoutRepository implements CheckoutRepository using PostgreSQL.
type checkoutRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCheckoutRepository creates a new PostgreSQL-backed checkout repository.
func NewCheckoutRepository(pool *pgxpool.Pool, logger zerolog.Logger) CheckoutRepository {
	return &checkoutRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "checkout").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *checkoutRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateCheckout inserts a checkout within the provided transaction.
func (r *checkoutRepository) CreateCheckout(ctx context.Context, tx pgx.Tx, checkout *model.CheckoutRecord) error {
	query := `
		INSERT INTO checkouts (id, session_id, started_at, ended_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.Exec(ctx, query, checkout.ID, checkout.SessionID, checkout.StartedAt, checkout.EndedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("checkout_id", checkout.ID.String()).
			Msg("failed to create checkout")
		return fmt.Errorf("failed to create checkout: %w", err)
	}

	return nil
}

// CreateCheckoutLines inserts line outcomes within the provided transaction.
func (r *checkoutRepository) CreateCheckoutLines(ctx context.Context, tx pgx.Tx, lines []model.CheckoutLineRecord) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO checkout_lines (id, checkout_id, position, menu_id, name, quantity, succeeded, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query,
			line.ID,
			line.CheckoutID,
			line.Position,
			line.MenuID,
			line.Name,
			line.Quantity,
			line.Succeeded,
			line.Error,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range lines {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("checkout_id", lines[i].CheckoutID.String()).
				Int("position", lines[i].Position).
				Msg("failed to create checkout line")
			return fmt.Errorf("failed to create checkout line: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(lines)).
		Msg("checkout lines created successfully")

	return nil
}

// GetByID retrieves a checkout with its lines ordered by position.
func (r *checkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutRecord, []model.CheckoutLineRecord, error) {
	checkoutQuery := `
		SELECT id, session_id, started_at, ended_at
		FROM checkouts
		WHERE id = $1
	`

	var checkout model.CheckoutRecord
	err := r.pool.QueryRow(ctx, checkoutQuery, id).Scan(
		&checkout.ID,
		&checkout.SessionID,
		&checkout.StartedAt,
		&checkout.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("checkout_id", id.String()).Msg("checkout not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("checkout_id", id.String()).Msg("failed to query checkout")
		return nil, nil, fmt.Errorf("failed to query checkout: %w", err)
	}

	linesQuery := `
		SELECT id, checkout_id, position, menu_id, name, quantity, succeeded, error
		FROM checkout_lines
		WHERE checkout_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, linesQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("checkout_id", id.String()).
			Msg("failed to query checkout lines")
		return nil, nil, fmt.Errorf("failed to query checkout lines: %w", err)
	}
	defer rows.Close()

	lines := []model.CheckoutLineRecord{}
	for rows.Next() {
		var line model.CheckoutLineRecord
		err := rows.Scan(
			&line.ID,
			&line.CheckoutID,
			&line.Position,
			&line.MenuID,
			&line.Name,
			&line.Quantity,
			&line.Succeeded,
			&line.Error,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan checkout line row")
			return nil, nil, fmt.Errorf("failed to scan checkout line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating checkout line rows")
		return nil, nil, fmt.Errorf("error iterating checkout lines: %w", err)
	}

	return &checkout, lines, nil
}
