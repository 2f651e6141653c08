package repository

import (
	"context"
	"testing"
	"time"

	"wareg/internal/database"
	"wareg/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container with the journal schema.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func strPtr(s string) *string {
	return &s
}

func TestCheckoutRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.NoError(t, tx.Rollback(ctx))
}

func TestCheckoutRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(pool, zerolog.Nop())
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Microsecond)
	checkout := &model.CheckoutRecord{
		ID:        uuid.New(),
		SessionID: "sess-1",
		StartedAt: started,
		EndedAt:   started.Add(2 * time.Second),
	}
	lines := []model.CheckoutLineRecord{
		{ID: uuid.New(), CheckoutID: checkout.ID, Position: 1, MenuID: 12, Name: "Es Teh", Quantity: 1, Succeeded: false, Error: strPtr("status 500")},
		{ID: uuid.New(), CheckoutID: checkout.ID, Position: 0, MenuID: 7, Name: "Nasi Goreng", Quantity: 2, Succeeded: true},
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateCheckout(ctx, tx, checkout))
	require.NoError(t, repo.CreateCheckoutLines(ctx, tx, lines))
	require.NoError(t, tx.Commit(ctx))

	got, gotLines, err := repo.GetByID(ctx, checkout.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, checkout.ID, got.ID)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.True(t, checkout.StartedAt.Equal(got.StartedAt))
	assert.True(t, checkout.EndedAt.Equal(got.EndedAt))

	require.Len(t, gotLines, 2)
	assert.Equal(t, 0, gotLines[0].Position)
	assert.Equal(t, 7, gotLines[0].MenuID)
	assert.True(t, gotLines[0].Succeeded)
	assert.Nil(t, gotLines[0].Error)
	assert.Equal(t, 1, gotLines[1].Position)
	require.NotNil(t, gotLines[1].Error)
	assert.Equal(t, "status 500", *gotLines[1].Error)
}

func TestCheckoutRepository_CreateCheckoutLines_Empty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	assert.NoError(t, repo.CreateCheckoutLines(ctx, tx, nil))
}

func TestCheckoutRepository_CreateCheckoutLines_UnknownCheckout(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = repo.CreateCheckoutLines(ctx, tx, []model.CheckoutLineRecord{
		{ID: uuid.New(), CheckoutID: uuid.New(), Position: 0, MenuID: 1, Name: "x", Quantity: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create checkout line")
}

func TestCheckoutRepository_RollbackDiscardsCheckout(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(pool, zerolog.Nop())
	ctx := context.Background()

	checkout := &model.CheckoutRecord{ID: uuid.New(), SessionID: "sess-2", StartedAt: time.Now(), EndedAt: time.Now()}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateCheckout(ctx, tx, checkout))
	require.NoError(t, tx.Rollback(ctx))

	got, lines, err := repo.GetByID(ctx, checkout.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, lines)
}

func TestCheckoutRepository_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(pool, zerolog.Nop())

	got, lines, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, lines)
}
