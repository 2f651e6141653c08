package service

import (
	"context"

	"wareg/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockCheckoutRepository is a mock implementation of CheckoutRepository.
type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCheckoutRepository) CreateCheckout(ctx context.Context, tx pgx.Tx, checkout *model.CheckoutRecord) error {
	args := m.Called(ctx, tx, checkout)
	return args.Error(0)
}

func (m *MockCheckoutRepository) CreateCheckoutLines(ctx context.Context, tx pgx.Tx, lines []model.CheckoutLineRecord) error {
	args := m.Called(ctx, tx, lines)
	return args.Error(0)
}

func (m *MockCheckoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutRecord, []model.CheckoutLineRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.CheckoutRecord), args.Get(1).([]model.CheckoutLineRecord), args.Error(2)
}

// MockMenuSource is a mock implementation of catalog.MenuSource.
type MockMenuSource struct {
	mock.Mock
}

func (m *MockMenuSource) ListMenus(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

// MockJournal is a mock implementation of JournalService.
type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Record(ctx context.Context, result *model.CheckoutResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockJournal) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

type stubCart struct {
	result *model.CheckoutResult
	ctxErr error
}

func (c *stubCart) Checkout(ctx context.Context) *model.CheckoutResult {
	c.ctxErr = ctx.Err()
	return c.result
}
