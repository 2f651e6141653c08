package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"wareg/internal/catalog"
	"wareg/internal/config"
	"wareg/internal/database"
	"wareg/internal/handler"
	"wareg/internal/middleware"
	"wareg/internal/model"
	"wareg/internal/notify"
	"wareg/internal/repository"
	"wareg/internal/router"
	"wareg/internal/service"
	"wareg/internal/session"
	"wareg/internal/upstream"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// SetupTestDB creates a PostgreSQL test container with the journal schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Enabled:         true,
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
	}
}

// CleanupDB cleans all data from journal tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"checkout_lines", "checkouts"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// FakeAPI is an httptest stand-in for the remote menu/order API.
type FakeAPI struct {
	*httptest.Server

	mu         sync.Mutex
	menus      []model.MenuItem
	menuStatus int
	failing    map[int]int
	menuCalls  int
	orders     []model.OrderRequest
	authHeader []string
}

// NewFakeAPI starts a fake API serving menus.
func NewFakeAPI(t *testing.T, menus []model.MenuItem) *FakeAPI {
	t.Helper()

	api := &FakeAPI{menus: menus, failing: map[int]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /menus", api.handleMenus)
	mux.HandleFunc("POST /orders", api.handleOrders)

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)

	return api
}

// FailMenus makes GET /menus answer with status.
func (a *FakeAPI) FailMenus(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.menuStatus = status
}

// FailOrder makes POST /orders for menuID answer with status.
func (a *FakeAPI) FailOrder(menuID, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failing[menuID] = status
}

// Orders returns the received order bodies.
func (a *FakeAPI) Orders() []model.OrderRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.OrderRequest(nil), a.orders...)
}

// AuthHeaders returns the Authorization header of every order request.
func (a *FakeAPI) AuthHeaders() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.authHeader...)
}

// MenuCalls returns how many times the menus were requested.
func (a *FakeAPI) MenuCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.menuCalls
}

func (a *FakeAPI) handleMenus(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.menuCalls++
	status := a.menuStatus
	menus := a.menus
	a.mu.Unlock()

	if status != 0 {
		http.Error(w, "menus unavailable", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(model.MenusResponse{Menus: menus})
}

func (a *FakeAPI) handleOrders(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	a.orders = append(a.orders, req)
	a.authHeader = append(a.authHeader, r.Header.Get("Authorization"))
	status := 0
	if len(req.OrderItems) > 0 {
		status = a.failing[req.OrderItems[0].MenuID]
	}
	a.mu.Unlock()

	if status != 0 {
		http.Error(w, "order rejected", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`{"message":"Order created"}`))
}

// ServerOptions configures NewTestServer.
type ServerOptions struct {
	Pool       *pgxpool.Pool
	Session    session.Options
	Breaker    *upstream.BreakerConfig
	Snapshot   []model.MenuItem
	APITimeout time.Duration
}

// NewTestServer wires the storefront the way the binary does and serves it over HTTP.
func NewTestServer(t *testing.T, apiURL string, opts ServerOptions) (*httptest.Server, *session.Manager) {
	t.Helper()

	logger := zerolog.Nop()

	var api upstream.Client = upstream.NewHTTPClient(apiURL, opts.APITimeout, logger)
	if opts.Breaker != nil {
		api = upstream.NewBreakerClient(api, *opts.Breaker, logger)
	}

	var snapshot catalog.MenuSource
	if opts.Snapshot != nil {
		snapshot = menuList(opts.Snapshot)
	}
	menus := service.NewMenuService(api, snapshot, logger)

	journal := service.NewDisabledJournal()
	if opts.Pool != nil {
		journal = service.NewJournalService(repository.NewCheckoutRepository(opts.Pool, logger), logger)
	}

	sessions := session.NewManager(api, menus, opts.Session, logger, notify.LogSubscriber(logger))

	handlers := router.Handlers{
		Menu:     handler.NewMenuHandler(logger),
		Cart:     handler.NewCartHandler(service.NewCheckoutService(journal, logger), logger),
		Checkout: handler.NewCheckoutHandler(journal, logger),
		Session:  handler.NewSessionHandler(sessions, "sid", false, logger),
	}

	srv := httptest.NewServer(router.New(handlers, router.Options{
		Sessions:    sessions,
		Cookie:      middleware.CookieOptions{Name: "sid"},
		TokenCookie: "token",
	}, logger))
	t.Cleanup(srv.Close)

	return srv, sessions
}

type menuList []model.MenuItem

func (m menuList) ListMenus(context.Context) ([]model.MenuItem, error) {
	return m, nil
}
