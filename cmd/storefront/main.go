package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wareg/internal/cart"
	"wareg/internal/catalog"
	"wareg/internal/config"
	"wareg/internal/database"
	"wareg/internal/handler"
	"wareg/internal/metrics"
	"wareg/internal/middleware"
	"wareg/internal/notify"
	"wareg/internal/repository"
	"wareg/internal/router"
	"wareg/internal/service"
	"wareg/internal/session"
	"wareg/internal/snapshot"
	"wareg/internal/upstream"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("upstream", cfg.Upstream.BaseURL).Msg("starting wareg storefront")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Upstream menu/order API, optionally behind a circuit breaker
	httpClient := upstream.NewHTTPClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger)
	var api upstream.Client = httpClient
	if cfg.Upstream.BreakerEnabled {
		api = upstream.NewBreakerClient(httpClient, upstream.BreakerConfig{
			Name:         "menu-order-api",
			MinRequests:  cfg.Upstream.BreakerMinRequests,
			FailureRatio: cfg.Upstream.BreakerFailureRatio,
			OpenTimeout:  cfg.Upstream.BreakerOpenTimeout,
		}, logger)
	}

	// Menu source with optional snapshot fallback
	menus := service.NewMenuService(api, newSnapshotSource(ctx, cfg.Snapshot, logger), logger)

	// Checkout journal
	journal := service.NewDisabledJournal()
	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		journal = service.NewJournalService(repository.NewCheckoutRepository(pool, logger), logger)
	} else {
		logger.Info().Msg("checkout journal disabled")
	}

	// Sessions
	var limit session.RateLimit
	if cfg.RateLimit.Enabled {
		limit = session.RateLimit{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst}
	}
	sessions := session.NewManager(api, menus, session.Options{
		IdleTimeout:     cfg.Session.IdleTimeout,
		CountPolicy:     cart.CountPolicy(cfg.Cart.CountMode),
		DuplicatePolicy: cart.DuplicatePolicy(cfg.Cart.DuplicateMode),
		PageSize:        cfg.Catalog.PageSize,
		QueryMode:       catalog.QueryMode(cfg.Catalog.QueryMode),
		RateLimit:       limit,
	}, logger, notify.LogSubscriber(logger), metrics.Subscriber())
	go sessions.Run(ctx)

	var clientLimit *middleware.ClientLimiter
	if cfg.RateLimit.Enabled {
		clientLimit = middleware.NewClientLimiter(middleware.ClientLimiterOptions{
			RPS:            cfg.RateLimit.ClientRPS,
			Burst:          cfg.RateLimit.ClientBurst,
			TTL:            cfg.RateLimit.ClientTTL,
			TrustForwarded: cfg.RateLimit.TrustForwarded,
		})
		go clientLimit.Run(ctx)
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Menu:     handler.NewMenuHandler(logger),
		Cart:     handler.NewCartHandler(service.NewCheckoutService(journal, logger), logger),
		Checkout: handler.NewCheckoutHandler(journal, logger),
		Session:  handler.NewSessionHandler(sessions, cfg.Session.CookieName, cfg.Session.SecureCookie, logger),
	}

	// Initialize router
	mux := router.New(handlers, router.Options{
		Sessions:    sessions,
		Cookie:      middleware.CookieOptions{Name: cfg.Session.CookieName, Secure: cfg.Session.SecureCookie},
		TokenCookie: cfg.Session.TokenCookie,
		ClientLimit: clientLimit,
	}, logger)

	// Create HTTP server. No write timeout: a checkout runs every line to completion.
	server := &http.Server{
		Addr:        cfg.Server.Address(),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newSnapshotSource returns the snapshot menu source, or nil when snapshots are disabled.
func newSnapshotSource(ctx context.Context, cfg config.SnapshotConfig, logger zerolog.Logger) catalog.MenuSource {
	if !cfg.Enabled {
		return nil
	}

	fileLoader := snapshot.NewFileLoader(logger)
	var s3Loader snapshot.Loader

	if cfg.S3Enabled {
		loader, err := snapshot.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for menu snapshot (S3 disabled)")
	}

	loader := snapshot.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, s3Loader != nil, logger)
	return snapshot.NewSource(loader, cfg.Path)
}
