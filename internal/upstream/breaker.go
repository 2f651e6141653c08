package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wareg/internal/metrics"
	"wareg/internal/model"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	Name         string
	MinRequests  uint32
	FailureRatio float64
	OpenTimeout  time.Duration
}

// BreakerClient guards a Client with a circuit breaker. Rejections (4xx) do not
// count as failures, nor do cancelled requests; transport errors and 5xx answers do.
type BreakerClient struct {
	next    Client
	breaker *gobreaker.CircuitBreaker[[]model.MenuItem]
	name    string
	logger  zerolog.Logger
}

// NewBreakerClient wraps next with a circuit breaker.
func NewBreakerClient(next Client, cfg BreakerConfig, logger zerolog.Logger) *BreakerClient {
	logger = logger.With().Str("component", "upstream_breaker").Str("breaker", cfg.Name).Logger()

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: isSuccessful,
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerClient{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[[]model.MenuItem](settings),
		name:    cfg.Name,
		logger:  logger,
	}
}

// ListMenus calls the wrapped client through the breaker.
func (c *BreakerClient) ListMenus(ctx context.Context) ([]model.MenuItem, error) {
	menus, err := c.breaker.Execute(func() ([]model.MenuItem, error) {
		return c.next.ListMenus(ctx)
	})
	return menus, c.translate(err)
}

// CreateOrder calls the wrapped client through the breaker.
func (c *BreakerClient) CreateOrder(ctx context.Context, req model.OrderRequest) error {
	_, err := c.breaker.Execute(func() ([]model.MenuItem, error) {
		return nil, c.next.CreateOrder(ctx, req)
	})
	return c.translate(err)
}

// State returns the current breaker state.
func (c *BreakerClient) State() gobreaker.State {
	return c.breaker.State()
}

func (c *BreakerClient) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Debug().Err(err).Msg("request short-circuited")
		return fmt.Errorf("%w: %w", model.ErrUpstreamUnavailable, err)
	}
	return err
}

// isSuccessful treats caller cancellation as neutral: a client hanging up says
// nothing about the upstream's health.
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return !statusErr.Temporary()
	}
	return false
}

// stateToFloat maps gobreaker states to prometheus gauge values.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
