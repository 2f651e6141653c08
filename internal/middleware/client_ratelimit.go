package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"wareg/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ClientLimiterOptions configures a ClientLimiter.
type ClientLimiterOptions struct {
	RPS   float64
	Burst int
	// TTL evicts clients not seen for this long. Zero means three minutes.
	TTL time.Duration
	// TrustForwarded takes the client address from X-Forwarded-For or X-Real-IP.
	// Only enable it behind a proxy that sets those headers.
	TrustForwarded bool
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps a token bucket per client IP.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	opts    ClientLimiterOptions
	now     func() time.Time
}

// NewClientLimiter creates an empty limiter. Call Run to evict idle clients.
func NewClientLimiter(opts ClientLimiterOptions) *ClientLimiter {
	if opts.TTL <= 0 {
		opts.TTL = 3 * time.Minute
	}
	return &ClientLimiter{
		clients: make(map[string]*client),
		opts:    opts,
		now:     time.Now,
	}
}

// Allow reports whether a request from ip may proceed.
func (l *ClientLimiter) Allow(ip string) bool {
	l.mu.Lock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.opts.RPS), l.opts.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = l.now()
	l.mu.Unlock()

	return c.limiter.Allow()
}

// Len returns the number of tracked clients.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Sweep evicts clients idle for longer than the TTL.
func (l *ClientLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.opts.TTL)
	removed := 0
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

// Run sweeps idle clients until ctx is done.
func (l *ClientLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.opts.TTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// ClientIP returns the address a request is limited by.
func (l *ClientLimiter) ClientIP(r *http.Request) string {
	if l.opts.TrustForwarded {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientRateLimit rejects requests beyond the client's limiter with 429. It
// runs before Session so rejected requests never create a session.
func ClientRateLimit(limiter *ClientLimiter, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := limiter.ClientIP(r)
			if limiter.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn().
				Str("ip", ip).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("client rate limit exceeded")

			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, model.ErrCodeRateLimited, "too many requests")
		})
	}
}
