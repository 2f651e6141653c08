package session

import (
	"context"
	"sync"
	"time"

	"wareg/internal/cart"
	"wareg/internal/catalog"
	"wareg/internal/metrics"
	"wareg/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const defaultFeedSize = 50

// Session is one browser session: a cart, a menu page and pending notifications.
type Session struct {
	ID      string
	Cart    *cart.Store
	Catalog *catalog.View
	Feed    *notify.Feed
	Limiter *rate.Limiter

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// RateLimit bounds requests per session. Zero RPS disables limiting.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Options configures the sessions a Manager creates.
type Options struct {
	IdleTimeout     time.Duration
	CountPolicy     cart.CountPolicy
	DuplicatePolicy cart.DuplicatePolicy
	PageSize        int
	QueryMode       catalog.QueryMode
	FeedSize        int
	RateLimit       RateLimit
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	orders      cart.OrderCreator
	menus       catalog.MenuSource
	subscribers []notify.Subscriber
	opts        Options
	logger      zerolog.Logger
	now         func() time.Time
}

// NewManager creates a manager. subscribers receive the events of every session.
func NewManager(
	orders cart.OrderCreator,
	menus catalog.MenuSource,
	opts Options,
	logger zerolog.Logger,
	subscribers ...notify.Subscriber,
) *Manager {
	if opts.FeedSize < 1 {
		opts.FeedSize = defaultFeedSize
	}

	return &Manager{
		sessions:    make(map[string]*Session),
		orders:      orders,
		menus:       menus,
		subscribers: subscribers,
		opts:        opts,
		logger:      logger.With().Str("component", "session").Logger(),
		now:         time.Now,
	}
}

// Create starts a new session with a fresh id.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	feed := notify.NewFeed(m.opts.FeedSize)

	bus := notify.NewBus(m.subscribers...)
	bus.Subscribe(feed)

	sess := &Session{
		ID: id,
		Cart: cart.NewStore(m.orders, bus, cart.Options{
			SessionID:       id,
			CountPolicy:     m.opts.CountPolicy,
			DuplicatePolicy: m.opts.DuplicatePolicy,
		}, m.logger),
		Catalog: catalog.NewView(m.menus, bus, catalog.Options{
			SessionID: id,
			PageSize:  m.opts.PageSize,
			QueryMode: m.opts.QueryMode,
		}, m.logger),
		Feed:     feed,
		lastSeen: m.now(),
	}
	if m.opts.RateLimit.RPS > 0 {
		sess.Limiter = rate.NewLimiter(rate.Limit(m.opts.RateLimit.RPS), m.opts.RateLimit.Burst)
	}

	m.mu.Lock()
	m.sessions[id] = sess
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	m.logger.Debug().Str("session_id", id).Msg("session created")

	return sess
}

// Get returns a live session and marks it used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}

	sess.touch(m.now())
	return sess, true
}

// GetOrCreate returns the session for id, or a new one when id is unknown.
func (m *Manager) GetOrCreate(id string) (sess *Session, created bool) {
	if id != "" {
		if sess, ok := m.Get(id); ok {
			return sess, false
		}
	}
	return m.Create(), true
}

// Delete ends a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if ok {
		metrics.ActiveSessions.Set(float64(count))
		m.logger.Debug().Str("session_id", id).Msg("session ended")
	}
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep ends every session idle for longer than the idle timeout and returns how many were ended.
func (m *Manager) Sweep() int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}

	cutoff := m.now().Add(-m.opts.IdleTimeout)

	m.mu.Lock()
	removed := 0
	for id, sess := range m.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		metrics.ActiveSessions.Set(float64(count))
		m.logger.Info().Int("expired", removed).Int("active", count).Msg("idle sessions expired")
	}

	return removed
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	if m.opts.IdleTimeout <= 0 {
		return
	}

	interval := max(m.opts.IdleTimeout/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
