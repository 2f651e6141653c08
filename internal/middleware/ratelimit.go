package middleware

import (
	"net/http"

	"wareg/internal/model"
	"wareg/internal/session"

	"github.com/rs/zerolog"
)

// RateLimit rejects requests beyond the session's limiter with 429. Sessions
// without a limiter are not limited. Must run after Session.
func RateLimit(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || sess.Limiter == nil || sess.Limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn().
				Str("session_id", sess.ID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("rate limit exceeded")

			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, model.ErrCodeRateLimited, "too many requests")
		})
	}
}
