package middleware

import (
	"net/http"

	"wareg/internal/session"
	"wareg/internal/upstream"

	"github.com/rs/zerolog"
)

// SessionStore resolves the session for a cookie value.
type SessionStore interface {
	GetOrCreate(id string) (*session.Session, bool)
}

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// Session attaches the caller's session to the request context, issuing a new
// session cookie when the request has none or names an unknown session.
func Session(store SessionStore, opts CookieOptions, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(opts.Name); err == nil {
				id = c.Value
			}

			sess, created := store.GetOrCreate(id)
			if created {
				if id != "" {
					logger.Debug().Str("path", r.URL.Path).Msg("unknown session cookie, issuing new session")
				}
				http.SetCookie(w, &http.Cookie{
					Name:     opts.Name,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// BearerToken copies the credential cookie of each request into the request
// context for upstream calls. A missing cookie leaves the context unchanged.
func BearerToken(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(upstream.WithToken(r.Context(), c.Value)))
		})
	}
}
