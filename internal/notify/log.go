package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSubscriber writes every event to logger. Failures are logged at warn level.
func LogSubscriber(logger zerolog.Logger) Subscriber {
	logger = logger.With().Str("component", "notify").Logger()

	return SubscriberFunc(func(_ context.Context, e Event) {
		ev := logger.Info()
		if !e.Success {
			ev = logger.Warn().Err(e.Err)
		}

		ev.Str("kind", string(e.Kind)).
			Str("session_id", e.SessionID).
			Int("menu_id", e.MenuID).
			Int("quantity", e.Quantity).
			Msg("storefront event")
	})
}
