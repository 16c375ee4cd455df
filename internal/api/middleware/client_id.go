package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cacildafilmes/cacilda/internal/cache"
)

// ClientCookieName identifies a browser across chat turns.
const ClientCookieName = "cacilda_client"

const clientCookieMaxAge = 365 * 24 * time.Hour

// ClientID puts the browser id from a valid cookie on the request context for
// the answer cache. A request without one gets a fresh cookie for its next turn
// but no id on this one, so callers that never send cookies stay uncached.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(ClientCookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(cache.WithClientID(r.Context(), parsed.String())))
				return
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     ClientCookieName,
			Value:    uuid.NewString(),
			Path:     "/",
			MaxAge:   int(clientCookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r)
	})
}
