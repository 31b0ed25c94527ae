package middleware

import (
	"context"
	"net/http"
	"strings"

	h "venha/internal/delivery/http/helpers"
	"venha/internal/domain"
)

type contextKey string

const hostIDKey contextKey = "hostID"

// SessionCookieName is the cookie the API sets on login/signup. A Bearer
// token in the Authorization header works too.
const SessionCookieName = "venha_session"

// SetHostID returns a context with the host ID set. Used by auth middleware.
func SetHostID(ctx context.Context, hostID string) context.Context {
	return context.WithValue(ctx, hostIDKey, hostID)
}

// HostIDFromContext returns the authenticated host ID from the context, if present.
func HostIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(hostIDKey).(string)
	return id, ok
}

// TokenFromRequest extracts the session token from the session cookie or an
// Authorization: Bearer header. Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// RequireSession returns a wrapper that resolves the session token to a host
// and sets the host ID in the request context. If there is no usable session,
// it responds with 401 and does not call next.
func RequireSession(verifier domain.SessionVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
				return
			}
			hostID, err := verifier.VerifySession(r.Context(), token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired session")
				return
			}
			r = r.WithContext(SetHostID(r.Context(), hostID))
			next(w, r)
		}
	}
}
