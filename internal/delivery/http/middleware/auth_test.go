package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venha/internal/domain"
)

type fakeVerifier struct {
	hostID string
	err    error
	token  string
}

func (f *fakeVerifier) VerifySession(ctx context.Context, token string) (string, error) {
	f.token = token
	if f.err != nil {
		return "", f.err
	}
	return f.hostID, nil
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
		r.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "cookie-token", TokenFromRequest(r))
	})

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "header-token", TokenFromRequest(r))
	})

	t.Run("nothing present", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, "", TokenFromRequest(r))
	})
}

func TestRequireSession(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		hostID, ok := HostIDFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Host-ID", hostID)
		w.WriteHeader(http.StatusOK)
	}

	t.Run("valid token sets the host id", func(t *testing.T) {
		verifier := &fakeVerifier{hostID: "host-1"}
		handler := RequireSession(verifier)(next)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "host-1", w.Header().Get("X-Host-ID"))
		assert.Equal(t, "good-token", verifier.token)
	})

	t.Run("missing token", func(t *testing.T) {
		handler := RequireSession(&fakeVerifier{hostID: "host-1"})(next)

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authentication required")
	})

	t.Run("bad session", func(t *testing.T) {
		handler := RequireSession(&fakeVerifier{err: domain.ErrSessionNotFound})(next)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired session")
	})
}
