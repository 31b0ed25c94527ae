package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venha/internal/delivery/http/middleware"
	"venha/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// envelope mirrors helpers.APIResponse for decoding in tests.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type fakeAuthService struct {
	host      *domain.Host
	token     string
	signUpErr error
	loginErr  error
	logoutErr error
	meErr     error

	loggedOutToken string
}

func (f *fakeAuthService) SignUp(ctx context.Context, email, password, name, whatsappNumber string) (*domain.Host, string, error) {
	if f.signUpErr != nil {
		return nil, "", f.signUpErr
	}
	return f.host, f.token, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*domain.Host, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.host, f.token, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	f.loggedOutToken = token
	return f.logoutErr
}

func (f *fakeAuthService) CurrentHost(ctx context.Context, hostID string) (*domain.Host, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.host, nil
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthController_SignUp(t *testing.T) {
	validBody := `{"email":"ana@example.com","password":"s3cret","name":"Ana","whatsapp_number":"+55"}`

	t.Run("success sets cookie and returns token", func(t *testing.T) {
		svc := &fakeAuthService{host: &domain.Host{ID: "host-1", Email: "ana@example.com", Name: "Ana"}, token: "tok-1"}
		c := NewAuthController(testLogger(), svc)

		w := httptest.NewRecorder()
		c.SignUp(w, httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(validBody)))

		require.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		require.Nil(t, env.Error)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "tok-1", resp.Token)
		assert.Equal(t, "host-1", resp.Host.ID)

		cookie := sessionCookie(t, w)
		require.NotNil(t, cookie)
		assert.Equal(t, "tok-1", cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("duplicate email", func(t *testing.T) {
		c := NewAuthController(testLogger(), &fakeAuthService{signUpErr: domain.ErrDuplicateEmail})

		w := httptest.NewRecorder()
		c.SignUp(w, httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(validBody)))

		require.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "conflict", env.Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		c := NewAuthController(testLogger(), &fakeAuthService{})

		w := httptest.NewRecorder()
		c.SignUp(w, httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(`{"email":"ana@example.com"}`)))

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		c := NewAuthController(testLogger(), &fakeAuthService{})

		body := `{"email":"a@b.co","password":"x","name":"A","whatsapp_number":"+55","admin":true}`
		w := httptest.NewRecorder()
		c.SignUp(w, httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(body)))

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthController_Login(t *testing.T) {
	t.Run("invalid credentials", func(t *testing.T) {
		c := NewAuthController(testLogger(), &fakeAuthService{loginErr: domain.ErrInvalidCredentials})

		body := `{"email":"ana@example.com","password":"wrong"}`
		w := httptest.NewRecorder()
		c.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body)))

		require.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "unauthorized", env.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		svc := &fakeAuthService{host: &domain.Host{ID: "host-1"}, token: "tok-1"}
		c := NewAuthController(testLogger(), svc)

		body := `{"email":"ana@example.com","password":"s3cret"}`
		w := httptest.NewRecorder()
		c.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body)))

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, sessionCookie(t, w))
	})
}

func TestAuthController_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	c := NewAuthController(testLogger(), svc)

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-1"})
	w := httptest.NewRecorder()
	c.Logout(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-1", svc.loggedOutToken)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthController_Me(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeAuthService{host: &domain.Host{ID: "host-1", Name: "Ana"}}
		c := NewAuthController(testLogger(), svc)

		r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		r = r.WithContext(middleware.SetHostID(r.Context(), "host-1"))
		w := httptest.NewRecorder()
		c.Me(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		var host domain.Host
		require.NoError(t, json.Unmarshal(env.Data, &host))
		assert.Equal(t, "Ana", host.Name)
	})

	t.Run("no session in context", func(t *testing.T) {
		c := NewAuthController(testLogger(), &fakeAuthService{})

		w := httptest.NewRecorder()
		c.Me(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("stale session host", func(t *testing.T) {
		c := NewAuthController(testLogger(), &fakeAuthService{meErr: domain.ErrHostNotFound})

		r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		r = r.WithContext(middleware.SetHostID(r.Context(), "gone"))
		w := httptest.NewRecorder()
		c.Me(w, r)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
