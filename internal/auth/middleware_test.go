package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techblog/internal/model"
)

// fakeTokenStore is an in-memory stand-in for the redis token store.
type fakeTokenStore struct {
	blacklisted map[string]bool
	sessions    map[string]SessionData
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		blacklisted: make(map[string]bool),
		sessions:    make(map[string]SessionData),
	}
}

func (f *fakeTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, data SessionData, ttl time.Duration) error {
	f.sessions[tokenID] = data
	return nil
}

func (f *fakeTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (*SessionData, error) {
	data, ok := f.sessions[tokenID]
	if !ok {
		return nil, errNoSession
	}
	return &data, nil
}

func (f *fakeTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	delete(f.sessions, tokenID)
	return nil
}

func (f *fakeTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	f.blacklisted[tokenID] = true
	return nil
}

func (f *fakeTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	return f.blacklisted[tokenID], nil
}

var errNoSession = errors.New("session not found")

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func request(t *testing.T, e *echo.Echo, h echo.HandlerFunc, mw []echo.MiddlewareFunc, token, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	wrapped := h
	for i := len(mw) - 1; i >= 0; i-- {
		wrapped = mw[i](wrapped)
	}
	if err := wrapped(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestGuard_RequireAuth(t *testing.T) {
	e := echo.New()
	jwtService := NewJWTService("test-secret")
	store := newFakeTokenStore()
	guard := NewGuard(jwtService, store)
	userID := uuid.New()

	t.Run("missing token fails with 401", func(t *testing.T) {
		rec := request(t, e, okHandler, []echo.MiddlewareFunc{guard.RequireAuth}, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token fails with 401", func(t *testing.T) {
		rec := request(t, e, okHandler, []echo.MiddlewareFunc{guard.RequireAuth}, "garbage", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token attaches the subject", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "a@b.com", model.RoleUser)
		require.NoError(t, err)

		handler := func(c echo.Context) error {
			subject := SubjectFrom(c)
			require.NotNil(t, subject)
			assert.Equal(t, userID, subject.UserID)
			assert.Equal(t, model.RoleUser, subject.Role)
			return c.String(http.StatusOK, "ok")
		}
		rec := request(t, e, handler, []echo.MiddlewareFunc{guard.RequireAuth}, token, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("blacklisted token fails with 401", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(userID, "a@b.com", model.RoleUser)
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		require.NoError(t, store.BlacklistAccessToken(context.Background(), claims.ID, time.Minute))

		rec := request(t, e, okHandler, []echo.MiddlewareFunc{guard.RequireAuth}, token, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGuard_RequireRole(t *testing.T) {
	e := echo.New()
	jwtService := NewJWTService("test-secret")
	guard := NewGuard(jwtService, newFakeTokenStore())
	mw := []echo.MiddlewareFunc{guard.RequireRole(model.RoleAdmin)}

	t.Run("anonymous request fails with 401", func(t *testing.T) {
		rec := request(t, e, okHandler, mw, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated non-admin fails with 403", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(uuid.New(), "user@b.com", model.RoleUser)
		require.NoError(t, err)

		rec := request(t, e, okHandler, mw, token, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(uuid.New(), "admin@b.com", model.RoleAdmin)
		require.NoError(t, err)

		rec := request(t, e, okHandler, mw, token, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGuard_SessionGate(t *testing.T) {
	e := echo.New()
	jwtService := NewJWTService("test-secret")
	guard := NewGuard(jwtService, newFakeTokenStore())
	mw := []echo.MiddlewareFunc{guard.SessionGate("/login", "/"), guard.RequireRole(model.RoleAdmin)}

	t.Run("unauthenticated browser is redirected to login", func(t *testing.T) {
		rec := request(t, e, okHandler, mw, "", echo.MIMETextHTML)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("non-admin browser is redirected home", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(uuid.New(), "user@b.com", model.RoleUser)
		require.NoError(t, err)

		rec := request(t, e, okHandler, mw, token, echo.MIMETextHTML)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("admin browser proceeds", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(uuid.New(), "admin@b.com", model.RoleAdmin)
		require.NoError(t, err)

		rec := request(t, e, okHandler, mw, token, echo.MIMETextHTML)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unauthenticated API client gets 401, not a redirect", func(t *testing.T) {
		rec := request(t, e, okHandler, mw, "", echo.MIMEApplicationJSON)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
