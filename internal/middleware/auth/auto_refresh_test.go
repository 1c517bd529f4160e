package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/auth"
	"github.com/handsnminds/platform/internal/models"
)

func newTestService(t *testing.T) *auth.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return &auth.Service{
		Repo: auth.GormRepo{
			DB:            db,
			JWTSecret:     []byte("jwt-secret"),
			RefreshSecret: []byte("refresh-secret"),
		},
		Notifier: auth.NewNotifier(),
	}
}

func login(t *testing.T, svc *auth.Service) *auth.Session {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Register(ctx, "user@example.com", "password")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "user@example.com", "password")
	require.NoError(t, err)
	return session
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder, error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, rec, err, called
}

func TestRequireAuthValidToken(t *testing.T) {
	svc := newTestService(t)
	session := login(t, svc)
	m := NewAutoRefreshMiddleware(svc.Repo.JWTSecret, svc)

	c, _, err, called := invoke(t, m.RequireAuth,
		&http.Cookie{Name: "accessToken", Value: session.AccessToken},
	)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, session.UserID.String(), c.Get("user_id"))
	assert.Equal(t, "customer", c.Get("role"))
}

func TestRequireAuthMissingToken(t *testing.T) {
	svc := newTestService(t)
	m := NewAutoRefreshMiddleware(svc.Repo.JWTSecret, svc)

	_, _, err, called := invoke(t, m.RequireAuth)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.False(t, called)
}

func TestRequireAuthGarbageTokenClearsCookies(t *testing.T) {
	svc := newTestService(t)
	m := NewAutoRefreshMiddleware(svc.Repo.JWTSecret, svc)

	_, rec, err, called := invoke(t, m.RequireAuth,
		&http.Cookie{Name: "accessToken", Value: "garbage"},
	)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.False(t, called)

	cleared := 0
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Value == "" && cookie.MaxAge < 0 {
			cleared++
		}
	}
	assert.Equal(t, 2, cleared)
}

func TestRequireAuthAutoRefreshesExpiredAccess(t *testing.T) {
	svc := newTestService(t)
	session := login(t, svc)
	m := NewAutoRefreshMiddleware(svc.Repo.JWTSecret, svc)

	expired, err := svc.CreateAccessToken("customer", session.UserID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)

	c, rec, err, called := invoke(t, m.RequireAuth,
		&http.Cookie{Name: "accessToken", Value: expired},
		&http.Cookie{Name: "refreshToken", Value: session.RefreshToken},
	)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, session.UserID.String(), c.Get("user_id"))

	fresh := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Value != "" {
			fresh[cookie.Name] = true
		}
	}
	assert.True(t, fresh["accessToken"])
	assert.True(t, fresh["refreshToken"])
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	svc := newTestService(t)
	session := login(t, svc)
	m := NewAutoRefreshMiddleware(svc.Repo.JWTSecret, svc)

	_, _, err, called := invoke(t, m.RequireAdmin,
		&http.Cookie{Name: "accessToken", Value: session.AccessToken},
	)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.False(t, called)
}

func TestRoleValidatorsAdmitAdmin(t *testing.T) {
	svc := newTestService(t)
	session := login(t, svc)
	m := NewAutoRefreshMiddleware(svc.Repo.JWTSecret, svc)

	adminToken, err := svc.CreateAccessToken("admin", session.UserID.String(), time.Now().Add(time.Minute))
	require.NoError(t, err)

	for _, mw := range []echo.MiddlewareFunc{m.RequireAdmin, m.RequireSeller, m.RequireInstructor} {
		_, _, err, called := invoke(t, mw,
			&http.Cookie{Name: "accessToken", Value: adminToken},
		)
		require.NoError(t, err)
		assert.True(t, called)
	}
}
