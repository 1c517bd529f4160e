package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/auth"
	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/mykafka"
	"github.com/handsnminds/platform/internal/tokens"
)

type AuthHTTP struct {
	Svc      *auth.Service
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
		}
		if errors.Is(err, auth.ErrUserAlreadyExist) {
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}

	publish(c, h.Producer, "auth_events", map[string]any{
		"type":   "user_registered",
		"userID": user.ID.String(),
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	session, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		code := http.StatusUnauthorized
		if !errors.Is(err, auth.ErrInvalidCredentials) && !errors.Is(err, auth.ErrValidation) {
			code = http.StatusInternalServerError
		}
		l.Warn("login_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, "invalid email or password")
	}

	c.SetCookie(tokens.SetCookie("accessToken", session.AccessToken, "/", session.AccessExp))
	c.SetCookie(tokens.SetCookie("refreshToken", session.RefreshToken, "/", session.RefreshExp))

	publish(c, h.Producer, "auth_events", map[string]any{
		"type":   "user_logged_in",
		"userID": session.UserID.String(),
	})

	user := h.Svc.ResolveUser(ctx, session)
	l.Info("login_successful")
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil || refreshCookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}
	accessValue := ""
	if accessCookie, err := c.Cookie("accessToken"); err == nil {
		accessValue = accessCookie.Value
	}

	session, err := h.Svc.Refresh(ctx, refreshCookie.Value, accessValue)
	if err != nil {
		c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
		c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
		l.Warn("refresh_failed", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
	}

	c.SetCookie(tokens.SetCookie("accessToken", session.AccessToken, "/", session.AccessExp))
	c.SetCookie(tokens.SetCookie("refreshToken", session.RefreshToken, "/", session.RefreshExp))

	l.Info("refresh_successful")
	return c.JSON(http.StatusOK, echo.Map{"user_id": session.UserID})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	refreshCookie, err := c.Cookie("refreshToken")
	if err == nil && refreshCookie.Value != "" {
		if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
			c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
			c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
		}
	}

	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me resolves the caller's own identity from the middleware-set claims.
// Identity is always scoped to the request; no shared container sits
// between callers.
func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_me")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("me_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(http.StatusOK, h.Svc.ResolveUser(ctx, &auth.Session{UserID: userID}))
}
