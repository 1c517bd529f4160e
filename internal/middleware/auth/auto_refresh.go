package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/auth"
	"github.com/handsnminds/platform/internal/tokens"
)

type AutoRefreshMiddleware struct {
	JWTSecret []byte
	Auth      *auth.Service
}

func NewAutoRefreshMiddleware(secret []byte, svc *auth.Service) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret: secret,
		Auth:      svc,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, requireRole(auth.RoleAdmin))
}

func (m *AutoRefreshMiddleware) RequireInstructor(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, requireRole(auth.RoleInstructor))
}

func (m *AutoRefreshMiddleware) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, requireRole(auth.RoleSeller))
}

// requireRole admits the named role and admins.
func requireRole(role auth.Role) ValidatorFunc {
	return func(claims *tokens.AccessClaims) error {
		if claims.Role != string(role) && claims.Role != string(auth.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, string(role)+" access required")
		}
		return nil
	}
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie("accessToken")
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)

		if err == nil && claims != nil {
			if validator != nil {
				if validationErr := validator(claims); validationErr != nil {
					return validationErr
				}
			}

			setUserContext(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie("refreshToken")
		if rErr != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		session, refErr := m.Auth.Refresh(c.Request().Context(), refreshCookie.Value, accessCookie.Value)
		if refErr != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
		}

		c.SetCookie(tokens.SetCookie("accessToken", session.AccessToken, "/", session.AccessExp))
		c.SetCookie(tokens.SetCookie("refreshToken", session.RefreshToken, "/", session.RefreshExp))

		newClaims, pErr := tokens.AccessClaimsFromToken(session.AccessToken, m.JWTSecret)
		if pErr != nil || newClaims == nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
		}

		if validator != nil {
			if validationErr := validator(newClaims); validationErr != nil {
				clearAuthCookies(c)
				return validationErr
			}
		}

		setUserContext(c, newClaims)

		return next(c)
	}
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
}
