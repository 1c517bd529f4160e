package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/newsletter"
)

type NewsletterHTTP struct {
	Svc *newsletter.Service
}

func (h *NewsletterHTTP) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "newsletter_subscribe")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("newsletter_subscribe_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if ok := h.Svc.Subscribe(ctx, req.Email); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"subscribed": false})
	}

	l.Info("newsletter_subscribe_success")
	return c.JSON(http.StatusCreated, echo.Map{"subscribed": true})
}

func (h *NewsletterHTTP) GetSubscribers(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, h.Svc.List(ctx))
}
