package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/events"
	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
	"github.com/handsnminds/platform/internal/util"
)

type EventHTTP struct {
	Svc *events.Service
}

func (h *EventHTTP) GetEvents(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := events.Filter{
		UpcomingOnly: c.QueryParam("upcoming") == "true",
		Offset:       offset,
		Limit:        limit,
	}

	return c.JSON(http.StatusOK, h.Svc.List(ctx, filter))
}

func (h *EventHTTP) GetEvent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_event")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_event_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	event := h.Svc.Get(ctx, id)
	if event == nil {
		l.Warn("get_event_failed", "status", 404)
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	return c.JSON(http.StatusOK, event)
}

func (h *EventHTTP) RegisterForEvent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register_for_event")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("event_register_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("event_register_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("event_register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	reg := models.EventRegistration{
		EventID:  eventID,
		UserID:   userID,
		FullName: req.FullName,
		Email:    req.Email,
	}
	if err := h.Svc.Register(ctx, &reg); err != nil {
		switch {
		case errors.Is(err, events.ErrEventFull):
			l.Warn("event_register_error", "status", 409, "reason", "event full")
			return echo.NewHTTPError(http.StatusConflict, "event is full")
		case errors.Is(err, events.ErrAlreadyRegistered):
			l.Warn("event_register_error", "status", 409, "reason", "already registered")
			return echo.NewHTTPError(http.StatusConflict, "already registered")
		default:
			l.Error("event_register_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot register")
		}
	}

	l.Info("event_register_success")
	return c.JSON(http.StatusCreated, reg)
}
