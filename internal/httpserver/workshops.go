package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
	"github.com/handsnminds/platform/internal/util"
	"github.com/handsnminds/platform/internal/workshops"
)

type WorkshopHTTP struct {
	Svc *workshops.Service
}

func (h *WorkshopHTTP) GetWorkshops(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	return c.JSON(http.StatusOK, h.Svc.List(ctx, workshops.Filter{Offset: offset, Limit: limit}))
}

func (h *WorkshopHTTP) GetWorkshop(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_workshop")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_workshop_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	workshop := h.Svc.Get(ctx, id)
	if workshop == nil {
		l.Warn("get_workshop_failed", "status", 404)
		return echo.NewHTTPError(http.StatusNotFound, "workshop not found")
	}

	return c.JSON(http.StatusOK, workshop)
}

func (h *WorkshopHTTP) CreateWorkshop(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_workshop")

	var workshop models.Workshop
	if err := c.Bind(&workshop); err != nil {
		l.Warn("create_workshop_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Create(ctx, &workshop); err != nil {
		l.Error("create_workshop_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create workshop")
	}

	l.Info("create_workshop_success")
	return c.JSON(http.StatusCreated, workshop)
}

// GetSlotRegistrations returns the roster for one time slot.
func (h *WorkshopHTTP) GetSlotRegistrations(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get_slot_registrations")

	slotID := util.ParseIntDefault(c.Param("slot_id"), 0)
	if slotID <= 0 {
		l.Warn("get_slot_registrations_error", "status", 400, "reason", "slot_id not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "slot_id not a positive integer")
	}

	return c.JSON(http.StatusOK, h.Svc.SlotRegistrations(ctx, uint(slotID)))
}

func (h *WorkshopHTTP) RegisterForSlot(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register_for_slot")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("slot_register_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	slotID := util.ParseIntDefault(c.Param("slot_id"), 0)
	if slotID <= 0 {
		l.Warn("slot_register_error", "status", 400, "reason", "slot_id not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "slot_id not a positive integer")
	}

	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("slot_register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	reg := models.WorkshopRegistration{
		TimeSlotID: uint(slotID),
		UserID:     userID,
		FullName:   req.FullName,
		Email:      req.Email,
	}
	if err := h.Svc.Register(ctx, &reg); err != nil {
		switch {
		case errors.Is(err, workshops.ErrSlotFull):
			l.Warn("slot_register_error", "status", 409, "reason", "slot full")
			return echo.NewHTTPError(http.StatusConflict, "time slot is full")
		case errors.Is(err, workshops.ErrAlreadyRegistered):
			l.Warn("slot_register_error", "status", 409, "reason", "already registered")
			return echo.NewHTTPError(http.StatusConflict, "already registered")
		default:
			l.Error("slot_register_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot register")
		}
	}

	l.Info("slot_register_success")
	return c.JSON(http.StatusCreated, reg)
}
