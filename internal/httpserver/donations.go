package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/donations"
	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
	"github.com/handsnminds/platform/internal/mykafka"
	"github.com/handsnminds/platform/internal/util"
)

type DonationHTTP struct {
	Svc      *donations.Service
	Producer *mykafka.Producer
}

// ProcessDonation accepts a donation from anyone; a logged-in donor gets
// linked through the middleware-set user id when present.
func (h *DonationHTTP) ProcessDonation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "process_donation")

	var req struct {
		DonorName string  `json:"donor_name"`
		Email     string  `json:"email"`
		Amount    float64 `json:"amount"`
		Message   string  `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("process_donation_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	donation := models.Donation{
		DonorName: req.DonorName,
		Email:     req.Email,
		Amount:    req.Amount,
		Message:   req.Message,
	}
	if userID, err := getUserID(c); err == nil {
		donation.UserID = userID
	}

	if ok := h.Svc.Process(ctx, &donation); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"processed": false})
	}

	publish(c, h.Producer, "donation_events", map[string]any{
		"type":   "donation_received",
		"userID": donation.UserID.String(),
		"amount": donation.Amount,
	})

	l.Info("process_donation_success", "amount", donation.Amount)
	return c.JSON(http.StatusCreated, echo.Map{"processed": true, "donation": donation})
}

func (h *DonationHTTP) GetDonations(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := donations.Filter{
		Status: c.QueryParam("status"),
		Offset: offset,
		Limit:  limit,
	}

	return c.JSON(http.StatusOK, h.Svc.List(ctx, filter))
}

func (h *DonationHTTP) GetTotal(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, echo.Map{"total": h.Svc.Total(ctx)})
}
