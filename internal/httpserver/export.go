package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/handsnminds/platform/internal/logging"
	"github.com/handsnminds/platform/internal/models"
)

type ExportHTTP struct {
	DB *gorm.DB
}

func (h *ExportHTTP) ExportDonations(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "export_donations")

	var records []models.Donation
	if err := h.DB.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		l.Error("export_donations_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot fetch donations")
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Donations")
	if err != nil {
		l.Error("export_donations_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create sheet")
	}

	headerRow := sheet.AddRow()
	for _, name := range []string{"ID", "DonorName", "Email", "Amount", "Message", "Status", "CreatedAt"} {
		headerRow.AddCell().SetValue(name)
	}

	for _, d := range records {
		row := sheet.AddRow()
		row.AddCell().SetValue(d.ID.String())
		row.AddCell().SetValue(d.DonorName)
		row.AddCell().SetValue(d.Email)
		row.AddCell().SetValue(d.Amount)
		row.AddCell().SetValue(d.Message)
		row.AddCell().SetValue(d.Status)
		row.AddCell().SetValue(d.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return writeWorkbook(c, file, "donations.xlsx")
}

// ExportRegistrations builds one workbook with event and workshop
// registrations on separate sheets.
func (h *ExportHTTP) ExportRegistrations(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "export_registrations")

	var eventRegs []models.EventRegistration
	if err := h.DB.WithContext(ctx).Order("created_at DESC").Find(&eventRegs).Error; err != nil {
		l.Error("export_registrations_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot fetch event registrations")
	}
	var slotRegs []models.WorkshopRegistration
	if err := h.DB.WithContext(ctx).Order("created_at DESC").Find(&slotRegs).Error; err != nil {
		l.Error("export_registrations_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot fetch workshop registrations")
	}

	file := xlsx.NewFile()

	eventSheet, err := file.AddSheet("EventRegistrations")
	if err != nil {
		l.Error("export_registrations_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create sheet")
	}
	headerRow := eventSheet.AddRow()
	for _, name := range []string{"EventID", "UserID", "FullName", "Email", "CreatedAt"} {
		headerRow.AddCell().SetValue(name)
	}
	for _, r := range eventRegs {
		row := eventSheet.AddRow()
		row.AddCell().SetValue(r.EventID.String())
		row.AddCell().SetValue(r.UserID.String())
		row.AddCell().SetValue(r.FullName)
		row.AddCell().SetValue(r.Email)
		row.AddCell().SetValue(r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	slotSheet, err := file.AddSheet("WorkshopRegistrations")
	if err != nil {
		l.Error("export_registrations_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create sheet")
	}
	headerRow = slotSheet.AddRow()
	for _, name := range []string{"TimeSlotID", "UserID", "FullName", "Email", "CreatedAt"} {
		headerRow.AddCell().SetValue(name)
	}
	for _, r := range slotRegs {
		row := slotSheet.AddRow()
		row.AddCell().SetValue(r.TimeSlotID)
		row.AddCell().SetValue(r.UserID.String())
		row.AddCell().SetValue(r.FullName)
		row.AddCell().SetValue(r.Email)
		row.AddCell().SetValue(r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return writeWorkbook(c, file, "registrations.xlsx")
}

func writeWorkbook(c echo.Context, file *xlsx.File, filename string) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return file.Write(c.Response())
}
