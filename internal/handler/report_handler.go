package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"billing-service/internal/service"
	"billing-service/pkg/logger"
)

// Dashboard returns the summary for ?period=all|month|quarter|year
func (h *Handler) Dashboard(c echo.Context) error {
	period, err := service.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return respondError(c, err, "Invalid period")
	}

	d, err := h.reports.Dashboard(c.Request().Context(), period)
	if err != nil {
		return respondError(c, err, "Failed to build dashboard")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) CustomerReports(c echo.Context) error {
	reports, err := h.reports.CustomerReports(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to build customer reports")
	}
	return c.JSON(http.StatusOK, reports)
}

func (h *Handler) SupplierReports(c echo.Context) error {
	reports, err := h.reports.SupplierReports(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to build supplier reports")
	}
	return c.JSON(http.StatusOK, reports)
}

// Initialize loads the sample catalog into an empty inventory
func (h *Handler) Initialize(c echo.Context) error {
	added, err := service.SeedSampleInventory(c.Request().Context(), h.repo)
	if err != nil {
		return respondError(c, err, "Failed to load sample inventory")
	}

	logger.FromContext(c).Info("Sample inventory requested", zap.Int("added", added))
	return c.JSON(http.StatusOK, echo.Map{"added": added})
}
