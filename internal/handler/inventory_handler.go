package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"billing-service/internal/middleware"
	"billing-service/internal/repository"
	"billing-service/internal/service"
	"billing-service/internal/stock"
	"billing-service/pkg/logger"
)

// ListItems returns the active catalog; ?search= filters by name, HSN or size
// and ?archived=true includes archived items.
func (h *Handler) ListItems(c echo.Context) error {
	log := logger.FromContext(c)

	filter := repository.InventoryFilter{Search: c.QueryParam("search")}
	if archived := c.QueryParam("archived"); archived != "" {
		include, err := strconv.ParseBool(archived)
		if err != nil {
			log.Warn("Invalid archived parameter", zap.String("value", archived))
		}
		filter.IncludeArchived = include
	}

	items, err := h.inventory.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to retrieve inventory")
	}

	log.Info("Inventory retrieved", zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid item id")
	}
	item, err := h.inventory.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to retrieve item")
	}
	return c.JSON(http.StatusOK, item)
}

// CreateItem adds a catalog item with the next inventory id
func (h *Handler) CreateItem(c echo.Context) error {
	var req service.ItemInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	item, err := h.inventory.Add(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to create item")
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem edits the catalog fields of an item. Quantity in the body is ignored.
func (h *Handler) UpdateItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid item id")
	}
	var req service.ItemInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	item, err := h.inventory.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "Failed to update item")
	}
	return c.JSON(http.StatusOK, item)
}

type addStockRequest struct {
	Quantity int `json:"quantity"`
}

// AddStock tops up an item by the quantity in the body
func (h *Handler) AddStock(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid item id")
	}
	var req addStockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	item, err := h.inventory.AddStock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return respondError(c, err, "Failed to add stock")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) ArchiveItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid item id")
	}
	if err := h.inventory.Archive(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Failed to archive item")
	}

	logger.FromContext(c).Info("Item archived", zap.Uint("id", id))
	return c.NoContent(http.StatusNoContent)
}

type stockAlertResponse struct {
	stock.Report
	Alert bool `json:"alert"`
}

// StockAlerts returns the low and out-of-stock items. Alert is true only the
// first time a given set of items is reported to the caller's session.
func (h *Handler) StockAlerts(c echo.Context) error {
	report, err := h.inventory.StockReport(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to build stock report")
	}

	session, _ := middleware.SessionIDFromContext(c)
	alert := h.alerts.ShouldAlert(session, report)
	if alert {
		logger.FromContext(c).Info("Stock alert raised",
			zap.Int("low", len(report.Low)),
			zap.Int("out_of_stock", len(report.OutOfStock)))
	}

	return c.JSON(http.StatusOK, stockAlertResponse{Report: report, Alert: alert})
}
