package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"billing-service/internal/model"
	"billing-service/internal/payment"
	"billing-service/internal/repository"
	"billing-service/internal/service"
)

// CreatePurchase records a supplier invoice and adds its quantities to stock
func (h *Handler) CreatePurchase(c echo.Context) error {
	var req service.PurchaseInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	res, err := h.purchases.Record(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to record purchase")
	}
	return c.JSON(http.StatusCreated, res)
}

// ListPurchases accepts the same filters as ListBills with supplier_id
func (h *Handler) ListPurchases(c echo.Context) error {
	var filter repository.PurchaseFilter
	var err error

	filter.PaymentStatus = model.PaymentStatus(c.QueryParam("payment_status"))
	if filter.SupplierID, err = queryUint(c, "supplier_id"); err != nil {
		return respondError(c, err, "Invalid filter")
	}
	if filter.From, filter.To, err = queryDateRange(c); err != nil {
		return respondError(c, err, "Invalid filter")
	}

	purchases, err := h.purchases.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to retrieve purchases")
	}
	return c.JSON(http.StatusOK, purchases)
}

func (h *Handler) GetPurchase(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid purchase id")
	}
	purchase, err := h.purchases.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to retrieve purchase")
	}
	return c.JSON(http.StatusOK, purchase)
}

func (h *Handler) DeletePurchase(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid purchase id")
	}
	if err := h.purchases.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Failed to delete purchase")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdatePurchasePayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid purchase id")
	}
	var req payment.Update
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	purchase, err := h.purchases.UpdatePayment(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "Failed to update payment")
	}
	return c.JSON(http.StatusOK, purchase)
}
