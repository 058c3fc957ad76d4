package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
	"billing-service/internal/payment"
	"billing-service/internal/repository"
	"billing-service/internal/service"
)

// CreateBill generates a bill, reserving stock for every line
func (h *Handler) CreateBill(c echo.Context) error {
	var req service.BillInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	res, err := h.billing.Generate(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to generate bill")
	}
	return c.JSON(http.StatusCreated, res)
}

// ListBills returns bills newest first. Supported filters: payment_status,
// customer_id, from and to (YYYY-MM-DD, inclusive).
func (h *Handler) ListBills(c echo.Context) error {
	var filter repository.BillFilter
	var err error

	filter.PaymentStatus = model.PaymentStatus(c.QueryParam("payment_status"))
	if filter.CustomerID, err = queryUint(c, "customer_id"); err != nil {
		return respondError(c, err, "Invalid filter")
	}
	if filter.From, filter.To, err = queryDateRange(c); err != nil {
		return respondError(c, err, "Invalid filter")
	}

	bills, err := h.billing.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to retrieve bills")
	}
	return c.JSON(http.StatusOK, bills)
}

func (h *Handler) GetBill(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid bill id")
	}
	bill, err := h.billing.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to retrieve bill")
	}
	return c.JSON(http.StatusOK, bill)
}

func (h *Handler) DeleteBill(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid bill id")
	}
	if err := h.billing.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Failed to delete bill")
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateBillPayment applies {status, amount, note} to a bill
func (h *Handler) UpdateBillPayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid bill id")
	}
	var req payment.Update
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	bill, err := h.billing.UpdatePayment(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "Failed to update payment")
	}
	return c.JSON(http.StatusOK, bill)
}

func queryUint(c echo.Context, name string) (uint, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, apperror.InvalidInput("ParseQuery", "%s must be a number", name)
	}
	return uint(n), nil
}

// queryDateRange reads from and to as UTC dates. The returned to is exclusive,
// the start of the day after the requested one.
func queryDateRange(c echo.Context) (from, to time.Time, err error) {
	if v := c.QueryParam("from"); v != "" {
		if from, err = time.ParseInLocation(time.DateOnly, v, time.UTC); err != nil {
			return from, to, apperror.InvalidInput("ParseQuery", "from must be YYYY-MM-DD")
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = time.ParseInLocation(time.DateOnly, v, time.UTC); err != nil {
			return from, to, apperror.InvalidInput("ParseQuery", "to must be YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}
