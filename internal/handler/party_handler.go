package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"billing-service/internal/service"
)

func (h *Handler) ListCustomers(c echo.Context) error {
	customers, err := h.parties.ListCustomers(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to retrieve customers")
	}
	return c.JSON(http.StatusOK, customers)
}

// CreateCustomer saves a customer, reusing one with the same phone or name
func (h *Handler) CreateCustomer(c echo.Context) error {
	var req service.CustomerInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}
	req.ID = 0

	customer, err := h.parties.SaveCustomer(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to save customer")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid customer id")
	}
	var req service.CustomerInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	customer, err := h.parties.UpdateCustomer(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "Failed to update customer")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *Handler) ListSuppliers(c echo.Context) error {
	suppliers, err := h.parties.ListSuppliers(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to retrieve suppliers")
	}
	return c.JSON(http.StatusOK, suppliers)
}

func (h *Handler) CreateSupplier(c echo.Context) error {
	var req service.SupplierInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}
	req.ID = 0

	supplier, err := h.parties.SaveSupplier(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to save supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *Handler) UpdateSupplier(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Invalid supplier id")
	}
	var req service.SupplierInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "could not parse request body")
	}

	supplier, err := h.parties.UpdateSupplier(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "Failed to update supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}
