// Package handler exposes the billing services over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"billing-service/internal/apperror"
	"billing-service/internal/auth"
	"billing-service/internal/middleware"
	"billing-service/internal/repository"
	"billing-service/internal/service"
	"billing-service/internal/stock"
	"billing-service/pkg/jwtutil"
	"billing-service/pkg/logger"
	"billing-service/prometheus"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of Handler. Clock defaults to time.Now.
type Deps struct {
	Repo        repository.Repository
	DB          Pinger
	Credentials *auth.CredentialTable
	JWT         *jwtutil.JWTUtil
	Clock       service.Clock
}

// Handler serves the /api routes
type Handler struct {
	repo        repository.Repository
	db          Pinger
	credentials *auth.CredentialTable
	jwt         *jwtutil.JWTUtil

	inventory *service.InventoryService
	billing   *service.BillingService
	purchases *service.PurchaseService
	parties   *service.PartyService
	reports   *service.ReportService
	alerts    *stock.AlertDeduper
}

// New builds a Handler and its services from deps
func New(deps Deps) *Handler {
	return &Handler{
		repo:        deps.Repo,
		db:          deps.DB,
		credentials: deps.Credentials,
		jwt:         deps.JWT,
		inventory:   service.NewInventoryService(deps.Repo),
		billing:     service.NewBillingService(deps.Repo, deps.Clock),
		purchases:   service.NewPurchaseService(deps.Repo, deps.Clock),
		parties:     service.NewPartyService(deps.Repo, deps.Clock),
		reports:     service.NewReportService(deps.Repo, deps.Clock),
		alerts:      stock.NewAlertDeduper(),
	}
}

// Register mounts every route on e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.Handler()))

	api := e.Group("/api")
	api.POST("/auth/login", h.Login)

	authed := api.Group("", middleware.AuthMiddleware(h.jwt))
	owner := middleware.RequireRole(auth.RoleOwner)

	authed.POST("/auth/logout", h.Logout)

	authed.GET("/inventory", h.ListItems)
	authed.POST("/inventory", h.CreateItem, owner)
	authed.GET("/inventory/alerts", h.StockAlerts, owner)
	authed.GET("/inventory/:id", h.GetItem)
	authed.PUT("/inventory/:id", h.UpdateItem, owner)
	authed.POST("/inventory/:id/stock", h.AddStock, owner)
	authed.DELETE("/inventory/:id", h.ArchiveItem, owner)

	authed.GET("/bills", h.ListBills)
	authed.POST("/bills", h.CreateBill)
	authed.GET("/bills/:id", h.GetBill)
	authed.DELETE("/bills/:id", h.DeleteBill, owner)
	authed.PUT("/bills/:id/payment", h.UpdateBillPayment)

	purchases := authed.Group("/purchases", owner)
	purchases.GET("", h.ListPurchases)
	purchases.POST("", h.CreatePurchase)
	purchases.GET("/:id", h.GetPurchase)
	purchases.DELETE("/:id", h.DeletePurchase)
	purchases.PUT("/:id/payment", h.UpdatePurchasePayment)

	authed.GET("/customers", h.ListCustomers)
	authed.POST("/customers", h.CreateCustomer)
	authed.PUT("/customers/:id", h.UpdateCustomer)

	suppliers := authed.Group("/suppliers", owner)
	suppliers.GET("", h.ListSuppliers)
	suppliers.POST("", h.CreateSupplier)
	suppliers.PUT("/:id", h.UpdateSupplier)

	reports := authed.Group("/reports", owner)
	reports.GET("/dashboard", h.Dashboard)
	reports.GET("/customers", h.CustomerReports)
	reports.GET("/suppliers", h.SupplierReports)

	authed.POST("/initialize", h.Initialize, owner)
}

// respondError maps service errors onto status codes
func respondError(c echo.Context, err error, msg string) error {
	log := logger.FromContext(c)

	var status int
	switch {
	case errors.Is(err, apperror.ErrInvalidInput), errors.Is(err, apperror.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	default:
		log.Error(msg, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}

	log.Warn(msg, zap.Error(err), zap.Int("status", status))
	return c.JSON(status, echo.Map{"error": errorDetail(err)})
}

func errorDetail(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Details != "" {
		return appErr.Details
	}
	return err.Error()
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.InvalidInput("ParseID", "invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

func badRequest(c echo.Context, msg string) error {
	logger.FromContext(c).Warn(msg)
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
