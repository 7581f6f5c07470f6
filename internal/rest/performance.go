package rest

import (
	"context"
	"errors"
	"myBrandStore/business/performance"
	"myBrandStore/domain"
	"myBrandStore/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PerformanceHandler struct {
		validate        *validator.Validate
		svc             PerformanceService
		timeout         time.Duration
		optimizeTimeout time.Duration
	}

	PerformanceService interface {
		RecordView(ctx context.Context, productID string) error
		RecordClick(ctx context.Context, productID string) error
		RecordAddToCart(ctx context.Context, productID string, price float64) error
		RecordPurchase(ctx context.Context, productID string, revenue float64) error

		Product(ctx context.Context, productID string) (domain.ProductMetrics, bool)
		GetInsights(ctx context.Context) domain.Insights
		Thresholds() domain.PerformanceThresholds
		Underperformers(ctx context.Context, th domain.PerformanceThresholds) []string
		TopPerformers(ctx context.Context, th domain.PerformanceThresholds) []domain.ProductMetrics

		AutoOptimize(ctx context.Context) domain.OptimizeResult
	}

	AddToCartRequest struct {
		Price float64 `json:"price" validate:"gte=0"`
	}

	PurchaseRequest struct {
		Revenue float64 `json:"revenue" validate:"gte=0"`
	}
)

func NewPerformanceHandler(svc PerformanceService, timeout, optimizeTimeout time.Duration) *PerformanceHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if optimizeTimeout <= 0 {
		optimizeTimeout = 2 * time.Minute
	}

	return &PerformanceHandler{
		validate:        validator.New(),
		svc:             svc,
		timeout:         timeout,
		optimizeTimeout: optimizeTimeout,
	}
}

// POST /api/v1/products/:id/views
func (h *PerformanceHandler) RecordView(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.svc.RecordView(ctx, c.Param("id")); err != nil {
		return recordError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("view recorded"))
}

// POST /api/v1/products/:id/clicks
func (h *PerformanceHandler) RecordClick(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.svc.RecordClick(ctx, c.Param("id")); err != nil {
		return recordError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("click recorded"))
}

// POST /api/v1/products/:id/cart
func (h *PerformanceHandler) RecordAddToCart(c echo.Context) error {
	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.svc.RecordAddToCart(ctx, c.Param("id"), req.Price); err != nil {
		return recordError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("add to cart recorded"))
}

// POST /api/v1/products/:id/purchases
func (h *PerformanceHandler) RecordPurchase(c echo.Context) error {
	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.svc.RecordPurchase(ctx, c.Param("id"), req.Revenue); err != nil {
		return recordError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("purchase recorded"))
}

// GET /api/v1/analytics/insights
func (h *PerformanceHandler) GetInsights(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.svc.GetInsights(ctx)))
}

// GET /api/v1/analytics/products/:id
func (h *PerformanceHandler) GetProductMetrics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, ok := h.svc.Product(ctx, c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "no metrics recorded for product"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rec))
}

// GET /api/v1/analytics/underperformers?min_views=50&stale_days=30
func (h *PerformanceHandler) GetUnderperformers(c echo.Context) error {
	th, err := h.thresholds(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.svc.Underperformers(ctx, th)))
}

// GET /api/v1/analytics/top-performers?top_performer_percentile=0.1
func (h *PerformanceHandler) GetTopPerformers(c echo.Context) error {
	th, err := h.thresholds(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.svc.TopPerformers(ctx, th)))
}

// POST /api/v1/admin/optimize
func (h *PerformanceHandler) AutoOptimize(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.optimizeTimeout)
	defer cancel()

	result := h.svc.AutoOptimize(ctx)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// thresholds starts from the configured values; query params override single fields.
func (h *PerformanceHandler) thresholds(c echo.Context) (domain.PerformanceThresholds, error) {
	th := h.svc.Thresholds()

	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &th); err != nil {
		return th, err
	}
	if err := h.validate.Struct(&th); err != nil {
		return th, err
	}

	return th, nil
}

func recordError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, performance.ErrInvalidProductID), errors.Is(err, performance.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, ResponseError{Message: err.Error()})
	default:
		logger.Error("failed to record product event", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
}
