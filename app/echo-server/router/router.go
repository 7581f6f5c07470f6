package router

import (
	"myBrandStore/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupTrackingRoutes(api *echo.Group, handler *rest.PerformanceHandler) {
	products := api.Group("/products")

	products.POST("/:id/views", handler.RecordView)
	products.POST("/:id/clicks", handler.RecordClick)
	products.POST("/:id/cart", handler.RecordAddToCart)
	products.POST("/:id/purchases", handler.RecordPurchase)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.PerformanceHandler) {
	analytics := api.Group("/analytics")

	analytics.GET("/insights", handler.GetInsights)
	analytics.GET("/products/:id", handler.GetProductMetrics)
	analytics.GET("/underperformers", handler.GetUnderperformers)
	analytics.GET("/top-performers", handler.GetTopPerformers)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.PerformanceHandler) {
	admin := api.Group("/admin")

	admin.POST("/optimize", handler.AutoOptimize)
}
