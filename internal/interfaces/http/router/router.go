// Package router wires handlers and middleware into the Gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/auth"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/logger"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/interfaces/http/handler"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/interfaces/http/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Order    *handler.OrderHandler
	Document *handler.DocumentHandler
}

// New builds the Gin engine with all routes and middleware
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.App.Name})
	})

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtService))

	orders := v1.Group("/order")
	{
		orders.POST("/create", h.Order.Create)
		orders.POST("/status/change", h.Order.ChangeStatus)
		orders.GET("/:userId", h.Order.ListByUser)
		orders.GET("/store/:storeId", h.Order.ListByStore)
		orders.GET("/store/:storeId/pending-payments", h.Order.ListPendingPayments)
		orders.GET("/track/:orderId", h.Order.Track)
		orders.GET("/get/order-item/:orderId", h.Order.GetItems)
		orders.GET("/get/:orderId", h.Order.GetByID)
		orders.GET("/download/shipping-label/:storeId/:orderId", h.Document.DownloadShippingLabel)
		orders.GET("/download/order-invoice/:storeId/:orderId", h.Document.DownloadInvoice)
		orders.POST("/generate-invoice", h.Document.GenerateInvoice)
	}

	return engine
}
