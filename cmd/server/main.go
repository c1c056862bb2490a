package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	apporder "github.com/rahulmuralitechnology/cartzilla-orders/internal/application/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/auth"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/erpnext"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/logger"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/notification"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/payment"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/persistence"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/printing"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/interfaces/http/handler"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting order service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	// External adapters
	gateway := payment.NewRazorpayGateway(cfg.Razorpay)
	mailer := notification.NewSMTPMailer(cfg.SMTP, log)
	erpSync := erpnext.NewAdapter(settingsRepo, cfg.ERP, log)
	renderer := printing.NewChromeRenderer(cfg.Printing, log)
	defer func() {
		_ = renderer.Close()
	}()
	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	checkoutService := apporder.NewCheckoutService(
		orderRepo, paymentRepo, cartRepo, productRepo, customerRepo, settingsRepo,
		gateway, mailer, erpSync, log,
	)
	statusService := apporder.NewStatusService(
		orderRepo, productRepo, customerRepo, settingsRepo,
		mailer, erpSync,
		order.TransitionPolicy{AllowTerminalCorrection: cfg.Orders.AllowTerminalCorrection},
		log,
	)
	queryService := apporder.NewQueryService(orderRepo)
	documentService := apporder.NewDocumentService(orderRepo, customerRepo, settingsRepo, renderer)

	engine := router.New(cfg, log, jwtService, router.Handlers{
		Order:    handler.NewOrderHandler(checkoutService, statusService, queryService),
		Document: handler.NewDocumentHandler(documentService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
