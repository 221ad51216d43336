package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/config"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/storage"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/handler"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/middleware"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/routes"
	"github.com/ezequiel-pelliza/cajaclara/pkg/logger"
	"github.com/ezequiel-pelliza/cajaclara/pkg/printer"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{
		Mode:       cfg.Logger.Mode,
		Level:      cfg.Logger.Level,
		FileEnable: cfg.Logger.FileEnable,
		Filename:   cfg.Logger.Filename,
	})
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	if cfg.ConfigWarning != "" {
		log.Warn(cfg.ConfigWarning)
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.Open(cfg, logger.Component(log, "storage"))
	if err != nil {
		log.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()

	catalogService := service.NewCatalogService(store.MenuCategories, store.MenuItems, logger.Component(log, "catalog"))
	expenseService := service.NewExpenseService(store.ExpenseCategories, store.Ledger, logger.Component(log, "expenses"))
	if err := catalogService.EnsureDefaults(ctx); err != nil {
		log.Warn("failed to seed default menu", zap.Error(err))
	}
	if err := expenseService.EnsureDefaults(ctx); err != nil {
		log.Warn("failed to seed default expense categories", zap.Error(err))
	}

	defaultMethod, ok := enum.ParsePaymentMethod(cfg.POS.DefaultPaymentMethod)
	if !ok {
		log.Warn("unknown default payment method, using cash", zap.String("method", cfg.POS.DefaultPaymentMethod))
	}
	terminalService := service.NewTerminalService(catalogService, store.Ledger, store.Tabs, defaultMethod, logger.Component(log, "pos"))

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authService, err := service.NewAuthService(cfg.Auth.OwnerPIN, cfg.Auth.CashierPIN, jwtManager, logger.Component(log, "auth"))
	if err != nil {
		log.Fatal("invalid PIN configuration", zap.Error(err))
	}

	thermalPrinter, err := printer.New(printer.Options{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn("printer disabled", zap.Error(err))
		thermalPrinter, _ = printer.New(printer.Options{Type: "none"})
	}
	defer thermalPrinter.Close()
	printerService := service.NewPrinterService(thermalPrinter, store.Ledger, cfg.Printer.Type, cfg.POS.StoreName, cfg.POS.Currency, logger.Component(log, "printer"))

	historyService := service.NewHistoryService(store.Ledger, store.ExpenseCategories)
	dashboardService := service.NewDashboardService(store.Ledger, store.ExpenseCategories)

	scheduler := service.NewScheduler(time.Local, store.Idempotency, logger.Component(log, "jobs"))
	if err := scheduler.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	rateLimiter := middleware.NewTerminalRateLimiter(middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Pos:       handler.NewPosHandler(terminalService, catalogService),
		Printer:   handler.NewPrinterHandler(printerService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Expense:   handler.NewExpenseHandler(expenseService),
		History:   handler.NewHistoryHandler(historyService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: store.Idempotency,
		RateLimiter:     rateLimiter,
		Logger:          logger.Component(log, "http"),
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", port),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down", zap.Int("active_terminals", terminalService.Active()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	if err := terminalService.Shutdown(shutdownCtx); err != nil {
		log.Error("pending tab writes not flushed", zap.Error(err))
	}
}
