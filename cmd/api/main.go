package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/counterpos/internal/application/service"
	"github.com/sangkips/counterpos/internal/config"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/infrastructure/database"
	infraRepo "github.com/sangkips/counterpos/internal/infrastructure/repository"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/internal/presentation/http/handler"
	"github.com/sangkips/counterpos/internal/presentation/http/middleware"
	"github.com/sangkips/counterpos/internal/presentation/http/routes"
	"github.com/sangkips/counterpos/pkg/assets"
	"github.com/sangkips/counterpos/pkg/display"
	"github.com/sangkips/counterpos/pkg/printer"
	"github.com/sangkips/counterpos/pkg/receipt"
	"github.com/sangkips/counterpos/pkg/utils"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.App.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	if err := database.SeedDefaultData(db, cfg.Shop, cfg.Assets, log); err != nil {
		log.Warnw("failed to seed default data", "error", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Repositories
	staffRepo := infraRepo.NewStaffRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	couponRepo := infraRepo.NewCouponRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	settingsRepo := infraRepo.NewSettingsRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Receipt images follow the stored settings, falling back to config
	logoPath, qrPath := cfg.Assets.LogoPath, cfg.Assets.QRPath
	if stored, err := settingsRepo.Get(ctx); err != nil {
		log.Warnw("failed to load shop settings", "error", err)
	} else if stored != nil {
		logoPath, qrPath = stored.LogoPath, stored.QRPath
	}
	assetResolver := assets.NewResolver(map[string]string{
		receipt.RefLogo: logoPath,
		receipt.RefQR:   qrPath,
	}, cfg.Assets.MaxWidth, cfg.Assets.CacheTTL)

	// Services
	settingsService := service.NewSettingsService(settingsRepo, assetResolver, cfg.Shop, log)
	authService := service.NewAuthService(staffRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	pricingService := service.NewPricingService(productRepo, couponRepo, settingsService)
	couponService := service.NewCouponService(couponRepo, log)

	printerService := service.NewPrinterService(
		printerDevices(cfg, log),
		orderRepo,
		settingsService,
		assetResolver,
		log,
	)
	orderService := service.NewOrderService(orderRepo, pricingService, printerService, log)

	displayController := display.NewController(display.Config{
		PortName: cfg.Display.Port,
		BaudRate: cfg.Display.BaudRate,
		Settle:   cfg.Display.Settle,
		Format: display.Format{
			Title:          cfg.Shop.Name,
			Greeting:       cfg.Display.Greeting,
			CurrencySymbol: cfg.Shop.CurrencySymbol,
		},
	}, nil, log.Named("display").SugaredLogger)
	displayService := service.NewDisplayService(displayController, log)
	if cfg.Display.Enabled {
		if _, err := displayService.Connect(ctx, "", 0); err != nil {
			log.Warnw("customer display not connected", "port", cfg.Display.Port, "error", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalw("failed to get database handle", "error", err)
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Health:   handler.NewHealthHandler(cfg.App.Name, sqlDB),
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Pricing:  handler.NewPricingHandler(pricingService),
		Coupon:   handler.NewCouponHandler(couponService),
		Order:    handler.NewOrderHandler(orderService),
		Printer:  handler.NewPrinterHandler(printerService),
		Display:  handler.NewDisplayHandler(displayService),
		Settings: handler.NewSettingsHandler(settingsService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          log,
	})

	go purgeIdempotencyKeys(ctx, idempotencyRepo, log)

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
		log.Infow("starting server", "name", cfg.App.Name, "port", port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}

	printerService.Wait()
	displayService.Close()
	if err := sqlDB.Close(); err != nil {
		log.Warnw("failed to close database", "error", err)
	}
}

// printerDevices builds the receipt and kitchen transports. A printer that
// cannot be configured falls back to the simulated transport so orders keep
// flowing.
func printerDevices(cfg *config.Config, log *logger.Logger) service.PrinterDevices {
	build := func(role string, pc config.PrinterConfig) printer.Transport {
		sugar := log.Named("printer." + role).SugaredLogger
		t, err := printer.NewTransportFromConfig(printer.Config{
			Type:        pc.Type,
			USBPath:     pc.USBPath,
			NetworkHost: pc.NetworkHost,
			NetworkPort: pc.NetworkPort,
			Timeouts: printer.NetworkTimeouts{
				Dial:  pc.DialTimeout,
				Write: pc.WriteTimeout,
			},
			PrinterName: pc.Name,
		}, sugar)
		if err != nil {
			log.Warnw("printer not configured, using simulated output", "role", role, "type", pc.Type, "error", err)
			return printer.NewSimulatedTransport(nil, sugar)
		}
		return t
	}

	devices := service.PrinterDevices{
		Receipt:      build("receipt", cfg.Printer),
		ReceiptWidth: cfg.Printer.CharWidth,
		KitchenWidth: cfg.Kitchen.CharWidth,
		SameDevice:   cfg.Printer.SameDevice(cfg.Kitchen),
	}
	if !devices.SameDevice {
		devices.Kitchen = build("kitchen", cfg.Kitchen)
	}
	return devices
}

func purgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx, time.Now())
			if err != nil {
				log.Warnw("failed to purge idempotency keys", "error", err)
				continue
			}
			if n > 0 {
				log.Infow("purged expired idempotency keys", "count", n)
			}
		}
	}
}
