package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/counterpos/internal/config"
	"github.com/sangkips/counterpos/internal/domain/entity"
	domainRepo "github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/internal/presentation/http/handler"
	"github.com/sangkips/counterpos/internal/presentation/http/middleware"
	"github.com/sangkips/counterpos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Pricing  *handler.PricingHandler
	Coupon   *handler.CouponHandler
	Order    *handler.OrderHandler
	Printer  *handler.PrinterHandler
	Display  *handler.DisplayHandler
	Settings *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Logger          *logger.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	{
		// Login is limited per client IP
		auth := v1.Group("/auth")
		auth.POST("/login", deps.RateLimiter.Middleware(), h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	adminOnly := middleware.RequireRole(entity.RoleAdmin)

	protected.GET("/auth/me", h.Auth.Me)

	// Menu
	protected.GET("/products", h.Product.List)
	protected.POST("/products", adminOnly, h.Product.Create)

	// Pricing
	protected.POST("/pricing/quote", h.Pricing.Quote)

	// Coupons
	coupons := protected.Group("/coupons")
	{
		coupons.POST("/validate", h.Coupon.Validate)
		coupons.GET("", adminOnly, h.Coupon.List)
		coupons.POST("", adminOnly, h.Coupon.Create)
		coupons.GET("/:id", adminOnly, h.Coupon.Get)
		coupons.PUT("/:id", adminOnly, h.Coupon.Update)
		coupons.DELETE("/:id", adminOnly, h.Coupon.Delete)
	}

	// Orders
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
	}

	// Printing
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/receipt", h.Printer.PrintReceipt)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/drawer", h.Printer.OpenDrawer)
		printer.GET("/printers", h.Printer.ListPrinters)
		printer.GET("/queue", h.Printer.Queue)
	}

	// Customer display
	display := protected.Group("/display")
	{
		display.POST("/connect", h.Display.Connect)
		display.POST("/disconnect", h.Display.Disconnect)
		display.GET("/status", h.Display.Status)
		display.GET("/ports", h.Display.Ports)
		display.POST("/cart", h.Display.Cart)
		display.POST("/welcome", h.Display.Welcome)
	}

	// Shop settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", adminOnly, h.Settings.UpdateSettings)
}
