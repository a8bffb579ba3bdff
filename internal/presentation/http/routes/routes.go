package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mwaniki/salepoint-api/internal/config"
	domainRepo "github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/internal/presentation/http/handler"
	"github.com/mwaniki/salepoint-api/internal/presentation/http/middleware"
	"github.com/mwaniki/salepoint-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Invoice  *handler.InvoiceHandler
	Receipt  *handler.ReceiptHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	registerProductRoutes(protected, h)
	registerCategoryRoutes(protected, h)
	registerCartRoutes(protected, h, deps)
	registerInvoiceRoutes(protected, h, deps)
	registerReceiptRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:slug", h.Product.Get)
		products.PUT("/:slug", h.Product.Update)
		products.DELETE("/:slug", h.Product.Delete)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:slug", h.Category.Get)
		categories.PUT("/:slug", h.Category.Update)
		categories.DELETE("/:slug", h.Category.Delete)
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idemCfg := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}

	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		// Item edits honor an idempotency key when the client sends one
		cart.POST("/items", middleware.Idempotency(idemCfg), h.Cart.AddItem)
		cart.PUT("/items/:product_id", middleware.Idempotency(idemCfg), h.Cart.UpdateItem)
		cart.DELETE("/items/:product_id", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/preview", h.Cart.Preview)
		// Checkout uses idempotency middleware to prevent duplicate receipts
		cart.POST("/checkout", middleware.IdempotencyRequired(idemCfg), h.Cart.Checkout)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idemCfg := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}

	invoice := protected.Group("/invoice")
	{
		invoice.GET("", h.Invoice.Get)
		// Item edits honor an idempotency key when the client sends one
		invoice.POST("/items", middleware.Idempotency(idemCfg), h.Invoice.AddItem)
		invoice.POST("/quick-add", middleware.Idempotency(idemCfg), h.Invoice.QuickAdd)
		invoice.PUT("/items/:id", middleware.Idempotency(idemCfg), h.Invoice.UpdateItem)
		invoice.DELETE("/items/:id", h.Invoice.RemoveItem)
		invoice.DELETE("", h.Invoice.Clear)
		// Checkout uses idempotency middleware to prevent duplicate receipts
		invoice.POST("/checkout", middleware.IdempotencyRequired(idemCfg), h.Invoice.Checkout)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.GET("/recent", h.Receipt.Recent)
		receipts.GET("/:id", h.Receipt.Get)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
