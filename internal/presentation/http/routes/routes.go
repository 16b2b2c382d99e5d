package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/granjasanluis/reparto-api/internal/config"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	domainRepo "github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/handler"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/middleware"
	"github.com/granjasanluis/reparto-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	PreSale   *handler.PreSaleHandler
	Sale      *handler.SaleHandler
	Route     *handler.RouteHandler
	Credit    *handler.CreditHandler
	Warehouse *handler.WarehouseHandler
	User      *handler.UserHandler
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
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Products
	registerProductRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Pre-sales and cart quoting
	registerPreSaleRoutes(protected, h, deps)

	// Counter sales
	registerSaleRoutes(protected, h, deps)

	// Delivery routes
	registerRouteRoutes(protected, h)

	// Credits
	registerCreditRoutes(protected, h)

	// Warehouse
	registerWarehouseRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles and permissions (Admin)
	registerRoleRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequirePermission(entity.PermManageProducts))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:slug", h.Product.Get)
		products.PUT("/:slug", h.Product.Update)
		products.DELETE("/:slug", h.Product.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(entity.PermManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerPreSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Quoting never writes, so it stays outside the manage permission
	protected.POST("/carts/quote", h.PreSale.QuoteCart)

	// Settlement is performed by the assigned delivery agent
	protected.POST("/presales/:id/settle",
		middleware.RequirePermission(entity.PermDeliverOrders), h.PreSale.Settle)

	presales := protected.Group("/presales")
	presales.Use(middleware.RequirePermission(entity.PermManagePreSales))
	{
		presales.GET("", h.PreSale.List)
		// Pre-sale creation uses idempotency middleware to prevent duplicates
		// from mobile clients retrying over unreliable connections
		presales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.PreSale.Create)
		presales.GET("/:id", h.PreSale.Get)
		presales.GET("/:id/history", h.PreSale.GetHistory)
		presales.PUT("/:id/status", h.PreSale.UpdateStatus)
		presales.POST("/:id/dispatch", h.PreSale.Dispatch)
		presales.DELETE("/:id", h.PreSale.Delete)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	sales.Use(middleware.RequirePermission(entity.PermManagePreSales))
	{
		// Sales settle immediately, so a retried request would double both
		// the stock decrement and any opened credit
		sales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Register)
	}
}

func registerRouteRoutes(protected *gin.RouterGroup, h *Handlers) {
	deliveryRoutes := protected.Group("/routes")
	deliveryRoutes.Use(middleware.RequirePermission(entity.PermManagePreSales))
	{
		deliveryRoutes.GET("", h.Route.List)
		deliveryRoutes.POST("", h.Route.Create)
		deliveryRoutes.GET("/:id", h.Route.Get)
		deliveryRoutes.PUT("/:id", h.Route.Update)
		deliveryRoutes.DELETE("/:id", h.Route.Delete)
	}
}

func registerCreditRoutes(protected *gin.RouterGroup, h *Handlers) {
	credits := protected.Group("/credits")
	credits.Use(middleware.RequirePermission(entity.PermManageCredits))
	{
		credits.GET("", h.Credit.List)
		credits.POST("", h.Credit.Create)
		credits.GET("/:id", h.Credit.Get)
		credits.POST("/:id/payments", h.Credit.RegisterPayment)
		credits.DELETE("/:id", h.Credit.Delete)
	}
}

func registerWarehouseRoutes(protected *gin.RouterGroup, h *Handlers) {
	warehouse := protected.Group("/warehouse")
	warehouse.Use(middleware.RequirePermission(entity.PermViewWarehouse))
	{
		warehouse.GET("/summary", h.Warehouse.Summary)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Delivery agent listing is needed by anyone who dispatches
	protected.GET("/delivery-agents",
		middleware.RequirePermission(entity.PermManagePreSales), h.User.ListDeliveryAgents)

	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.PUT("/:id/password", h.User.ResetPassword)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		roles.GET("", h.User.ListRoles)
	}

	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}
