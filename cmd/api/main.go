package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/granjasanluis/reparto-api/internal/application/service"
	"github.com/granjasanluis/reparto-api/internal/config"
	"github.com/granjasanluis/reparto-api/internal/infrastructure/database"
	"github.com/granjasanluis/reparto-api/internal/infrastructure/repository"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/handler"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/routes"
	"github.com/granjasanluis/reparto-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db, &cfg.Seed); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	preSaleRepo := repository.NewPreSaleRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	preSaleService := service.NewPreSaleService(preSaleRepo, productRepo, customerRepo, userRepo, routeRepo)
	saleService := service.NewSaleService(preSaleRepo, productRepo, customerRepo, creditRepo)
	routeService := service.NewRouteService(routeRepo)
	creditService := service.NewCreditService(creditRepo, customerRepo)
	warehouseService := service.NewWarehouseService(preSaleRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService),
		PreSale:   handler.NewPreSaleHandler(preSaleService),
		Sale:      handler.NewSaleHandler(saleService),
		Route:     handler.NewRouteHandler(routeService),
		Credit:    handler.NewCreditHandler(creditService),
		Warehouse: handler.NewWarehouseHandler(warehouseService),
		User:      handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
