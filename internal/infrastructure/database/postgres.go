package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/config"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Catalog entities
		&entity.Product{},
		&entity.WholesaleTier{},
		&entity.BonusRule{},

		// Customer entities
		&entity.Customer{},

		// Delivery routes
		&entity.Route{},

		// Pre-sale entities
		&entity.PreSale{},
		&entity.PreSaleItem{},
		&entity.BonusAward{},
		&entity.PreSaleEvent{},

		// Credit entities
		&entity.Credit{},
		&entity.CreditPayment{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the roles and permissions the app expects, plus an
// admin account when one is configured
func SeedDefaultData(db *gorm.DB, seed *config.SeedConfig) error {
	log.Println("Seeding default data...")

	permissions := []entity.Permission{
		{Name: entity.PermManageProducts},
		{Name: entity.PermManagePreSales},
		{Name: entity.PermManageCredits},
		{Name: entity.PermManageCustomers},
		{Name: entity.PermDeliverOrders},
		{Name: entity.PermViewWarehouse},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	// Reload permissions with IDs
	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	pick := func(names ...string) []entity.Permission {
		var perms []entity.Permission
		for _, name := range names {
			for _, p := range allPermissions {
				if p.Name == name {
					perms = append(perms, p)
					break
				}
			}
		}
		return perms
	}

	ensureRole := func(name string, perms []entity.Permission) {
		var existing entity.Role
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			role := entity.Role{Name: name, Permissions: perms}
			if err := db.Create(&role).Error; err != nil {
				log.Printf("Warning: failed to create %s role: %v", name, err)
			}
		}
	}

	// Admin gets everything
	ensureRole(entity.RoleAdmin, allPermissions)

	// Sellers take orders in the field and manage their customer portfolios
	ensureRole(entity.RoleSeller, pick(
		entity.PermManagePreSales,
		entity.PermManageCustomers,
		entity.PermManageCredits,
	))

	// Delivery agents settle the orders assigned to them and take abonos
	ensureRole(entity.RoleDeliveryAgent, pick(
		entity.PermDeliverOrders,
		entity.PermManageCredits,
		entity.PermViewWarehouse,
	))

	if seed != nil && seed.AdminEmail != "" && seed.AdminPassword != "" {
		seedAdminUser(db, seed.AdminEmail, seed.AdminPassword)
	}

	log.Println("Default data seeding completed")
	return nil
}

func seedAdminUser(db *gorm.DB, email, password string) {
	var existing entity.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Admin user already exists: %s", email)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return
	}

	var adminRole entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		log.Printf("Warning: admin role missing, skipping admin user seed: %v", err)
		return
	}

	adminUser := entity.User{
		ID:        uuid.New(),
		FirstName: "Admin",
		LastName:  "",
		Email:     email,
		Password:  string(hashedPassword),
		Roles:     []entity.Role{adminRole},
	}
	if err := db.Create(&adminUser).Error; err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", email)
}
