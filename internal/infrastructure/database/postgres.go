package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/config"
	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/pkg/utils"
	"github.com/spf13/viper"
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
		&entity.PasswordResetToken{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},

		// Sale entities
		&entity.Receipt{},
		&entity.ReceiptItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with the admin user and a small sample
// catalog when the database is empty
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	var admin entity.User
	if adminEmail != "" && adminPassword != "" {
		if err := db.Where("email = ?", adminEmail).First(&admin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Admin"
				}
				admin = entity.User{
					ID:       uuid.New(),
					Name:     adminName,
					Username: "admin",
					Email:    adminEmail,
					Password: string(hashedPassword),
				}
				if err := db.Create(&admin).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	// Seed a sample catalog for the admin user on first run
	if admin.ID != uuid.Nil {
		var count int64
		db.Model(&entity.Product{}).Where("user_id = ?", admin.ID).Count(&count)
		if count == 0 {
			seedSampleCatalog(db, admin.ID)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}

func seedSampleCatalog(db *gorm.DB, userID uuid.UUID) {
	general := entity.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "General",
		Slug:   "general",
	}
	if err := db.Create(&general).Error; err != nil {
		log.Printf("Warning: failed to create default category: %v", err)
		return
	}

	products := []entity.Product{
		{Name: "Soda 500ml", BuyingPrice: 4000, SellingPrice: 6000},
		{Name: "Bottled Water 1L", BuyingPrice: 3000, SellingPrice: 5000},
		{Name: "Photocopy", BuyingPrice: 200, SellingPrice: 500, PerUnit: true},
	}
	for i := range products {
		products[i].ID = uuid.New()
		products[i].UserID = userID
		products[i].CategoryID = &general.ID
		products[i].Slug = utils.Slugify(products[i].Name)
		products[i].Code = utils.GenerateProductCode()
		if err := db.Create(&products[i]).Error; err != nil {
			log.Printf("Warning: failed to seed product %s: %v", products[i].Name, err)
		}
	}
}
