package config

import (
	"fmt"

	"github.com/synergyx/agency-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection and migrates the schema
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	if err := Migrate(DB); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}

// Migrate runs the schema migration for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserOTP{},
		&models.BlacklistedToken{},
		&models.Product{},
		&models.Order{},
		&models.OrderAddon{},
		&models.IntakeForm{},
		&models.Project{},
		&models.ProjectUpdate{},
	)
}

// SeedProducts inserts the static catalog rows that are missing from the
// products table. Existing rows are left untouched since the database is
// authoritative over the compiled-in defaults.
func SeedProducts() error {
	for _, p := range models.DefaultProducts {
		var count int64
		if err := DB.Model(&models.Product{}).Where("slug = ?", p.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := DB.Create(&p).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
