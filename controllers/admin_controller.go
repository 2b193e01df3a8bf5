package controllers

import (
	"os"

	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// CreateDefaultAdmin provisions the bootstrap back-office account from
// ADMIN_EMAIL / ADMIN_PASSWORD. No-op when unset or already present.
func CreateDefaultAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.LogInfo("Admin bootstrap skipped, ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return
	}

	var existing models.User
	err := config.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if !existing.IsAdmin() {
			config.DB.Model(&existing).Update("role", models.RoleAdmin)
			utils.LogInfo("Promoted existing account %d to admin", existing.ID)
		}
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.LogError("Admin bootstrap lookup failed: %v", err)
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		utils.LogError("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Email:      email,
		Password:   hashed,
		FullName:   "Administrator",
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		utils.LogError("Failed to create admin account: %v", err)
		return
	}
	utils.LogInfo("Default admin account created: %s", email)
}
