package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// ListProjects returns the caller's projects, newest first.
func ListProjects(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Project{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count projects for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch projects", nil)
		return
	}
	pagination.SetTotal(total)

	var projects []models.Project
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&projects).Error; err != nil {
		utils.LogError("Failed to fetch projects for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch projects", nil)
		return
	}

	utils.SendPaginatedResponse(c, "Projects retrieved successfully", projects, pagination)
}

// GetProject returns one of the caller's projects with its activity feed,
// newest entries first.
func GetProject(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)
	projectID := c.Param("id")

	var project models.Project
	err := config.DB.Preload("Updates", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Where("id = ? AND user_id = ?", projectID, user.ID).First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Project not found")
			return
		}
		utils.LogError("Failed to load project %s: %v", projectID, err)
		utils.InternalServerError(c, "Failed to load project", nil)
		return
	}

	utils.Success(c, "Project retrieved successfully", project)
}
