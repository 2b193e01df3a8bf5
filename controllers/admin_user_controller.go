package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// AdminListUsers returns client accounts, optionally filtered by an email
// search term.
func AdminListUsers(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("email LIKE ? OR full_name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}
	pagination.SetTotal(total)

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}

	response := make([]gin.H, 0, len(users))
	for _, u := range users {
		response = append(response, gin.H{
			"id":            u.ID,
			"email":         u.Email,
			"full_name":     u.FullName,
			"company_name":  u.CompanyName,
			"role":          u.Role,
			"is_blocked":    u.IsBlocked,
			"is_verified":   u.IsVerified,
			"last_login_at": u.LastLoginAt,
			"created_at":    u.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, "Users retrieved successfully", response, pagination)
}

// setUserBlocked flips the block flag on a client account.
func setUserBlocked(c *gin.Context, blocked bool) {
	userID := c.Param("id")

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
			return
		}
		utils.LogError("Failed to load user %s: %v", userID, err)
		utils.InternalServerError(c, "Failed to load user", nil)
		return
	}

	if user.IsAdmin() {
		utils.Forbidden(c, "Admin accounts cannot be blocked")
		return
	}

	if err := config.DB.Model(&user).Update("is_blocked", blocked).Error; err != nil {
		utils.LogError("Failed to update block flag for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update user", nil)
		return
	}

	action := "unblocked"
	if blocked {
		action = "blocked"
	}
	utils.LogInfo("Admin %s user %d", action, user.ID)
	utils.Success(c, "User "+action+" successfully", gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"is_blocked": blocked,
	})
}

// AdminBlockUser blocks a client account.
func AdminBlockUser(c *gin.Context) {
	setUserBlocked(c, true)
}

// AdminUnblockUser unblocks a client account.
func AdminUnblockUser(c *gin.Context) {
	setUserBlocked(c, false)
}
