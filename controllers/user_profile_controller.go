package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// GetMe returns the authenticated user's profile.
func GetMe(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	utils.Success(c, "Profile retrieved successfully", gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"full_name":     user.FullName,
		"company_name":  user.CompanyName,
		"phone":         user.Phone,
		"role":          user.Role,
		"is_verified":   user.IsVerified,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	})
}

// UpdateMeRequest carries editable profile fields. Email and role are not
// editable through this endpoint.
type UpdateMeRequest struct {
	FullName    *string `json:"full_name"`
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
}

// UpdateMe edits the caller's profile.
func UpdateMe(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		if valid, msg := utils.ValidateName(*req.FullName); !valid {
			utils.BadRequest(c, msg, nil)
			return
		}
		updates["full_name"] = utils.SanitizeString(*req.FullName)
	}
	if req.CompanyName != nil {
		updates["company_name"] = utils.SanitizeString(*req.CompanyName)
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			updates["phone"] = ""
		} else {
			valid, cleaned := utils.ValidatePhone(*req.Phone)
			if !valid {
				utils.BadRequest(c, cleaned, nil)
				return
			}
			updates["phone"] = cleaned
		}
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update profile for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update profile", nil)
		return
	}

	config.DB.First(&user, user.ID)
	utils.Success(c, "Profile updated successfully", gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"full_name":    user.FullName,
		"company_name": user.CompanyName,
		"phone":        user.Phone,
	})
}
