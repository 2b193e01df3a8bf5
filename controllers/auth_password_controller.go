package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// ForgotPassword emails a reset code. The response never reveals whether the
// email has an account.
func ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		if err := issueOTP(req.Email, "password_reset"); err != nil {
			utils.LogError("Failed to send password reset OTP to %s: %v", req.Email, err)
		}
	}

	utils.Success(c, "If an account exists, a reset code has been sent", nil)
}

// ResetPasswordRequest carries the emailed code and the new password.
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required"`
	OTP             string `json:"otp" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ResetPassword verifies the reset code and replaces the password.
func ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if valid, msg := utils.ValidatePassword(req.NewPassword); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		utils.BadRequest(c, "Passwords do not match", nil)
		return
	}

	var otp models.UserOTP
	err := config.DB.Where("email = ? AND code = ? AND purpose = ?", req.Email, req.OTP, "password_reset").
		First(&otp).Error
	if err != nil {
		utils.LogSecurity("Invalid password reset attempt for %s from %s", req.Email, c.ClientIP())
		utils.BadRequest(c, "Invalid reset code", nil)
		return
	}
	if time.Now().After(otp.ExpiresAt) {
		config.DB.Delete(&otp)
		utils.BadRequest(c, "Reset code has expired", nil)
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.BadRequest(c, "Invalid reset code", nil)
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.LogError("Failed to hash new password: %v", err)
		utils.InternalServerError(c, "Password reset failed", nil)
		return
	}

	if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
		utils.LogError("Failed to update password for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Password reset failed", nil)
		return
	}

	config.DB.Delete(&otp)
	utils.LogInfo("Password reset for user %d", user.ID)
	utils.Success(c, "Password reset successfully", nil)
}
