package controllers

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// RegistrationData is staged in the session until the email OTP is verified.
// No account row exists before verification.
type RegistrationData struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FullName        string `json:"full_name" binding:"required"`
	CompanyName     string `json:"company_name"`
	Phone           string `json:"phone"`
}

// VerifyOTPRequest confirms an emailed registration code.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

const otpValidity = 10 * time.Minute

// Register validates the signup payload, stages it in the session, and emails
// a verification code. The account is created only after VerifyOTP succeeds.
func Register(c *gin.Context) {
	utils.LogInfo("Register called")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid registration request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.BadRequest(c, "Passwords do not match", nil)
		return
	}
	if valid, msg := utils.ValidateName(req.FullName); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	if req.Phone != "" {
		valid, cleaned := utils.ValidatePhone(req.Phone)
		if !valid {
			utils.BadRequest(c, cleaned, nil)
			return
		}
		req.Phone = cleaned
	}

	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Conflict(c, "An account with this email already exists", nil)
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.LogError("Failed to check existing account: %v", err)
		utils.InternalServerError(c, "Registration failed", nil)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Registration failed", nil)
		return
	}

	session := sessions.Default(c)
	session.Set("registration", RegistrationData{
		Email:       req.Email,
		Password:    hashed,
		FullName:    utils.SanitizeString(req.FullName),
		CompanyName: utils.SanitizeString(req.CompanyName),
		Phone:       req.Phone,
	})
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save registration session: %v", err)
		utils.InternalServerError(c, "Registration failed", nil)
		return
	}

	if err := issueOTP(req.Email, "registration"); err != nil {
		utils.LogError("Failed to send registration OTP to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send verification code", nil)
		return
	}

	utils.LogInfo("Registration staged for %s, OTP sent", req.Email)
	utils.Success(c, "Verification code sent to your email", gin.H{"email": req.Email})
}

// issueOTP stores a fresh code for the email and purpose and mails it out.
// Older codes for the same purpose are invalidated.
func issueOTP(email, purpose string) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	config.DB.Where("email = ? AND purpose = ?", email, purpose).Delete(&models.UserOTP{})
	otp := models.UserOTP{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(otpValidity),
	}
	if err := config.DB.Create(&otp).Error; err != nil {
		return err
	}

	if purpose == "password_reset" {
		return utils.SendPasswordResetOTP(email, code)
	}
	return utils.SendOTP(email, code)
}

// VerifyOTP checks the emailed code and creates the account from the staged
// registration data.
func VerifyOTP(c *gin.Context) {
	utils.LogInfo("VerifyOTP called")

	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var otp models.UserOTP
	err := config.DB.Where("email = ? AND code = ? AND purpose = ?", req.Email, req.OTP, "registration").
		First(&otp).Error
	if err != nil {
		utils.LogSecurity("Invalid OTP attempt for %s from %s", req.Email, c.ClientIP())
		utils.BadRequest(c, "Invalid verification code", nil)
		return
	}
	if time.Now().After(otp.ExpiresAt) {
		config.DB.Delete(&otp)
		utils.BadRequest(c, "Verification code has expired", nil)
		return
	}

	session := sessions.Default(c)
	staged, ok := session.Get("registration").(RegistrationData)
	if !ok || staged.Email != req.Email {
		utils.BadRequest(c, "No pending registration for this email", nil)
		return
	}

	user := models.User{
		Email:       staged.Email,
		Password:    staged.Password,
		FullName:    staged.FullName,
		CompanyName: staged.CompanyName,
		Phone:       staged.Phone,
		Role:        models.RoleClient,
		IsVerified:  true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create account for %s: %v", staged.Email, err)
		utils.InternalServerError(c, "Registration failed", nil)
		return
	}

	config.DB.Delete(&otp)
	session.Delete("registration")
	_ = session.Save()

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to issue token for new user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Registration succeeded but login failed", nil)
		return
	}

	utils.LogInfo("Account created for %s (user %d)", user.Email, user.ID)
	utils.Created(c, "Account created successfully", gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

// ResendOTP re-issues the registration code for a staged signup.
func ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	session := sessions.Default(c)
	staged, ok := session.Get("registration").(RegistrationData)
	if !ok || staged.Email != req.Email {
		utils.BadRequest(c, "No pending registration for this email", nil)
		return
	}

	if err := issueOTP(req.Email, "registration"); err != nil {
		utils.LogError("Failed to resend OTP to %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send verification code", nil)
		return
	}

	utils.Success(c, "Verification code sent to your email", gin.H{"email": req.Email})
}
