package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and issues a signed token.
func Login(c *gin.Context) {
	utils.LogInfo("Login called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogSecurity("Login failed for unknown email %s from %s", req.Email, c.ClientIP())
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if user.GoogleID != "" && user.Password == "" {
		utils.Unauthorized(c, "This account uses Google sign-in")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogSecurity("Login failed for user %d from %s", user.ID, c.ClientIP())
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if user.IsBlocked {
		utils.LogSecurity("Blocked user %d attempted login", user.ID)
		utils.Forbidden(c, "Account is blocked")
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to issue token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Login failed", nil)
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())

	utils.LogInfo("User %d logged in", user.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

// Logout blacklists the presented token until its natural expiry.
func Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		utils.BadRequest(c, "No token provided", nil)
		return
	}

	// Expiry is read without re-verifying; the auth middleware already
	// validated the signature for this request.
	expiresAt := time.Now().Add(24 * time.Hour)
	if token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{}); err == nil {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expiresAt = time.Unix(int64(exp), 0)
			}
		}
	}

	entry := models.BlacklistedToken{Token: tokenString, ExpiresAt: expiresAt}
	if err := config.DB.Create(&entry).Error; err != nil {
		utils.LogError("Failed to blacklist token: %v", err)
		utils.InternalServerError(c, "Logout failed", nil)
		return
	}

	utils.Success(c, "Logged out successfully", nil)
}
