package controllers

import (
	"encoding/json"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// googleUserInfo is the userinfo payload returned after token exchange.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleLogin redirects the browser to Google's consent screen.
func GoogleLogin(c *gin.Context) {
	state := uuid.New().String()
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save OAuth state: %v", err)
		utils.InternalServerError(c, "Failed to start Google sign-in", nil)
		return
	}

	url := config.GoogleOAuthConfig.AuthCodeURL(state)
	c.Redirect(302, url)
}

// GoogleCallback exchanges the consent code, finds or creates an account for
// the Google identity, and redirects back to the app with a token.
func GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	expectedState, _ := session.Get("oauth_state").(string)
	session.Delete("oauth_state")
	_ = session.Save()

	if expectedState == "" || c.Query("state") != expectedState {
		utils.LogSecurity("OAuth state mismatch from %s", c.ClientIP())
		utils.Unauthorized(c, "Invalid OAuth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "Missing authorization code", nil)
		return
	}

	token, err := config.GoogleOAuthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		utils.LogError("OAuth code exchange failed: %v", err)
		utils.Unauthorized(c, "Google sign-in failed")
		return
	}

	client := config.GoogleOAuthConfig.Client(c.Request.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		utils.LogError("Failed to fetch Google user info: %v", err)
		utils.Unauthorized(c, "Google sign-in failed")
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		utils.LogError("Failed to decode Google user info: %v", err)
		utils.Unauthorized(c, "Google sign-in failed")
		return
	}
	if info.Email == "" || !info.VerifiedEmail {
		utils.Unauthorized(c, "Google account email is not verified")
		return
	}

	var user models.User
	err = config.DB.Where("google_id = ?", info.ID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		// Link by email when the account predates Google sign-in.
		err = config.DB.Where("email = ?", info.Email).First(&user).Error
		if err == nil {
			config.DB.Model(&user).Update("google_id", info.ID)
		} else if err == gorm.ErrRecordNotFound {
			user = models.User{
				Email:      info.Email,
				FullName:   info.Name,
				GoogleID:   info.ID,
				Role:       models.RoleClient,
				IsVerified: true,
			}
			if err := config.DB.Create(&user).Error; err != nil {
				utils.LogError("Failed to create account for Google user: %v", err)
				utils.InternalServerError(c, "Google sign-in failed", nil)
				return
			}
			utils.LogInfo("Account created via Google sign-in for %s", user.Email)
		}
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		utils.LogError("Failed to look up Google user: %v", err)
		utils.InternalServerError(c, "Google sign-in failed", nil)
		return
	}

	if user.IsBlocked {
		utils.Forbidden(c, "Account is blocked")
		return
	}

	jwtToken, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to issue token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Google sign-in failed", nil)
		return
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		utils.Success(c, "Login successful", gin.H{"token": jwtToken})
		return
	}
	c.Redirect(302, appURL+"/auth/callback?token="+jwtToken)
}
