package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/synergyx/agency-api/utils"
)

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required"`
	Company   string `json:"company"`
	Subject   string `json:"subject" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// SubmitContactForm validates the inquiry and forwards it to the agency inbox.
func SubmitContactForm(c *gin.Context) {
	utils.LogInfo("SubmitContactForm called")

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	if valid, msg := utils.ValidateName(req.FirstName); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	if valid, msg := utils.ValidateRequiredText("subject", req.Subject, 3); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	if valid, msg := utils.ValidateRequiredText("message", req.Message, 10); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}
	for _, field := range []string{req.FirstName, req.LastName, req.Company, req.Subject, req.Message} {
		if valid, msg := utils.ValidateXSS(field); !valid {
			utils.LogSecurity("Rejected contact form from %s: %s", c.ClientIP(), msg)
			utils.BadRequest(c, "Invalid input detected", nil)
			return
		}
	}

	err := utils.SendContactFormEmail(
		utils.SanitizeString(req.FirstName),
		utils.SanitizeString(req.LastName),
		req.Email,
		utils.SanitizeString(req.Company),
		utils.SanitizeString(req.Subject),
		utils.SanitizeString(req.Message),
	)
	if err != nil {
		utils.LogError("Failed to forward contact form from %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send your message, please try again", nil)
		return
	}

	utils.LogInfo("Contact form forwarded for %s", req.Email)
	utils.Success(c, "Your message has been sent", nil)
}
