package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/gateway"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// webhookEvent is the subset of the PayPal webhook envelope we act on.
type webhookEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			Value        string `json:"value"`
			CurrencyCode string `json:"currency_code"`
		} `json:"amount"`
		SupplementaryData struct {
			RelatedIDs struct {
				OrderID string `json:"order_id"`
			} `json:"related_ids"`
		} `json:"supplementary_data"`
	} `json:"resource"`
}

// PayPalWebhook handles provider notifications. Signature verification runs
// against the exact raw bytes PayPal signed, so the body is read before any
// JSON decoding and restored for the verification call.
func PayPalWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		utils.BadRequest(c, "Invalid request body", nil)
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))

	webhookID := os.Getenv("PAYPAL_WEBHOOK_ID")
	if webhookID == "" {
		utils.LogError("PAYPAL_WEBHOOK_ID not set, webhook signature verification is DISABLED")
	} else {
		ok, err := gateway.Default.VerifyWebhookSignature(c.Request.Context(), c.Request, webhookID)
		if err != nil || !ok {
			utils.LogSecurity("Webhook signature verification failed from %s: %v", c.ClientIP(), err)
			utils.Unauthorized(c, "Invalid webhook signature")
			return
		}
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		utils.LogError("Failed to decode webhook payload: %v", err)
		utils.BadRequest(c, "Invalid webhook payload", nil)
		return
	}

	utils.LogInfo("Webhook received: %s (%s)", event.EventType, event.ID)

	// Only completed captures mutate state; everything else is acknowledged
	// so PayPal stops redelivering.
	if event.EventType != "PAYMENT.CAPTURE.COMPLETED" {
		utils.Success(c, "Event acknowledged", nil)
		return
	}

	paypalOrderID := event.Resource.SupplementaryData.RelatedIDs.OrderID
	if paypalOrderID == "" {
		utils.LogError("Capture webhook %s carries no order reference", event.ID)
		utils.BadRequest(c, "Missing order reference", nil)
		return
	}

	var order models.Order
	if err := config.DB.Where("paypal_order_id = ?", paypalOrderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.LogError("Webhook %s references unknown PayPal order %s", event.ID, paypalOrderID)
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to load order for webhook %s: %v", event.ID, err)
		utils.InternalServerError(c, "Failed to load order", nil)
		return
	}

	// Guest orders are attached to an account before completion so the
	// intake form and project have an owner.
	if order.UserID == nil {
		if err := resolveGuestOrder(&order); err != nil {
			utils.LogError("Failed to resolve guest order %s: %v", order.ID, err)
			utils.InternalServerError(c, "Failed to resolve order owner", nil)
			return
		}
	}

	if _, err := completePayment(&order, event.Resource.ID, "COMPLETED"); err != nil {
		utils.LogError("Failed to complete order %s from webhook: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to record payment", nil)
		return
	}

	utils.Success(c, "Webhook processed", nil)
}

// resolveGuestOrder finds or provisions an account for the guest email and
// attaches it to the order.
func resolveGuestOrder(order *models.Order) error {
	if valid, _ := utils.ValidateEmail(order.GuestEmail); !valid {
		utils.LogError("Guest order %s has no usable email, leaving unowned", order.ID)
		return nil
	}

	var user models.User
	err := config.DB.Where("email = ?", order.GuestEmail).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		password, genErr := utils.GenerateRandomPassword()
		if genErr != nil {
			return genErr
		}
		hashed, hashErr := utils.HashPassword(password)
		if hashErr != nil {
			return hashErr
		}
		user = models.User{
			Email:      order.GuestEmail,
			Password:   hashed,
			Role:       models.RoleClient,
			IsVerified: true,
		}
		if createErr := config.DB.Create(&user).Error; createErr != nil {
			// Lost a race with a concurrent registration; reload.
			if lookupErr := config.DB.Where("email = ?", order.GuestEmail).First(&user).Error; lookupErr != nil {
				return createErr
			}
		} else {
			utils.LogInfo("Provisioned account %d for guest checkout %s", user.ID, order.ID)
		}
	} else if err != nil {
		return err
	}

	if err := config.DB.Model(&models.Order{}).
		Where("id = ? AND user_id IS NULL", order.ID).
		Update("user_id", user.ID).Error; err != nil {
		return err
	}
	order.UserID = &user.ID
	return nil
}
