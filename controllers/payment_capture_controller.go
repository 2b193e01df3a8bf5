package controllers

import (
	"math"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/gateway"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// amountEpsilon absorbs currency rounding between the stored total and the
// provider-reported capture amount. A multi-item order can accumulate up to
// a cent of rounding per line, so a couple of cents must still settle while
// a tampered amount (whole dollars off) fails.
const amountEpsilon = 0.05

// markPaymentFailed records a failed capture with its audit reason.
func markPaymentFailed(orderID, reason string) {
	if err := config.DB.Model(&models.Order{}).
		Where("id = ?", orderID).
		Where("status NOT IN ?", models.PaidStatuses).
		Updates(map[string]interface{}{
			"status":         models.OrderStatusPaymentFailed,
			"failure_reason": reason,
		}).Error; err != nil {
		utils.LogError("Failed to mark order %s as failed: %v", orderID, err)
	}
}

// CapturePayment finalizes the PayPal payment after buyer approval. The
// stored order total is revalidated against the canonical catalog price and
// against the provider-reported capture amount before the order completes.
func CapturePayment(c *gin.Context) {
	orderID := c.Param("id")
	utils.LogInfo("CapturePayment called for order %s", orderID)

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	user := userVal.(models.User)

	// Scope the lookup to the caller so foreign orders read as missing.
	var order models.Order
	if err := config.DB.Preload("Addons").
		Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to load order %s: %v", orderID, err)
		utils.InternalServerError(c, "Failed to load order", nil)
		return
	}

	if order.IsPaid() {
		utils.LogInfo("Order %s already paid, returning current state", order.ID)
		utils.Success(c, "Payment already completed", orderResponse(&order))
		return
	}

	if order.PayPalOrderID == "" {
		utils.BadRequest(c, "Order has no pending payment", nil)
		return
	}

	// Revalidate the stored total against the canonical catalog price so a
	// tampered row can never be captured.
	expected := 0.0
	if product, ok := resolveProduct(order.ProductSlug); ok {
		expected = product.PriceUSD
	}
	for _, addon := range order.Addons {
		if p, ok := resolveProduct(addon.Slug); ok {
			expected += p.PriceUSD
		} else {
			expected += addon.PriceUSD
		}
	}
	if expected == 0 || math.Abs(expected-order.AmountUSD) > amountEpsilon {
		utils.LogSecurity("Amount mismatch on order %s: stored %.2f, catalog %.2f", order.ID, order.AmountUSD, expected)
		markPaymentFailed(order.ID, models.FailureAmountMismatch)
		utils.BadRequest(c, "Payment could not be completed", nil)
		return
	}

	capture, err := gateway.Default.CaptureOrder(c.Request.Context(), order.PayPalOrderID)
	if err != nil {
		utils.LogError("Capture failed for order %s: %v", order.ID, err)
		utils.Error(c, 502, "Payment provider error", nil)
		return
	}

	if capture.Status != "COMPLETED" {
		utils.LogError("Capture for order %s returned status %s", order.ID, capture.Status)
		markPaymentFailed(order.ID, models.FailureCaptureIncomplete)
		utils.BadRequest(c, "Payment could not be completed", nil)
		return
	}

	if math.Abs(capture.AmountUSD-order.AmountUSD) > amountEpsilon {
		utils.LogSecurity("Provider amount mismatch on order %s: stored %.2f, captured %.2f", order.ID, order.AmountUSD, capture.AmountUSD)
		markPaymentFailed(order.ID, models.FailureAmountMismatch)
		utils.BadRequest(c, "Payment could not be completed", nil)
		return
	}

	won, err := completePayment(&order, capture.CaptureID, capture.Status)
	if err != nil {
		utils.LogError("Failed to record payment for order %s: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to record payment", nil)
		return
	}
	if !won {
		// The webhook got there first; reload and report the settled state.
		config.DB.Preload("Addons").First(&order, "id = ?", order.ID)
	}

	utils.LogInfo("Payment captured for order %s, capture %s", order.ID, order.PayPalCaptureID)
	utils.Success(c, "Payment completed successfully", orderResponse(&order))
}
