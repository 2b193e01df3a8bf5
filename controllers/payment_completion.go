package controllers

import (
	"time"

	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// completePayment records a successful capture on the order. The whole
// transition is a single conditional UPDATE so that the capture endpoint and
// the webhook can race freely: exactly one caller flips the order to
// payment_completed, every other caller sees zero rows affected and treats
// the call as an idempotent replay.
//
// Returns true when this caller won the transition.
func completePayment(order *models.Order, captureID, paymentStatus string) (bool, error) {
	now := time.Now()
	result := config.DB.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Where("status NOT IN ?", models.PaidStatuses).
		Where("paypal_capture_id = '' OR paypal_capture_id IS NULL").
		Updates(map[string]interface{}{
			"status":               models.OrderStatusPaymentCompleted,
			"paypal_capture_id":    captureID,
			"payment_status":       paymentStatus,
			"failure_reason":       "",
			"payment_completed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		utils.LogInfo("Order %s already completed, skipping duplicate completion", order.ID)
		return false, nil
	}

	order.Status = models.OrderStatusPaymentCompleted
	order.PayPalCaptureID = captureID
	order.PaymentStatus = paymentStatus
	order.PaymentCompletedAt = &now

	provisionIntake(order)
	sendPaymentConfirmation(order)
	return true, nil
}

// provisionIntake creates the onboarding form for a freshly paid order and
// moves the order into intake_pending. Safe to call more than once; the
// unique index on order_id guards against duplicates.
func provisionIntake(order *models.Order) {
	if order.UserID == nil {
		utils.LogError("Order %s completed without an owner, intake deferred", order.ID)
		return
	}

	var existing models.IntakeForm
	err := config.DB.Where("order_id = ?", order.ID).First(&existing).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.LogError("Failed to look up intake form for order %s: %v", order.ID, err)
		return
	}

	form := models.IntakeForm{
		OrderID:     order.ID,
		UserID:      *order.UserID,
		CurrentStep: 1,
	}
	if err := config.DB.Create(&form).Error; err != nil {
		utils.LogError("Failed to create intake form for order %s: %v", order.ID, err)
		return
	}

	if err := config.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusPaymentCompleted).
		Update("status", models.OrderStatusIntakePending).Error; err != nil {
		utils.LogError("Failed to advance order %s to intake: %v", order.ID, err)
		return
	}
	order.Status = models.OrderStatusIntakePending
	utils.LogInfo("Intake form created for order %s", order.ID)
}

// sendPaymentConfirmation emails the receipt. Delivery failures are logged
// and never fail the payment flow.
func sendPaymentConfirmation(order *models.Order) {
	email := order.GuestEmail
	name := ""
	if order.UserID != nil {
		var user models.User
		if err := config.DB.First(&user, *order.UserID).Error; err == nil {
			email = user.Email
			name = user.FullName
		}
	}
	if email == "" {
		return
	}
	if err := utils.SendPaymentConfirmationEmail(email, name, order.ProductName, order.AmountUSD, order.ID); err != nil {
		utils.LogError("Failed to send payment confirmation for order %s: %v", order.ID, err)
	}
}
