package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status constants. Transitions are forward-only except the
// payment_failed branch and cancellation from pre-completion states.
const (
	OrderStatusPending           = "pending"
	OrderStatusPaymentProcessing = "payment_processing"
	OrderStatusPaymentCompleted  = "payment_completed"
	OrderStatusPaymentFailed     = "payment_failed"
	OrderStatusIntakePending     = "intake_pending"
	OrderStatusIntakeCompleted   = "intake_completed"
	OrderStatusInProgress        = "in_progress"
	OrderStatusCompleted         = "completed"
	OrderStatusCancelled         = "cancelled"
)

// Payment failure reasons recorded on the order for audit
const (
	FailureAmountMismatch    = "amount_mismatch"
	FailureCaptureIncomplete = "capture_incomplete"
)

// PaidStatuses are the statuses at or beyond payment completion. An order in
// any of these must hold a capture reference and must never be completed again.
var PaidStatuses = []string{
	OrderStatusPaymentCompleted,
	OrderStatusIntakePending,
	OrderStatusIntakeCompleted,
	OrderStatusInProgress,
	OrderStatusCompleted,
}

// CancellableStatuses are the pre-completion statuses from which a user or
// admin may cancel an order.
var CancellableStatuses = []string{
	OrderStatusPending,
	OrderStatusPaymentProcessing,
	OrderStatusPaymentFailed,
	OrderStatusIntakePending,
	OrderStatusIntakeCompleted,
	OrderStatusInProgress,
}

// Order is the local record of a purchase attempt. UserID stays nil for guest
// checkouts until the webhook resolves the guest email to an account. Orders
// are never hard-deleted.
type Order struct {
	ID                 string       `gorm:"primaryKey;size:36" json:"id"`
	UserID             *uint        `gorm:"index" json:"user_id"`
	User               *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ProductSlug        string       `gorm:"index;not null" json:"product_slug"`
	ProductName        string       `json:"product_name"`
	AmountUSD          float64      `json:"amount_usd"`
	Status             string       `gorm:"index;default:'pending'" json:"status"`
	FailureReason      string       `json:"failure_reason,omitempty"`
	PayPalOrderID      string       `gorm:"column:paypal_order_id;index" json:"paypal_order_id"`
	PayPalCaptureID    string       `gorm:"column:paypal_capture_id" json:"paypal_capture_id"`
	PaymentStatus      string       `json:"payment_status,omitempty"`
	GuestEmail         string       `json:"guest_email,omitempty"`
	PaymentCompletedAt *time.Time   `json:"payment_completed_at,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Addons             []OrderAddon `json:"addons" gorm:"foreignKey:OrderID"`
}

// OrderAddon is a price snapshot of an add-on included at order creation.
// Kept for support and audit; the stored order total is authoritative.
type OrderAddon struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  string  `gorm:"index;size:36;not null" json:"order_id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	PriceUSD float64 `json:"price_usd"`
}

// BeforeCreate assigns the opaque order ID used as the PayPal correlation token.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// IsPaid reports whether the order has reached payment completion or later.
func (o *Order) IsPaid() bool {
	for _, s := range PaidStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}
