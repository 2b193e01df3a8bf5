package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// orderRank orders the lifecycle for the forward-only admin override check.
var orderRank = map[string]int{
	models.OrderStatusPending:           0,
	models.OrderStatusPaymentProcessing: 1,
	models.OrderStatusPaymentFailed:     1,
	models.OrderStatusPaymentCompleted:  2,
	models.OrderStatusIntakePending:     3,
	models.OrderStatusIntakeCompleted:   4,
	models.OrderStatusInProgress:        5,
	models.OrderStatusCompleted:         6,
}

// AdminListOrders returns all orders, optionally filtered by status.
func AdminListOrders(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("Addons").Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	response := make([]gin.H, 0, len(orders))
	for i := range orders {
		entry := orderResponse(&orders[i])
		if orders[i].User != nil {
			entry["user_email"] = orders[i].User.Email
		} else {
			entry["guest_email"] = orders[i].GuestEmail
		}
		response = append(response, entry)
	}

	utils.SendPaginatedResponse(c, "Orders retrieved successfully", response, pagination)
}

// AdminGetOrder returns any order with its intake form state.
func AdminGetOrder(c *gin.Context) {
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.Preload("Addons").Preload("User").
		First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to load order %s: %v", orderID, err)
		utils.InternalServerError(c, "Failed to load order", nil)
		return
	}

	response := orderResponse(&order)
	response["paypal_capture_id"] = order.PayPalCaptureID
	if order.User != nil {
		response["user_email"] = order.User.Email
	}

	var intake models.IntakeForm
	if err := config.DB.Where("order_id = ?", order.ID).First(&intake).Error; err == nil {
		response["intake_form"] = intake
	}

	utils.Success(c, "Order retrieved successfully", response)
}

// AdminUpdateOrderStatusRequest carries a manual status override.
type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateOrderStatus overrides an order's status. Transitions are
// forward-only; cancellation is the one backward move allowed. Payment
// states themselves are owned by the capture path and cannot be set here.
func AdminUpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var req AdminUpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to load order %s: %v", orderID, err)
		utils.InternalServerError(c, "Failed to load order", nil)
		return
	}

	switch req.Status {
	case models.OrderStatusCancelled:
		// allowed from any non-terminal state
		if order.Status == models.OrderStatusCompleted || order.Status == models.OrderStatusCancelled {
			utils.BadRequest(c, "Order cannot be cancelled in its current status", nil)
			return
		}
	case models.OrderStatusInProgress, models.OrderStatusCompleted:
		newRank, ok := orderRank[req.Status]
		curRank, cur := orderRank[order.Status]
		if !ok || !cur || newRank <= curRank {
			utils.BadRequest(c, "Invalid status transition", nil)
			return
		}
		if !order.IsPaid() {
			utils.BadRequest(c, "Order has not been paid", nil)
			return
		}
	default:
		utils.BadRequest(c, "Status cannot be set manually", nil)
		return
	}

	if err := config.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		utils.LogError("Failed to update order %s status: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to update order", nil)
		return
	}

	utils.LogInfo("Admin set order %s status to %s", order.ID, req.Status)
	order.Status = req.Status
	utils.Success(c, "Order status updated", orderResponse(&order))
}
