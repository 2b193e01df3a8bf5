package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// orderResponse shapes an order for API output.
func orderResponse(order *models.Order) gin.H {
	addons := make([]gin.H, 0, len(order.Addons))
	for _, a := range order.Addons {
		addons = append(addons, gin.H{
			"slug":      a.Slug,
			"name":      a.Name,
			"price_usd": a.PriceUSD,
		})
	}
	resp := gin.H{
		"id":              order.ID,
		"product_slug":    order.ProductSlug,
		"product_name":    order.ProductName,
		"amount_usd":      order.AmountUSD,
		"status":          order.Status,
		"paypal_order_id": order.PayPalOrderID,
		"addons":          addons,
		"created_at":      order.CreatedAt,
	}
	if order.PaymentCompletedAt != nil {
		resp["payment_completed_at"] = order.PaymentCompletedAt
	}
	if order.FailureReason != "" {
		resp["failure_reason"] = order.FailureReason
	}
	return resp
}

// ListOrders returns the caller's orders, newest first.
func ListOrders(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	if err := config.DB.Preload("Addons").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	response := make([]gin.H, 0, len(orders))
	for i := range orders {
		response = append(response, orderResponse(&orders[i]))
	}
	utils.SendPaginatedResponse(c, "Orders retrieved successfully", response, pagination)
}

// GetOrderDetails returns one of the caller's orders. Foreign orders read as
// missing so IDs cannot be probed.
func GetOrderDetails(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)
	orderID := c.Param("id")

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

	utils.Success(c, "Order retrieved successfully", orderResponse(&order))
}

// CancelOrder cancels a pre-completion order. Completed work is not
// cancellable through the API.
func CancelOrder(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.Where("id = ? AND user_id = ?", orderID, user.ID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to load order %s: %v", orderID, err)
		utils.InternalServerError(c, "Failed to load order", nil)
		return
	}

	result := config.DB.Model(&models.Order{}).
		Where("id = ? AND status IN ?", order.ID, models.CancellableStatuses).
		Update("status", models.OrderStatusCancelled)
	if result.Error != nil {
		utils.LogError("Failed to cancel order %s: %v", order.ID, result.Error)
		utils.InternalServerError(c, "Failed to cancel order", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.BadRequest(c, "Order cannot be cancelled in its current status", nil)
		return
	}

	utils.LogInfo("Order %s cancelled by user %d", order.ID, user.ID)
	order.Status = models.OrderStatusCancelled
	utils.Success(c, "Order cancelled successfully", orderResponse(&order))
}
