package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/gateway"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// CreateOrderRequest is the checkout payload. Guests must supply guest_email;
// authenticated callers may omit it.
type CreateOrderRequest struct {
	ProductSlug string   `json:"product_slug" binding:"required"`
	AddonSlugs  []string `json:"addon_slugs"`
	GuestEmail  string   `json:"guest_email"`
}

// resolveProduct looks a service package up by slug, preferring the database
// row over the static catalog so admin price edits take effect.
func resolveProduct(slug string) (models.Product, bool) {
	var product models.Product
	err := config.DB.Where("slug = ? AND is_active = ?", slug, true).First(&product).Error
	if err == nil {
		return product, true
	}
	if err != gorm.ErrRecordNotFound {
		utils.LogError("Product lookup failed for %s: %v", slug, err)
	}
	return models.FindDefaultProduct(slug)
}

// CreateOrder starts checkout: it prices the package server-side, records a
// pending order, then registers the order with PayPal.
func CreateOrder(c *gin.Context) {
	utils.LogInfo("CreateOrder called")

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid checkout request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var userID *uint
	if userVal, exists := c.Get("user"); exists {
		user := userVal.(models.User)
		userID = &user.ID
	} else {
		if req.GuestEmail == "" {
			utils.LogError("Guest checkout attempted without an email")
			utils.BadRequest(c, "Email is required for guest checkout", nil)
			return
		}
		if valid, msg := utils.ValidateEmail(req.GuestEmail); !valid {
			utils.BadRequest(c, msg, nil)
			return
		}
	}

	product, found := resolveProduct(req.ProductSlug)
	if !found {
		utils.LogError("Unknown product slug: %s", req.ProductSlug)
		utils.NotFound(c, "Service package not found")
		return
	}

	total := product.PriceUSD
	addons := make([]models.OrderAddon, 0, len(req.AddonSlugs))
	for _, slug := range req.AddonSlugs {
		addon, ok := resolveProduct(slug)
		if !ok {
			utils.LogError("Unknown addon slug %s in checkout", slug)
			utils.BadRequest(c, "Unknown add-on: "+slug, nil)
			return
		}
		total += addon.PriceUSD
		addons = append(addons, models.OrderAddon{
			Slug:     addon.Slug,
			Name:     addon.Name,
			PriceUSD: addon.PriceUSD,
		})
	}

	order := models.Order{
		UserID:      userID,
		ProductSlug: product.Slug,
		ProductName: product.Name,
		AmountUSD:   total,
		Status:      models.OrderStatusPending,
		GuestEmail:  req.GuestEmail,
		Addons:      addons,
	}
	if err := config.DB.Create(&order).Error; err != nil {
		utils.LogError("Failed to create order: %v", err)
		utils.InternalServerError(c, "Failed to create order", nil)
		return
	}

	paypalOrderID, err := gateway.Default.CreateOrder(c.Request.Context(), total, product.Name, order.ID)
	if err != nil {
		// The pending row stays for audit; the client may retry checkout.
		utils.LogError("PayPal order creation failed for order %s: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to initialize payment", nil)
		return
	}

	if err := config.DB.Model(&order).Updates(map[string]interface{}{
		"paypal_order_id": paypalOrderID,
		"status":          models.OrderStatusPaymentProcessing,
	}).Error; err != nil {
		utils.LogError("Failed to record PayPal order ID for order %s: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to create order", nil)
		return
	}

	utils.LogInfo("Order %s created for %s, total %.2f USD", order.ID, product.Slug, total)
	utils.Created(c, "Order created successfully", gin.H{
		"order_id":        order.ID,
		"paypal_order_id": paypalOrderID,
		"amount_usd":      total,
		"product_name":    product.Name,
	})
}
