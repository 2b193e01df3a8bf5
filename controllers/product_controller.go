package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// ListProducts returns the active service catalog, optionally filtered by
// category.
func ListProducts(c *gin.Context) {
	query := config.DB.Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Order("price_usd ASC").Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch service packages", nil)
		return
	}

	utils.Success(c, "Service packages retrieved successfully", gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one service package by slug.
func GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	product, found := resolveProduct(slug)
	if !found {
		utils.NotFound(c, "Service package not found")
		return
	}

	utils.Success(c, "Service package retrieved successfully", product)
}
