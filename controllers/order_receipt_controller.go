package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// DownloadReceipt generates a PDF receipt for a paid order.
func DownloadReceipt(c *gin.Context) {
	utils.LogInfo("DownloadReceipt called")

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
		utils.LogError("Failed to load order %s for receipt: %v", orderID, err)
		utils.InternalServerError(c, "Failed to load order", nil)
		return
	}

	if !order.IsPaid() {
		utils.BadRequest(c, "Receipt is only available for paid orders", nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Agency header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "SynergyX Digital")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Marketing & Web Services")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: billing@synergyx.digital")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(90, 8, "Order ID: "+order.ID)
	pdf.Ln(8)
	if order.PaymentCompletedAt != nil {
		pdf.Cell(90, 8, "Paid On: "+order.PaymentCompletedAt.Format("2006-01-02 15:04:05"))
		pdf.Ln(8)
	}
	pdf.Cell(90, 8, "PayPal Transaction: "+order.PayPalCaptureID)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	if user.FullName != "" {
		pdf.Cell(100, 8, user.FullName)
		pdf.Ln(6)
	}
	pdf.Cell(100, 8, user.Email)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Service", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price (USD)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(120, 8, order.ProductName, "1", 0, "L", false, 0, "")

	base := order.AmountUSD
	for _, a := range order.Addons {
		base -= a.PriceUSD
	}
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", base), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	for _, addon := range order.Addons {
		pdf.CellFormat(120, 8, addon.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", addon.PriceUSD), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Total Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f", order.AmountUSD), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for choosing SynergyX Digital!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate receipt for order %s: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=receipt.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	utils.LogInfo("Receipt downloaded for order %s", order.ID)
}
