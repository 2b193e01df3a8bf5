package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// reportWindow resolves the requested period to a date range.
func reportWindow(period string) (time.Time, time.Time) {
	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	var start time.Time
	switch period {
	case "week":
		start = end.AddDate(0, 0, -6)
	case "month":
		start = end.AddDate(0, -1, 0)
	case "year":
		start = end.AddDate(-1, 0, 0)
	default: // day
		start = end
	}
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()), end
}

// DownloadRevenueReport exports paid orders for a period as an Excel sheet.
func DownloadRevenueReport(c *gin.Context) {
	utils.LogInfo("DownloadRevenueReport called")

	period := c.DefaultQuery("period", "month")
	startDate, endDate := reportWindow(period)

	var orders []models.Order
	if err := config.DB.Preload("User").
		Where("status IN ?", models.PaidStatuses).
		Where("payment_completed_at BETWEEN ? AND ?", startDate, endDate).
		Order("payment_completed_at ASC").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for revenue report: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Revenue Report")
	if err != nil {
		utils.LogError("Failed to create report sheet: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().SetString("SYNERGYX DIGITAL - Revenue Report")
	headerRow = sheet.AddRow()
	headerRow.AddCell().SetString("Period: " + period + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	columns := sheet.AddRow()
	for _, title := range []string{"Order ID", "Customer", "Service", "Amount (USD)", "Paid At", "Status"} {
		cell := columns.AddCell()
		cell.SetString(title)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var totalRevenue float64
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(order.ID)
		email := order.GuestEmail
		if order.User != nil {
			email = order.User.Email
		}
		row.AddCell().SetString(email)
		row.AddCell().SetString(order.ProductName)
		row.AddCell().SetString(fmt.Sprintf("%.2f", order.AmountUSD))
		paidAt := ""
		if order.PaymentCompletedAt != nil {
			paidAt = order.PaymentCompletedAt.Format("2006-01-02 15:04:05")
		}
		row.AddCell().SetString(paidAt)
		row.AddCell().SetString(order.Status)
		totalRevenue += order.AmountUSD
	}

	sheet.AddRow() // spacing
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Total Orders")
	summaryRow.AddCell().SetString(fmt.Sprintf("%d", len(orders)))
	summaryRow = sheet.AddRow()
	summaryRow.AddCell().SetString("Total Revenue")
	summaryRow.AddCell().SetString(fmt.Sprintf("%.2f", totalRevenue))

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=revenue_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write revenue report: %v", err)
		utils.InternalServerError(c, "Failed to write report", nil)
		return
	}
	utils.LogInfo("Revenue report generated for period %s (%d orders)", period, len(orders))
}
