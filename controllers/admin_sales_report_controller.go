package controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

func reportWindow(period string) (time.Time, error) {
	now := time.Now()
	switch period {
	case "day":
		return now.AddDate(0, 0, -1), nil
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown period: %s", period)
}

// DownloadSalesReportExcel exports paid-and-later orders for the requested
// period as an Excel sheet.
func DownloadSalesReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadSalesReportExcel called")

	period := c.DefaultQuery("period", "day")
	since, err := reportWindow(period)
	if err != nil {
		utils.BadRequest(c, "Period must be one of: day, week, month, year", nil)
		return
	}

	var orders []models.Order
	if err := config.DB.
		Where("created_at >= ? AND status NOT IN ?", since,
			[]string{models.OrderStatusPending, models.OrderStatusCancelled}).
		Order("created_at").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders for sales report: %v", err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("EMPORIO DIGITAL - Sales Report")
	periodRow := sheet.AddRow()
	periodRow.AddCell().SetString(fmt.Sprintf("Period: %s (since %s)", period, since.Format("02/01/2006")))
	sheet.AddRow()

	header := sheet.AddRow()
	for _, title := range []string{"Order ID", "User ID", "Status", "Subtotal", "Discount", "Shipping", "Total", "Coupon", "Created At"} {
		cell := header.AddCell()
		cell.SetString(title)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var totalSales float64
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(order.ID))
		row.AddCell().SetInt(int(order.UserID))
		row.AddCell().SetString(order.Status)
		row.AddCell().SetFloat(order.SubTotal)
		row.AddCell().SetFloat(order.Discount)
		row.AddCell().SetFloat(order.ShippingCost)
		row.AddCell().SetFloat(order.TotalAmount)
		row.AddCell().SetString(order.CouponCode)
		row.AddCell().SetString(order.CreatedAt.Format("02/01/2006 15:04"))
		totalSales += order.TotalAmount
	}

	sheet.AddRow()
	totalRow := sheet.AddRow()
	totalRow.AddCell().SetString("Total sales")
	totalRow.AddCell().SetFloat(utils.RoundMoney(totalSales))

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales-report-%s.xlsx", period))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
