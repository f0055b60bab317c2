package controllers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoice generates and returns a PDF invoice for the order
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").
		Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		utils.AppErrorResponse(c, utils.ErrOrderNotFound)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Store header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Emporio Digital")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Av. Paulista 1000, Sao Paulo - SP")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: suporte@emporiodigital.com.br")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, fmt.Sprintf("Order #%d", order.ID))
	pdf.Ln(8)
	pdf.Cell(100, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02/01/2006")))
	pdf.Ln(8)
	pdf.Cell(100, 8, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(12)

	// Shipping address snapshot
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(100, 8, "Ship to:")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	addr := order.ShippingAddress
	pdf.Cell(100, 6, addr.Line1)
	pdf.Ln(6)
	if addr.Line2 != "" {
		pdf.Cell(100, 6, addr.Line2)
		pdf.Ln(6)
	}
	pdf.Cell(100, 6, fmt.Sprintf("%s - %s, %s", addr.City, addr.State, addr.PostalCode))
	pdf.Ln(12)

	// Items table
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.OrderItems {
		pdf.CellFormat(80, 8, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(4)

	// Totals
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(140, 8, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", order.SubTotal), "", 0, "R", false, 0, "")
	pdf.Ln(8)
	if order.Discount > 0 {
		pdf.CellFormat(140, 8, fmt.Sprintf("Discount (%s)", order.CouponCode), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("-%.2f", order.Discount), "", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.CellFormat(140, 8, fmt.Sprintf("Shipping (%s)", order.ShippingMethod), "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", order.ShippingCost), "", 0, "R", false, 0, "")
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(140, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", order.TotalAmount), "", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate invoice PDF for order ID: %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", order.ID))
	c.Data(200, "application/pdf", buf.Bytes())
}
