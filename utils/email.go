package utils

import (
	"fmt"
	"strconv"

	"github.com/emporio-digital/storefront/config"
	"github.com/emporio-digital/storefront/models"

	"gopkg.in/gomail.v2"
)

// SendEmail sends an HTML email through the configured SMTP relay.
func SendEmail(to, subject, body string) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		LogDebug("SMTP not configured, skipping email to %s", to)
		return nil
	}

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// NotifyOrderCreated emails the order confirmation. Called in a goroutine
// after the order transaction commits; a failure is logged, never surfaced.
func NotifyOrderCreated(user models.User, order models.Order) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order #%d was placed successfully.</p>"+
			"<p>Total: %.2f (%s, %d business days)</p>",
		user.Username, order.ID, order.TotalAmount, order.ShippingMethod, order.DeliveryDays)
	if err := SendEmail(user.Email, fmt.Sprintf("Order #%d confirmed", order.ID), body); err != nil {
		LogError("Failed to send order confirmation for order %d: %v", order.ID, err)
	}
}

// NotifyRefundResolved emails the outcome of a refund request.
func NotifyRefundResolved(user models.User, order models.Order, approved bool, amount float64) {
	var body string
	if approved {
		body = fmt.Sprintf("<p>Hi %s,</p><p>Your refund for order #%d was approved: %.2f.</p>",
			user.Username, order.ID, amount)
	} else {
		body = fmt.Sprintf("<p>Hi %s,</p><p>Your refund request for order #%d was rejected.</p>",
			user.Username, order.ID)
	}
	if err := SendEmail(user.Email, fmt.Sprintf("Refund update for order #%d", order.ID), body); err != nil {
		LogError("Failed to send refund notice for order %d: %v", order.ID, err)
	}
}
