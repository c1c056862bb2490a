// Package notification sends order-event emails over SMTP. Delivery is
// best-effort; callers log failures and continue.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"

	"go.uber.org/zap"

	apporder "github.com/rahulmuralitechnology/cartzilla-orders/internal/application/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
)

var orderPlacedCustomerTmpl = template.Must(template.New("orderPlacedCustomer").Parse(
	`Hi {{.CustomerName}},

Thank you for shopping with {{.StoreName}}!

Your order {{.OrderNumber}} has been placed.
Payment mode: {{.PaymentMode}}
Order total: {{.TotalAmount}}

We will keep you posted as your order moves.

{{.StoreName}}
`))

var orderPlacedOwnerTmpl = template.Must(template.New("orderPlacedOwner").Parse(
	`New order on {{.StoreName}}.

Order:        {{.OrderNumber}}
Customer:     {{.CustomerName}} ({{.CustomerEmail}})
Payment mode: {{.PaymentMode}}
Total:        {{.TotalAmount}}
`))

var statusChangedTmpl = template.Must(template.New("statusChanged").Parse(
	`Hi {{.CustomerName}},

Your order {{.OrderNumber}} from {{.StoreName}} is now {{.Status}}.

{{.StoreName}}
`))

// sendFunc matches smtp.SendMail so tests can capture outgoing mail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer implements the Notifier port over plain SMTP
type SMTPMailer struct {
	cfg    config.SMTPConfig
	send   sendFunc
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail, logger: logger}
}

// OrderPlaced sends the confirmation to the customer and, when the store has
// an owner address on file, a copy to the owner
func (m *SMTPMailer) OrderPlaced(ctx context.Context, n apporder.Notification) error {
	if !m.cfg.Enabled {
		return nil
	}

	subject := fmt.Sprintf("Order %s placed - %s", n.OrderNumber, n.StoreName)
	if err := m.deliver(ctx, n.CustomerEmail, subject, orderPlacedCustomerTmpl, n); err != nil {
		return err
	}

	if n.OwnerEmail != "" {
		ownerSubject := fmt.Sprintf("New order %s", n.OrderNumber)
		if err := m.deliver(ctx, n.OwnerEmail, ownerSubject, orderPlacedOwnerTmpl, n); err != nil {
			// Customer mail already went out; the owner copy is advisory
			m.logger.Warn("owner notification failed",
				zap.String("order_number", n.OrderNumber),
				zap.Error(err))
		}
	}
	return nil
}

// OrderStatusChanged tells the customer about a committed transition
func (m *SMTPMailer) OrderStatusChanged(ctx context.Context, n apporder.Notification) error {
	if !m.cfg.Enabled {
		return nil
	}
	subject := fmt.Sprintf("Order %s is %s", n.OrderNumber, n.Status)
	return m.deliver(ctx, n.CustomerEmail, subject, statusChangedTmpl, n)
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject string, tmpl *template.Template, n apporder.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" {
		return fmt.Errorf("notification: no recipient for %s", n.OrderNumber)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, n); err != nil {
		return fmt.Errorf("notification: render %s: %w", tmpl.Name(), err)
	}

	msg := buildMessage(m.cfg.From, to, subject, body.String())
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := m.send(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("notification: send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
