package notification

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apporder "github.com/rahulmuralitechnology/cartzilla-orders/internal/application/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/infrastructure/config"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func testMailer(enabled bool) (*SMTPMailer, *[]sentMail) {
	cfg := config.SMTPConfig{
		Host:    "smtp.example.com",
		Port:    587,
		From:    "orders@example.com",
		Enabled: enabled,
	}
	m := NewSMTPMailer(cfg, zap.NewNop())
	sent := &[]sentMail{}
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return m, sent
}

func testNotification() apporder.Notification {
	return apporder.Notification{
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		OwnerEmail:    "owner@chaipoint.example",
		StoreName:     "Chai Point",
		OrderNumber:   "ORD-2026-00001",
		Status:        "PROCESSING",
		PaymentMode:   "COD",
		TotalAmount:   decimal.RequireFromString("236"),
	}
}

func TestOrderPlacedMailsCustomerAndOwner(t *testing.T) {
	m, sent := testMailer(true)

	require.NoError(t, m.OrderPlaced(context.Background(), testNotification()))
	require.Len(t, *sent, 2)

	customer := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", customer.addr)
	assert.Equal(t, []string{"asha@example.com"}, customer.to)
	assert.Contains(t, customer.msg, "Subject: Order ORD-2026-00001 placed - Chai Point")
	assert.Contains(t, customer.msg, "Hi Asha")
	assert.Contains(t, customer.msg, "Order total: 236")

	owner := (*sent)[1]
	assert.Equal(t, []string{"owner@chaipoint.example"}, owner.to)
	assert.Contains(t, owner.msg, "New order on Chai Point")
	assert.Contains(t, owner.msg, "asha@example.com")
}

func TestOrderPlacedSkipsOwnerWithoutAddress(t *testing.T) {
	m, sent := testMailer(true)
	n := testNotification()
	n.OwnerEmail = ""

	require.NoError(t, m.OrderPlaced(context.Background(), n))
	assert.Len(t, *sent, 1)
}

func TestOrderPlacedOwnerFailureIsAdvisory(t *testing.T) {
	m, _ := testMailer(true)
	calls := 0
	m.send = func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		calls++
		if to[0] == "owner@chaipoint.example" {
			return errors.New("mailbox full")
		}
		return nil
	}

	assert.NoError(t, m.OrderPlaced(context.Background(), testNotification()))
	assert.Equal(t, 2, calls)
}

func TestOrderStatusChangedMailsCustomer(t *testing.T) {
	m, sent := testMailer(true)
	n := testNotification()
	n.Status = "SHIPPED"

	require.NoError(t, m.OrderStatusChanged(context.Background(), n))
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "Subject: Order ORD-2026-00001 is SHIPPED")
	assert.Contains(t, (*sent)[0].msg, "is now SHIPPED")
}

func TestDisabledMailerIsNoOp(t *testing.T) {
	m, sent := testMailer(false)

	require.NoError(t, m.OrderPlaced(context.Background(), testNotification()))
	require.NoError(t, m.OrderStatusChanged(context.Background(), testNotification()))
	assert.Empty(t, *sent)
}

func TestDeliverFailsWithoutRecipient(t *testing.T) {
	m, _ := testMailer(true)
	n := testNotification()
	n.CustomerEmail = ""

	err := m.OrderPlaced(context.Background(), n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipient")
}
