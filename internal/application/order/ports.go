package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// GatewayCredentials is the store's key pair for the payment gateway
type GatewayCredentials struct {
	KeyID  string
	Secret string
}

// GatewayIntent is a pending payment registered with the gateway, returned
// to the client for completion
type GatewayIntent struct {
	GatewayOrderID string
	Amount         decimal.Decimal
	Currency       string
}

// PaymentGateway is the port to the external payment processor
type PaymentGateway interface {
	// CreateIntent registers a payment intent for the given amount with the
	// gateway. The receipt ties the intent back to the local order number.
	CreateIntent(ctx context.Context, creds GatewayCredentials, amount decimal.Decimal, currency, receipt string) (*GatewayIntent, error)

	// VerifySignature recomputes the confirmation signature over
	// gatewayOrderID|gatewayPaymentID with the store secret and compares it
	// against the client-supplied value in constant time.
	VerifySignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool
}

// Notification carries everything the mail templates need
type Notification struct {
	CustomerName  string
	CustomerEmail string
	OwnerEmail    string
	StoreName     string
	OrderNumber   string
	Status        string
	PaymentMode   string
	TotalAmount   decimal.Decimal
}

// Notifier sends templated order-event emails. Callers log failures and
// never propagate them.
type Notifier interface {
	// OrderPlaced sends the order confirmation to the customer and the
	// store owner
	OrderPlaced(ctx context.Context, n Notification) error

	// OrderStatusChanged tells the customer about a committed transition
	OrderStatusChanged(ctx context.Context, n Notification) error
}
