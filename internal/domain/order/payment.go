package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// Payment is the settlement record created once signature verification
// succeeds. One row per settled gateway payment.
type Payment struct {
	shared.StoreEntity
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index"`
	GatewayOrderID    string    `gorm:"size:64;index"`
	GatewayPaymentID  string    `gorm:"size:64;uniqueIndex"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2)"`
	Currency          string          `gorm:"size:3"`
	Status            PaymentStatus   `gorm:"not null"`
}

// NewPayment creates a settlement record for a verified payment
func NewPayment(storeID, orderID uuid.UUID, gatewayOrderID, gatewayPaymentID string, amount decimal.Decimal, currency string) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order ID cannot be empty")
	}
	if gatewayPaymentID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Gateway payment ID cannot be empty")
	}
	return &Payment{
		StoreEntity:      shared.NewStoreEntity(storeID),
		OrderID:          orderID,
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		Amount:           amount,
		Currency:         currency,
		Status:           PaymentPaid,
	}, nil
}

// VerificationOutcome classifies a payment verification attempt
type VerificationOutcome string

const (
	VerificationOK     VerificationOutcome = "VERIFIED"
	VerificationFailed VerificationOutcome = "SIGNATURE_MISMATCH"
)

// PaymentLog is one append-only audit record of a verification event.
// Failed attempts are recorded too, so mismatched signatures leave a trace.
type PaymentLog struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	GatewayOrderID   string    `gorm:"size:64"`
	GatewayPaymentID string    `gorm:"size:64"`
	Outcome          VerificationOutcome `gorm:"not null"`
	Detail           string
	CreatedAt        time.Time
}

// NewPaymentLog creates a verification audit entry
func NewPaymentLog(orderID uuid.UUID, gatewayOrderID, gatewayPaymentID string, outcome VerificationOutcome, detail string) *PaymentLog {
	return &PaymentLog{
		ID:               uuid.New(),
		OrderID:          orderID,
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		Outcome:          outcome,
		Detail:           detail,
		CreatedAt:        time.Now(),
	}
}

// TableName sets the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// TableName sets the table name for GORM
func (PaymentLog) TableName() string {
	return "payment_logs"
}
