// Package integration defines the ports through which order data is mirrored
// into external systems. The mirror is strictly best-effort: implementations
// report failures as values, never as errors, so the primary transaction is
// isolated from the reliability of the external system.
package integration

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SyncStep identifies where in the mirror pipeline a sync attempt stopped
type SyncStep string

const (
	StepNotConfigured SyncStep = "NOT_CONFIGURED"
	StepCustomer      SyncStep = "CUSTOMER"
	StepAddress       SyncStep = "ADDRESS"
	StepSalesOrder    SyncStep = "SALES_ORDER"
	StepPayment       SyncStep = "PAYMENT"
	StepStatusUpdate  SyncStep = "STATUS_UPDATE"
	StepCompleted     SyncStep = "COMPLETED"
)

// SyncReport is the value a sync attempt collapses into. It is attached to
// the API response as advisory information and never aborts the caller.
type SyncReport struct {
	Success bool     `json:"success"`
	Step    SyncStep `json:"step,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ReportSkipped reports that sync was not attempted (no credentials)
func ReportSkipped(message string) SyncReport {
	return SyncReport{Success: false, Step: StepNotConfigured, Message: message}
}

// ReportFailed reports a sync attempt that failed at the given step
func ReportFailed(step SyncStep, err error) SyncReport {
	return SyncReport{Success: false, Step: step, Message: err.Error()}
}

// ReportOK reports a completed sync
func ReportOK() SyncReport {
	return SyncReport{Success: true, Step: StepCompleted}
}

// CustomerMirror carries the customer fields mirrored into the ERP
type CustomerMirror struct {
	LocalUserID uuid.UUID
	Name        string
	Email       string
	Phone       string
}

// AddressMirror carries one address linked to a mirrored customer
type AddressMirror struct {
	LocalAddressID uuid.UUID
	Title          string
	Line1          string
	Line2          string
	City           string
	State          string
	PostalCode     string
	Country        string
	Phone          string
	IsBilling      bool
	IsShipping     bool
}

// OrderItemMirror carries one order line item mirrored into the ERP sales
// order
type OrderItemMirror struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// OrderMirror carries the order fields mirrored into the ERP
type OrderMirror struct {
	LocalOrderID  uuid.UUID
	OrderNumber   string
	Customer      CustomerMirror
	Billing       AddressMirror
	Shipping      AddressMirror
	Items         []OrderItemMirror
	TotalAmount   decimal.Decimal
	Currency      string
	Status        string
	PaymentStatus string
	PaymentMode   string
}

// PaymentMirror carries a settled payment mirrored into the ERP
type PaymentMirror struct {
	OrderNumber      string
	GatewayPaymentID string
	Amount           decimal.Decimal
	Currency         string
}

// ERPSyncPort mirrors local records into an external ERP. Implementations
// must capture every failure into the returned SyncReport; they never return
// an error and never roll back local state.
type ERPSyncPort interface {
	// SyncOrderCreated mirrors customer, addresses, the sales order, and the
	// settled payment (when present) after an order commits
	SyncOrderCreated(ctx context.Context, storeID uuid.UUID, mirror OrderMirror, payment *PaymentMirror) SyncReport

	// SyncOrderStatus updates the mirrored order's status after a committed
	// local transition
	SyncOrderStatus(ctx context.Context, storeID uuid.UUID, orderNumber, status string) SyncReport
}
