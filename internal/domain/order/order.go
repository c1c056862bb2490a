package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/cart"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// Item is an immutable order line item. Items are copied, not referenced,
// from the cart at creation time and carry their own tax computation.
type Item struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null"`
	ProductName  string
	ImageURL     string
	Quantity     int64           `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2)"`
	GSTRate      decimal.Decimal `gorm:"type:decimal(5,2)"`
	GSTAmount    decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalWithGST decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt    time.Time
}

// newItemFromCart copies a cart item into an order item, computing GST:
// gstAmount = rate/100 * price*qty, totalWithGST = price*qty + gstAmount.
func newItemFromCart(orderID uuid.UUID, ci cart.Item) Item {
	gross := ci.UnitPrice.Mul(decimal.NewFromInt(ci.Quantity))
	gstAmount := gross.Mul(ci.GSTRate).Div(hundred)
	return Item{
		ID:           uuid.New(),
		OrderID:      orderID,
		ProductID:    ci.ProductID,
		ProductName:  ci.ProductName,
		ImageURL:     ci.ImageURL,
		Quantity:     ci.Quantity,
		UnitPrice:    ci.UnitPrice,
		GSTRate:      ci.GSTRate,
		GSTAmount:    gstAmount,
		TotalWithGST: gross.Add(gstAmount),
		CreatedAt:    time.Now(),
	}
}

// Order represents the order aggregate root. Orders are created once from a
// cart snapshot, mutated only through status machine transitions, and never
// deleted (retained for audit and invoice history).
type Order struct {
	shared.StoreEntity
	OrderNumber       string    `gorm:"size:50;index"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	CartID            uuid.UUID `gorm:"type:uuid;not null"`
	Items             []Item    `gorm:"foreignKey:OrderID"`
	ShippingCost      decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2)"`
	BillingAddressID  uuid.UUID       `gorm:"type:uuid"`
	ShippingAddressID uuid.UUID       `gorm:"type:uuid"`
	Status            Status          `gorm:"not null;index"`
	PaymentStatus     PaymentStatus   `gorm:"not null;index"`
	PaymentMode       PaymentMode     `gorm:"not null"`
	RazorpayOrderID   string          `gorm:"size:64;index"`
	RazorpayPaymentID string          `gorm:"size:64"`
	RazorpaySignature string          `gorm:"size:128"`
	TrackingNumber    string
	DeliveryPartner   string
}

// NewFromCart creates an order from a cart snapshot. The order starts in
// PROCESSING; payment status depends on the declared mode (pre-verified UPI
// is PAID, everything else awaits payment).
func NewFromCart(c *cart.Cart, orderNumber string, mode PaymentMode, billingAddressID, shippingAddressID uuid.UUID, shippingCost decimal.Decimal) (*Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrCartEmpty
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode")
	}
	if shippingCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
	}

	o := &Order{
		StoreEntity:       shared.NewStoreEntity(c.StoreID),
		OrderNumber:       orderNumber,
		UserID:            c.UserID,
		CartID:            c.ID,
		ShippingCost:      shippingCost,
		BillingAddressID:  billingAddressID,
		ShippingAddressID: shippingAddressID,
		Status:            StatusProcessing,
		PaymentStatus:     PaymentPending,
		PaymentMode:       mode,
	}
	if mode == ModeUPI {
		o.PaymentStatus = PaymentPaid
	}

	total := decimal.Zero
	o.Items = make([]Item, 0, len(c.Items))
	for _, ci := range c.Items {
		item := newItemFromCart(o.ID, ci)
		o.Items = append(o.Items, item)
		total = total.Add(item.TotalWithGST)
	}
	o.TotalAmount = total.Add(shippingCost)

	return o, nil
}

// AttachGatewayOrder records the gateway-side intent identifier. The order
// stays PAYMENT_PENDING until the confirmation callback is verified.
func (o *Order) AttachGatewayOrder(gatewayOrderID string) error {
	if gatewayOrderID == "" {
		return shared.NewDomainError("INVALID_INPUT", "Gateway order ID cannot be empty")
	}
	o.RazorpayOrderID = gatewayOrderID
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPaid records a verified gateway settlement: the order becomes
// CONFIRMED/PAID and keeps the gateway identifiers for audit
func (o *Order) MarkPaid(gatewayOrderID, gatewayPaymentID, signature string) error {
	if o.PaymentStatus == PaymentPaid {
		// Retried confirmation of an already-settled order is a no-op.
		return nil
	}
	o.RazorpayOrderID = gatewayOrderID
	o.RazorpayPaymentID = gatewayPaymentID
	o.RazorpaySignature = signature
	o.PaymentStatus = PaymentPaid
	o.Status = StatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

// TransitionResult describes what a committed transition changed, so the
// caller knows whether to reverse inventory and send notifications
type TransitionResult struct {
	StatusChanged    bool
	EnteredCancelled bool
	LeftCancelled    bool
}

// Transition applies a status machine transition. A request for the status
// the order already holds is a silent no-op (repeated webhook or UI updates
// must not duplicate log entries or re-apply inventory reversal).
func (o *Order) Transition(newStatus Status, newPayment PaymentStatus, policy TransitionPolicy) (TransitionResult, error) {
	if newStatus == o.Status {
		return TransitionResult{}, nil
	}
	if err := ValidateTransition(o.Status, newStatus, newPayment, policy); err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{
		StatusChanged:    true,
		EnteredCancelled: newStatus == StatusCancelled && o.Status != StatusCancelled,
		LeftCancelled:    o.Status == StatusCancelled && newStatus != StatusCancelled,
	}
	o.Status = newStatus
	o.PaymentStatus = newPayment
	o.UpdatedAt = time.Now()
	return result, nil
}

// SetTracking records the shipment tracking details
func (o *Order) SetTracking(trackingNumber, deliveryPartner string) {
	if trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	if deliveryPartner != "" {
		o.DeliveryPartner = deliveryPartner
	}
	o.UpdatedAt = time.Now()
}

// IsPaid returns true if the order payment has settled
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentPaid
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// ItemTotal returns the sum of item totals without shipping
func (o *Order) ItemTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalWithGST)
	}
	return total
}

// StockAdjustments returns the product/quantity pairs this order holds
// against inventory
func (o *Order) StockAdjustments() []StockAdjustment {
	adjustments := make([]StockAdjustment, 0, len(o.Items))
	for _, item := range o.Items {
		adjustments = append(adjustments, StockAdjustment{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return adjustments
}

// StockAdjustment mirrors catalog.StockAdjustment without importing the
// catalog package from the order aggregate
type StockAdjustment struct {
	ProductID uuid.UUID
	Quantity  int64
}

// TableName sets the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// TableName sets the table name for GORM
func (Item) TableName() string {
	return "order_items"
}
