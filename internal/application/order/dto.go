package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/integration"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
)

// ==================== Requests ====================

// CreateOrderRequest represents a request to convert the caller's active cart
// into an order, or to resume a pending gateway payment. The gateway fields
// are only present on the confirmation leg of a Razorpay checkout.
type CreateOrderRequest struct {
	UserID            uuid.UUID  `json:"userId" binding:"required"`
	StoreID           uuid.UUID  `json:"storeId" binding:"required"`
	PaymentMode       string     `json:"paymentMode" binding:"required"`
	BillingAddressID  uuid.UUID  `json:"billingAddressId" binding:"required"`
	ShippingAddressID uuid.UUID  `json:"shippingAddressId" binding:"required"`
	ShippingCost      *decimal.Decimal `json:"shippingCost"`
	RazorpayOrderID   string     `json:"razorpayOrderId"`
	RazorpayPaymentID string     `json:"razorpayPaymentId"`
	RazorpaySignature string     `json:"razorpaySignature"`
	DBOrderID         *uuid.UUID `json:"dbOrderId"`
}

// HasConfirmation reports whether the request carries a gateway payment
// confirmation to verify
func (r CreateOrderRequest) HasConfirmation() bool {
	return r.RazorpayOrderID != "" && r.RazorpayPaymentID != "" && r.RazorpaySignature != ""
}

// ChangeStatusRequest represents a request to move an order through the
// status machine
type ChangeStatusRequest struct {
	OrderID         uuid.UUID `json:"orderId" binding:"required"`
	NewStatus       string    `json:"newStatus" binding:"required"`
	PaymentStatus   string    `json:"paymentStatus" binding:"required"`
	TrackingNo      string    `json:"trackingNo"`
	DeliveryPartner string    `json:"deliveryPartner"`
}

// ==================== Responses ====================

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	GSTRate      decimal.Decimal `json:"gstRate"`
	GSTAmount    decimal.Decimal `json:"gstAmount"`
	TotalWithGST decimal.Decimal `json:"totalPriceWithGST"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	StoreID           uuid.UUID           `json:"storeId"`
	OrderNumber       string              `json:"orderId"`
	UserID            uuid.UUID           `json:"userId"`
	Items             []OrderItemResponse `json:"items"`
	ShippingCost      decimal.Decimal     `json:"shippingCost"`
	TotalAmount       decimal.Decimal     `json:"totalAmount"`
	BillingAddressID  uuid.UUID           `json:"billingAddressId"`
	ShippingAddressID uuid.UUID           `json:"shippingAddressId"`
	Status            string              `json:"status"`
	PaymentStatus     string              `json:"paymentStatus"`
	PaymentMode       string              `json:"paymentMode"`
	RazorpayOrderID   string              `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string              `json:"razorpayPaymentId,omitempty"`
	TrackingNumber    string              `json:"trackingNo,omitempty"`
	DeliveryPartner   string              `json:"deliveryPartner,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// PendingIntent is returned instead of a final order when a gateway payment
// intent has been created and the client must complete the checkout
type PendingIntent struct {
	GatewayOrderID string          `json:"razorpayOrderId"`
	LocalOrderID   uuid.UUID       `json:"dbOrderId"`
	GatewayKeyID   string          `json:"razorpayKeyId"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// CheckoutResult is the outcome of a create-order call: either a committed
// order plus the advisory ERP sync report, or a pending gateway intent
type CheckoutResult struct {
	Order   *OrderResponse          `json:"order,omitempty"`
	ERPSync *integration.SyncReport `json:"erpSync,omitempty"`
	Pending *PendingIntent          `json:"-"`
}

// ChangeStatusResult is the outcome of a committed status change
type ChangeStatusResult struct {
	OrderID       uuid.UUID               `json:"orderId"`
	Status        string                  `json:"status"`
	PaymentStatus string                  `json:"paymentStatus"`
	Changed       bool                    `json:"-"`
	ERPSync       *integration.SyncReport `json:"erpSync,omitempty"`
}

// HistoryEntryResponse represents one status history entry
type HistoryEntryResponse struct {
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TrackResponse pairs an order with its full status history
type TrackResponse struct {
	Order   OrderResponse          `json:"order"`
	History []HistoryEntryResponse `json:"statusHistory"`
}

// ==================== Converters ====================

// ToOrderItemResponse converts a domain order item to a response DTO
func ToOrderItemResponse(item order.Item) OrderItemResponse {
	return OrderItemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ImageURL:     item.ImageURL,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		GSTRate:      item.GSTRate,
		GSTAmount:    item.GSTAmount,
		TotalWithGST: item.TotalWithGST,
	}
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = ToOrderItemResponse(o.Items[i])
	}
	return OrderResponse{
		ID:                o.ID,
		StoreID:           o.StoreID,
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		Items:             items,
		ShippingCost:      o.ShippingCost,
		TotalAmount:       o.TotalAmount,
		BillingAddressID:  o.BillingAddressID,
		ShippingAddressID: o.ShippingAddressID,
		Status:            o.Status.String(),
		PaymentStatus:     o.PaymentStatus.String(),
		PaymentMode:       o.PaymentMode.String(),
		RazorpayOrderID:   o.RazorpayOrderID,
		RazorpayPaymentID: o.RazorpayPaymentID,
		TrackingNumber:    o.TrackingNumber,
		DeliveryPartner:   o.DeliveryPartner,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders to response DTOs
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// ToHistoryResponses converts a status history to response DTOs
func ToHistoryResponses(history order.History) []HistoryEntryResponse {
	responses := make([]HistoryEntryResponse, len(history))
	for i, entry := range history {
		responses[i] = HistoryEntryResponse{
			Status:        entry.Status.String(),
			PaymentStatus: entry.PaymentStatus.String(),
			UpdatedAt:     entry.UpdatedAt,
		}
	}
	return responses
}
