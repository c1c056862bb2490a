package order

import (
	"fmt"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// Errors raised by the order lifecycle. Callers branch on the code, never on
// the message text.
var (
	ErrOrderNotFound           = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrCartNotFound            = shared.NewDomainError("CART_NOT_FOUND", "No active cart with items found for user")
	ErrCartEmpty               = shared.NewDomainError("CART_EMPTY", "Cannot create an order from an empty cart")
	ErrCartAlreadyProcessed    = shared.NewDomainError("CART_ALREADY_PROCESSED", "Cart has already been processed")
	ErrProductNotFound         = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrInvalidPaymentSignature = shared.NewDomainError("INVALID_PAYMENT_SIGNATURE", "Payment signature verification failed")
	ErrGatewayUnavailable      = shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway request failed")
)

// NewInsufficientStockError reports which product cannot be fulfilled and the
// available vs requested quantities
func NewInsufficientStockError(productName string, available, requested int64) *shared.DomainError {
	return shared.NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Insufficient stock for %s: available %d, requested %d", productName, available, requested))
}
