package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// Repository defines the persistence port for orders and their audit logs
type Repository interface {
	// FindByID loads an order with its items. Returns ErrOrderNotFound when
	// absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser lists a user's orders newest first, with pagination
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, int64, error)

	// FindByStore lists a store's orders newest first, with optional
	// status/payment-status filters
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Order, int64, error)

	// FindPendingPayments lists a store's gateway orders still awaiting
	// payment
	FindPendingPayments(ctx context.Context, storeID uuid.UUID) ([]Order, error)

	// CreateWithLog persists a new order, its items, and the initial log
	// entry in one transaction. The source cart stays ACTIVE until the
	// payment path commits.
	CreateWithLog(ctx context.Context, o *Order, log *Log) error

	// Save updates an existing order (status fields, gateway ids, tracking)
	Save(ctx context.Context, o *Order) error

	// SaveWithLog updates the order and its log in one transaction
	SaveWithLog(ctx context.Context, o *Order, log *Log) error

	// FindLog loads the order's status log
	FindLog(ctx context.Context, orderID uuid.UUID) (*Log, error)

	// GenerateOrderNumber produces the next store-scoped sequential
	// human-readable order number
	GenerateOrderNumber(ctx context.Context, storeID uuid.UUID) (string, error)
}

// PaymentRepository defines the persistence port for settlement records and
// verification audit logs
type PaymentRepository interface {
	// FindByGatewayPaymentID loads a settlement by gateway payment ID.
	// Returns shared.ErrNotFound when absent; used to keep verification
	// idempotent.
	FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*Payment, error)

	// Save persists a settlement record
	Save(ctx context.Context, p *Payment) error

	// AppendLog persists a verification audit entry
	AppendLog(ctx context.Context, l *PaymentLog) error
}
