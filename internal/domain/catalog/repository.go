package catalog

import (
	"context"

	"github.com/google/uuid"
)

// StockAdjustment pairs a product with a quantity to decrement or restore
type StockAdjustment struct {
	ProductID uuid.UUID
	Quantity  int64
}

// Repository defines the persistence port for products
type Repository interface {
	// FindByID loads a product by ID. Returns shared.ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs loads multiple products keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, p *Product) error

	// DecrementStock atomically decrements stock for every adjustment inside
	// one transaction. Each decrement is conditional
	// (stock >= qty OR sell_even_if_zero); if any product fails the condition
	// the whole batch rolls back and ErrInsufficientStock is returned.
	DecrementStock(ctx context.Context, adjustments []StockAdjustment) error

	// IncrementStock atomically restores stock for every adjustment inside
	// one transaction (cancellation reversal).
	IncrementStock(ctx context.Context, adjustments []StockAdjustment) error
}
