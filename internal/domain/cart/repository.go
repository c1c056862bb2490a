package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence port for carts
type Repository interface {
	// FindActiveByUser loads the user's single ACTIVE cart with its items.
	// Returns shared.ErrNotFound when no active cart exists.
	FindActiveByUser(ctx context.Context, storeID, userID uuid.UUID) (*Cart, error)

	// FindByID loads a cart by its ID with items
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// Save creates or updates a cart together with its items
	Save(ctx context.Context, c *Cart) error
}
