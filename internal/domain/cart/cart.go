package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// Status represents the lifecycle status of a cart
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusAbandoned Status = "ABANDONED"
)

// IsValid checks if the status is a valid cart Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Item represents a line item in a cart. Name and image are denormalized from
// the product so the storefront can render the cart without extra lookups.
type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CartID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductName string
	ImageURL    string
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2)"`
	GSTRate     decimal.Decimal `gorm:"type:decimal(5,2)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewItem creates a new cart item
func NewItem(cartID, productID uuid.UUID, productName, imageURL string, quantity int64, unitPrice, gstRate decimal.Decimal) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if gstRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_GST_RATE", "GST rate cannot be negative")
	}

	now := time.Now()
	return &Item{
		ID:          uuid.New(),
		CartID:      cartID,
		ProductID:   productID,
		ProductName: productName,
		ImageURL:    imageURL,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		GSTRate:     gstRate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Cart represents a customer's shopping cart aggregate.
// A user has at most one ACTIVE cart per store; a COMPLETED cart is immutable.
type Cart struct {
	shared.StoreEntity
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status Status    `gorm:"not null;default:ACTIVE;index"`
	Items  []Item    `gorm:"foreignKey:CartID"`
}

// NewCart creates a new active cart for a user
func NewCart(storeID, userID uuid.UUID) (*Cart, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Cart{
		StoreEntity: shared.NewStoreEntity(storeID),
		UserID:      userID,
		Status:      StatusActive,
		Items:       make([]Item, 0),
	}, nil
}

// AddItem adds an item to the cart, merging quantity when the product already
// exists in the cart
func (c *Cart) AddItem(productID uuid.UUID, productName, imageURL string, quantity int64, unitPrice, gstRate decimal.Decimal) (*Item, error) {
	if c.Status != StatusActive {
		return nil, shared.NewDomainError("CART_ALREADY_PROCESSED", "Cannot modify a processed cart")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity += quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			return &c.Items[idx], nil
		}
	}

	item, err := NewItem(c.ID, productID, productName, imageURL, quantity, unitPrice, gstRate)
	if err != nil {
		return nil, err
	}
	c.Items = append(c.Items, *item)
	c.UpdatedAt = time.Now()
	return item, nil
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IsActive returns true if the cart is still open for checkout
func (c *Cart) IsActive() bool {
	return c.Status == StatusActive
}

// IsProcessed returns true if the cart has already been converted to an order
func (c *Cart) IsProcessed() bool {
	return c.Status == StatusCompleted
}

// MarkCompleted transitions the cart to COMPLETED. A completed cart becomes
// immutable and is never reactivated.
func (c *Cart) MarkCompleted() error {
	if c.Status == StatusCompleted {
		return shared.NewDomainError("CART_ALREADY_PROCESSED", "Cart has already been processed")
	}
	if c.Status == StatusAbandoned {
		return shared.NewDomainError("INVALID_STATE", "Cannot complete an abandoned cart")
	}
	c.Status = StatusCompleted
	c.UpdatedAt = time.Now()
	return nil
}

// MarkAbandoned transitions the cart to ABANDONED
func (c *Cart) MarkAbandoned() error {
	if c.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active carts can be abandoned")
	}
	c.Status = StatusAbandoned
	c.UpdatedAt = time.Now()
	return nil
}

// TableName sets the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// TableName sets the table name for GORM
func (Item) TableName() string {
	return "cart_items"
}
