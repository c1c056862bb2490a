package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// Product holds the subset of the catalog the order service depends on: the
// stock counter and the backorder flag. Full product CRUD lives in the CMS.
type Product struct {
	shared.StoreEntity
	Name           string          `gorm:"not null"`
	SKU            string          `gorm:"index"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2)"`
	GSTRate        decimal.Decimal `gorm:"type:decimal(5,2)"`
	Stock          int64           `gorm:"not null;default:0"`
	SellEvenIfZero bool            `gorm:"not null;default:false"`
	ImageURL       string
}

// NewProduct creates a new product
func NewProduct(storeID uuid.UUID, name string, price, gstRate decimal.Decimal, stock int64) (*Product, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	return &Product{
		StoreEntity: shared.NewStoreEntity(storeID),
		Name:        name,
		Price:       price,
		GSTRate:     gstRate,
		Stock:       stock,
	}, nil
}

// HasStock reports whether the requested quantity can be sold. Products
// flagged SellEvenIfZero accept any quantity regardless of the counter.
func (p *Product) HasStock(quantity int64) bool {
	if p.SellEvenIfZero {
		return true
	}
	return p.Stock >= quantity
}

// TableName sets the table name for GORM
func (Product) TableName() string {
	return "products"
}
