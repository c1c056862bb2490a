package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/catalog"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// GormProductRepository implements catalog.Repository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDs loads multiple products keyed by ID. Missing IDs are simply
// absent from the map.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DecrementStock decrements stock for every adjustment inside one
// transaction. Each decrement is guarded in SQL (stock must cover the
// quantity unless the product sells even at zero), so two concurrent orders
// for the last unit cannot both succeed; the loser rolls back the whole
// batch.
func (r *GormProductRepository) DecrementStock(ctx context.Context, adjustments []catalog.StockAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, adj := range adjustments {
			res := tx.Model(&catalog.Product{}).
				Where("id = ? AND (stock >= ? OR sell_even_if_zero = ?)", adj.ProductID, adj.Quantity, true).
				UpdateColumn("stock", gorm.Expr("stock - ?", adj.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var p catalog.Product
				if err := tx.First(&p, "id = ?", adj.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return order.ErrProductNotFound
					}
					return err
				}
				return order.NewInsufficientStockError(p.Name, p.Stock, adj.Quantity)
			}
		}
		return nil
	})
}

// IncrementStock restores stock for every adjustment inside one transaction
func (r *GormProductRepository) IncrementStock(ctx context.Context, adjustments []catalog.StockAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, adj := range adjustments {
			res := tx.Model(&catalog.Product{}).
				Where("id = ?", adj.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", adj.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return order.ErrProductNotFound
			}
		}
		return nil
	})
}
