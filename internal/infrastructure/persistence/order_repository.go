package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUser lists a user's orders newest first, paginated
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("user_id = ?", userID)
	return r.page(query, filter)
}

// FindByStore lists a store's orders newest first, with optional status and
// payment_status filters
func (r *GormOrderRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("store_id = ?", storeID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if payment, ok := filter.Filters["payment_status"]; ok {
		query = query.Where("payment_status = ?", payment)
	}
	return r.page(query, filter)
}

func (r *GormOrderRepository) page(query *gorm.DB, filter shared.Filter) ([]order.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var orders []order.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindPendingPayments lists gateway orders still awaiting payment
func (r *GormOrderRepository) FindPendingPayments(ctx context.Context, storeID uuid.UUID) ([]order.Order, error) {
	var orders []order.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND payment_mode = ? AND payment_status = ?",
			storeID, order.ModeRazorpay, order.PaymentPending).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateWithLog persists a new order, its items, and the initial log entry in
// one transaction
func (r *GormOrderRepository) CreateWithLog(ctx context.Context, o *order.Order, log *order.Log) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return tx.Create(log).Error
	})
}

// Save updates the order's own columns; items are immutable after creation
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(o).Error
}

// SaveWithLog updates the order and its log in one transaction
func (r *GormOrderRepository) SaveWithLog(ctx context.Context, o *order.Order, log *order.Log) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return err
		}
		return tx.Save(log).Error
	})
}

// FindLog loads the order's status log
func (r *GormOrderRepository) FindLog(ctx context.Context, orderID uuid.UUID) (*order.Log, error) {
	var log order.Log
	if err := r.db.WithContext(ctx).
		First(&log, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GenerateOrderNumber generates the next store-scoped order number.
// Format: ORD-YYYY-NNNNN (e.g., ORD-2026-00001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, storeID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("ORD-%d-", year)

	var last order.Order
	err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("store_id = ? AND order_number LIKE ?", storeID, prefix+"%").
		Order("order_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.OrderNumber != "" {
		parts := strings.Split(last.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}
