package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/order"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// GormPaymentRepository implements order.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByGatewayPaymentID finds a settlement by the gateway's payment id
func (r *GormPaymentRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*order.Payment, error) {
	var p order.Payment
	if err := r.db.WithContext(ctx).
		First(&p, "gateway_payment_id = ?", gatewayPaymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Save persists a settlement record
func (r *GormPaymentRepository) Save(ctx context.Context, p *order.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// AppendLog persists a verification audit entry
func (r *GormPaymentRepository) AppendLog(ctx context.Context, l *order.PaymentLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}
