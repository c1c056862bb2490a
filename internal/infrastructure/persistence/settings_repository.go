package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/store"
)

// GormSettingsRepository implements store.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindByStore loads settings for a store
func (r *GormSettingsRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*store.Settings, error) {
	var s store.Settings
	if err := r.db.WithContext(ctx).First(&s, "store_id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save creates or updates store settings
func (r *GormSettingsRepository) Save(ctx context.Context, s *store.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
