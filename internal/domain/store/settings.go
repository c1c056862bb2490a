package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// Settings holds the per-store credentials the order service needs: the
// payment gateway key pair, the optional ERP endpoint, and the owner's
// notification address.
type Settings struct {
	shared.BaseEntity
	StoreID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	StoreName      string    `gorm:"not null"`
	OwnerEmail     string
	RazorpayKeyID  string `gorm:"size:64"`
	RazorpaySecret string `gorm:"size:128"`
	ERPBaseURL     string
	ERPAPIKey      string `gorm:"size:128"`
	ERPAPISecret   string `gorm:"size:128"`
}

// HasGatewayCredentials returns true when the store can create gateway
// payment intents
func (s *Settings) HasGatewayCredentials() bool {
	return s.RazorpayKeyID != "" && s.RazorpaySecret != ""
}

// HasERPCredentials returns true when the store has an ERP mirror
// configured. Absent credentials make the sync adapter a no-op.
func (s *Settings) HasERPCredentials() bool {
	return s.ERPBaseURL != "" && s.ERPAPIKey != "" && s.ERPAPISecret != ""
}

// Repository defines the persistence port for store settings
type Repository interface {
	// FindByStore loads settings for a store. Returns shared.ErrNotFound
	// when the store is unknown.
	FindByStore(ctx context.Context, storeID uuid.UUID) (*Settings, error)

	// Save creates or updates store settings
	Save(ctx context.Context, s *Settings) error
}

// TableName sets the table name for GORM
func (Settings) TableName() string {
	return "store_settings"
}
