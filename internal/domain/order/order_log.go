package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// HistoryEntry is one append-only record of a status transition
type HistoryEntry struct {
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// History is the append-only list of status transitions, stored as a JSON
// column
type History []HistoryEntry

// Value implements driver.Valuer for database storage
func (h History) Value() (driver.Value, error) {
	if h == nil {
		h = History{}
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner for database retrieval
func (h *History) Scan(value any) error {
	if value == nil {
		*h = History{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into order.History", value)
	}
	return json.Unmarshal(data, h)
}

// Log is the one-to-one audit companion of an order: the latest status plus
// the full append-only status history. History length only grows and
// LatestStatus always equals the last entry's status.
type Log struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	LatestStatus  Status    `gorm:"not null"`
	StatusHistory History   `gorm:"type:jsonb"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewLog creates the initial log for a freshly created order
func NewLog(orderID uuid.UUID, status Status, payment PaymentStatus) (*Log, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order ID cannot be empty")
	}
	now := time.Now()
	return &Log{
		ID:           uuid.New(),
		OrderID:      orderID,
		LatestStatus: status,
		StatusHistory: History{{
			Status:        status,
			PaymentStatus: payment,
			UpdatedAt:     now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Append records a committed transition. The caller only invokes this when
// the status actually changed; appending keeps the invariant that
// LatestStatus equals the last history entry.
func (l *Log) Append(status Status, payment PaymentStatus) {
	now := time.Now()
	l.StatusHistory = append(l.StatusHistory, HistoryEntry{
		Status:        status,
		PaymentStatus: payment,
		UpdatedAt:     now,
	})
	l.LatestStatus = status
	l.UpdatedAt = now
}

// TableName sets the table name for GORM
func (Log) TableName() string {
	return "order_logs"
}
