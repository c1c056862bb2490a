package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rahulmuralitechnology/cartzilla-orders/internal/domain/shared"
)

// Customer is the slice of the user record the order service reads: identity
// and contact details for notifications and the ERP mirror. Account CRUD is
// owned by the CMS.
type Customer struct {
	shared.BaseEntity
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;index"`
	Phone string
}

// Address is a billing or shipping address owned by a customer
type Address struct {
	shared.BaseEntity
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Line1      string    `gorm:"not null"`
	Line2      string
	City       string `gorm:"not null"`
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// Format renders the address as a single display line for documents
func (a *Address) Format() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Repository defines the read-only persistence port for customers and
// addresses
type Repository interface {
	// FindByID loads a customer. Returns shared.ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAddress loads an address. Returns shared.ErrNotFound when absent.
	FindAddress(ctx context.Context, id uuid.UUID) (*Address, error)
}

// NewCustomer creates a customer record
func NewCustomer(name, email string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid email address %q", email))
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
	}, nil
}

// TableName sets the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// TableName sets the table name for GORM
func (Address) TableName() string {
	return "addresses"
}
