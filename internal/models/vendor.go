package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor is an external service provider (maintenance, utilities,
// security) that expense entries can be booked against.
type Vendor struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Name              string     `gorm:"not null;index" json:"name"`
	ServiceType       string     `gorm:"not null" json:"service_type"`
	ContactName       *string    `json:"contact_name"`
	MobileNo          *string    `json:"mobile_no"`
	Phone             string     `json:"phone"`
	Email             *string    `json:"email"`
	ContractStartDate *time.Time `json:"contract_start_date"`
	Status            string     `gorm:"default:Active" json:"status"`
	Notes             *string    `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// BeforeCreate hook assigns the id and defaults
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = VendorStatusActive
	}
	return nil
}

// Vendor status constants
const (
	VendorStatusActive   = "Active"
	VendorStatusInactive = "Inactive"
)

// Bank is a payee bank usable on BANK payment-method entries.
type Bank struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	IBAN      string    `gorm:"column:iban" json:"iban"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Bank
func (Bank) TableName() string {
	return "banks"
}

// BeforeCreate hook assigns the id
func (b *Bank) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
