package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a tenant. The display code is assigned once at
// first save and never changes or gets reused; customers are
// soft-deleted so discarded codes still count toward the sequence.
type Customer struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Code          string     `gorm:"uniqueIndex;not null" json:"code"`
	NameAr        string     `gorm:"column:name_ar;not null;index" json:"name_ar"`
	NameEn        *string    `gorm:"column:name_en;index" json:"name_en"`
	Phone         string     `json:"phone"`
	IDNumber      string     `gorm:"column:id_number;index" json:"id_number"`
	IDType        *string    `gorm:"column:id_type" json:"id_type"`
	IDSource      *string    `gorm:"column:id_source" json:"id_source"`
	Nationality   *string    `json:"nationality"`
	Email         *string    `json:"email"`
	Address       *string    `json:"address"`
	WorkAddress   *string    `json:"work_address"`
	Notes         *string    `gorm:"type:text" json:"notes"`
	IsBlacklisted bool       `gorm:"default:false;index" json:"is_blacklisted"`
	DiscardedAt   *time.Time `gorm:"index" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Contracts []Contract `gorm:"foreignKey:CustomerID" json:"contracts,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate hook assigns the id
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// DisplayName returns the Arabic name, falling back to the English
// one when the Arabic name is missing.
func (c *Customer) DisplayName() string {
	if c.NameAr != "" {
		return c.NameAr
	}
	if c.NameEn != nil {
		return *c.NameEn
	}
	return ""
}

// CodeNumber parses the display code; non-numeric codes count as zero.
func (c *Customer) CodeNumber() int {
	n, err := strconv.Atoi(c.Code)
	if err != nil {
		return 0
	}
	return n
}

// IsDiscarded returns true if customer is soft-deleted
func (c *Customer) IsDiscarded() bool {
	return c.DiscardedAt != nil
}

// CustomerResponse is the JSON response format for customers
type CustomerResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	NameAr        string    `json:"name_ar"`
	NameEn        *string   `json:"name_en"`
	Phone         string    `json:"phone"`
	IDNumber      string    `json:"id_number"`
	IDType        *string   `json:"id_type"`
	IDSource      *string   `json:"id_source"`
	Nationality   *string   `json:"nationality"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	WorkAddress   *string   `json:"work_address"`
	Notes         *string   `json:"notes"`
	IsBlacklisted bool      `json:"is_blacklisted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToResponse converts Customer to CustomerResponse
func (c *Customer) ToResponse() CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Code:          c.Code,
		NameAr:        c.NameAr,
		NameEn:        c.NameEn,
		Phone:         c.Phone,
		IDNumber:      c.IDNumber,
		IDType:        c.IDType,
		IDSource:      c.IDSource,
		Nationality:   c.Nationality,
		Email:         c.Email,
		Address:       c.Address,
		WorkAddress:   c.WorkAddress,
		Notes:         c.Notes,
		IsBlacklisted: c.IsBlacklisted,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
