package models

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract represents a lease for a building unit. The financial
// breakdown (office fee, total, installment amounts) is computed once
// at save time and persisted; reads never recompute it, so historical
// contracts keep the figures they were signed with.
type Contract struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	ContractNo       string    `gorm:"uniqueIndex;not null" json:"contract_no"`
	BuildingID       string    `gorm:"not null;index" json:"building_id"`
	BuildingName     string    `json:"building_name"`
	UnitNumber       string    `gorm:"not null;index" json:"unit_number"`
	CustomerID       string    `gorm:"not null;index" json:"customer_id"`
	CustomerName     string    `json:"customer_name"`
	RentValue        float64   `gorm:"type:decimal;not null" json:"rent_value"`
	WaterFee         float64   `gorm:"type:decimal" json:"water_fee"`
	InsuranceFee     float64   `gorm:"type:decimal" json:"insurance_fee"`
	ServiceFee       float64   `gorm:"type:decimal" json:"service_fee"`
	OfficeFeePercent float64   `gorm:"type:decimal" json:"office_fee_percent"`
	OfficeFeeAmount  float64   `gorm:"type:decimal" json:"office_fee_amount"`
	OtherAmount      float64   `gorm:"type:decimal" json:"other_amount"`
	OtherDeduction   float64   `gorm:"type:decimal" json:"other_deduction"`
	TotalValue       float64   `gorm:"type:decimal" json:"total_value"`
	InstallmentCount int       `gorm:"default:1" json:"installment_count"`
	FirstInstallment float64   `gorm:"type:decimal" json:"first_installment"`
	OtherInstallment float64   `gorm:"type:decimal" json:"other_installment"`
	PeriodMonths     int       `gorm:"not null" json:"period_months"`
	FromDate         time.Time `gorm:"not null;index" json:"from_date"`
	ToDate           time.Time `gorm:"not null;index" json:"to_date"`
	Status           string    `gorm:"default:Active;index" json:"status"`
	Notes            *string   `gorm:"type:text" json:"notes"`
	CreatedBy        string    `gorm:"index" json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Associations
	Customer     *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Building     *Building     `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:ContractID" json:"transactions,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// BeforeCreate hook assigns the id and defaults
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = ContractStatusActive
	}
	return nil
}

// Contract status constants
const (
	ContractStatusActive     = "Active"
	ContractStatusPending    = "Pending"
	ContractStatusExpired    = "Expired"
	ContractStatusTerminated = "Terminated"
)

// Lease term defaults applied when the caller omits a value
const (
	DefaultOfficeFeePercent = 2.5
	DefaultInstallmentCount = 2
)

// ContractNoNumber parses the contract number; non-numeric numbers
// count as zero.
func (c *Contract) ContractNoNumber() int {
	n, err := strconv.Atoi(c.ContractNo)
	if err != nil {
		return 0
	}
	return n
}

// Recalculate derives the financial fields from the raw lease terms.
// Installment counts below 1 are coerced to 1 so division is always
// defined. Per-installment amounts are rounded to whole currency
// units; the total is not, so the installment sum can drift from the
// total by sub-unit rounding.
func (c *Contract) Recalculate() {
	if c.InstallmentCount < 1 {
		c.InstallmentCount = 1
	}

	c.OfficeFeeAmount = c.RentValue * c.OfficeFeePercent / 100
	c.TotalValue = c.RentValue + c.WaterFee + c.InsuranceFee + c.ServiceFee +
		c.OfficeFeeAmount + c.OtherAmount - c.OtherDeduction

	count := float64(c.InstallmentCount)
	rentPerInstall := c.RentValue / count
	waterPerInstall := c.WaterFee / count

	c.OtherInstallment = math.Round(rentPerInstall + waterPerInstall)
	c.FirstInstallment = math.Round(rentPerInstall + waterPerInstall +
		c.InsuranceFee + c.ServiceFee + c.OfficeFeeAmount +
		c.OtherAmount - c.OtherDeduction)
}

// EndDate returns the last covered day of a lease that starts at from
// and runs for periodMonths calendar months: one day before the same
// day-of-month periodMonths later. Month-end overflow normalizes the
// way time.AddDate does.
func EndDate(from time.Time, periodMonths int) time.Time {
	return from.AddDate(0, periodMonths, 0).AddDate(0, 0, -1)
}

// IsExpiredAt reports whether an Active contract's coverage has
// lapsed as of now.
func (c *Contract) IsExpiredAt(now time.Time) bool {
	return c.Status == ContractStatusActive && c.ToDate.Before(now)
}

// MayActivate returns true if contract can transition to Active
func (c *Contract) MayActivate() bool {
	return c.Status == ContractStatusPending
}

// MayExpire returns true if contract can transition to Expired
func (c *Contract) MayExpire() bool {
	return c.Status == ContractStatusActive
}

// MayFinalize returns true if contract can transition to Terminated.
// Finalizing an already-terminated contract is a no-op upstream.
func (c *Contract) MayFinalize() bool {
	return c.Status != ContractStatusTerminated
}

// IsActive returns true if the contract currently occupies its unit
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// ContractResponse is the JSON response format for contracts
type ContractResponse struct {
	ID               string    `json:"id"`
	ContractNo       string    `json:"contract_no"`
	BuildingID       string    `json:"building_id"`
	BuildingName     string    `json:"building_name"`
	UnitNumber       string    `json:"unit_number"`
	CustomerID       string    `json:"customer_id"`
	CustomerName     string    `json:"customer_name"`
	CustomerCode     string    `json:"customer_code,omitempty"`
	RentValue        float64   `json:"rent_value"`
	WaterFee         float64   `json:"water_fee"`
	InsuranceFee     float64   `json:"insurance_fee"`
	ServiceFee       float64   `json:"service_fee"`
	OfficeFeePercent float64   `json:"office_fee_percent"`
	OfficeFeeAmount  float64   `json:"office_fee_amount"`
	OtherAmount      float64   `json:"other_amount"`
	OtherDeduction   float64   `json:"other_deduction"`
	TotalValue       float64   `json:"total_value"`
	InstallmentCount int       `json:"installment_count"`
	FirstInstallment float64   `json:"first_installment"`
	OtherInstallment float64   `json:"other_installment"`
	PeriodMonths     int       `json:"period_months"`
	FromDate         time.Time `json:"from_date"`
	ToDate           time.Time `json:"to_date"`
	Status           string    `json:"status"`
	Notes            *string   `json:"notes"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToResponse converts Contract to ContractResponse
func (c *Contract) ToResponse() ContractResponse {
	resp := ContractResponse{
		ID:               c.ID,
		ContractNo:       c.ContractNo,
		BuildingID:       c.BuildingID,
		BuildingName:     c.BuildingName,
		UnitNumber:       c.UnitNumber,
		CustomerID:       c.CustomerID,
		CustomerName:     c.CustomerName,
		RentValue:        c.RentValue,
		WaterFee:         c.WaterFee,
		InsuranceFee:     c.InsuranceFee,
		ServiceFee:       c.ServiceFee,
		OfficeFeePercent: c.OfficeFeePercent,
		OfficeFeeAmount:  c.OfficeFeeAmount,
		OtherAmount:      c.OtherAmount,
		OtherDeduction:   c.OtherDeduction,
		TotalValue:       c.TotalValue,
		InstallmentCount: c.InstallmentCount,
		FirstInstallment: c.FirstInstallment,
		OtherInstallment: c.OtherInstallment,
		PeriodMonths:     c.PeriodMonths,
		FromDate:         c.FromDate,
		ToDate:           c.ToDate,
		Status:           c.Status,
		Notes:            c.Notes,
		CreatedBy:        c.CreatedBy,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}

	if c.Customer != nil {
		resp.CustomerCode = c.Customer.Code
	}

	return resp
}
