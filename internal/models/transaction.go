package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VATRate is the statutory VAT applied to income entries that opt in.
const VATRate = 0.15

// Transaction is a single financial entry. Income entries can link to
// a lease contract; expense entries carry a category plus either an
// employee (salary) or a vendor. While status is PENDING, Amount
// holds the base amount and the adjustments stay in ExtraAmount /
// DiscountAmount until a privileged user approves.
type Transaction struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Date          time.Time `gorm:"not null;index" json:"date"`
	Type          string    `gorm:"not null;index" json:"type"`
	Amount        float64   `gorm:"type:decimal;not null" json:"amount"`
	PaymentMethod string    `gorm:"default:CASH" json:"payment_method"`
	BankName      *string   `json:"bank_name"`

	// Income specific
	BuildingID     *string  `gorm:"index" json:"building_id"`
	BuildingName   *string  `json:"building_name"`
	UnitNumber     *string  `json:"unit_number"`
	ContractID     *string  `gorm:"index" json:"contract_id"`
	ExpectedAmount *float64 `gorm:"type:decimal" json:"expected_amount"`
	VatAmount      *float64 `gorm:"type:decimal" json:"vat_amount"`
	TotalWithVat   *float64 `gorm:"type:decimal" json:"total_with_vat"`

	// Expense specific
	ExpenseCategory *string  `gorm:"index" json:"expense_category"`
	EmployeeID      *string  `gorm:"index" json:"employee_id"`
	EmployeeName    *string  `json:"employee_name"`
	BonusAmount     *float64 `gorm:"type:decimal" json:"bonus_amount"`
	DeductionAmount *float64 `gorm:"type:decimal" json:"deduction_amount"`
	VendorID        *string  `gorm:"index" json:"vendor_id"`
	VendorName      *string  `json:"vendor_name"`

	// Adjustments & approval
	ExtraAmount    float64 `gorm:"type:decimal" json:"extra_amount"`
	DiscountAmount float64 `gorm:"type:decimal" json:"discount_amount"`
	Status         string  `gorm:"default:APPROVED;index" json:"status"`

	Details       string    `gorm:"type:text" json:"details"`
	CreatedBy     string    `gorm:"index" json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate hook assigns the id and defaults
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TransactionStatusApproved
	}
	if t.PaymentMethod == "" {
		t.PaymentMethod = PaymentMethodCash
	}
	return nil
}

// Transaction type constants
const (
	TransactionTypeIncome  = "INCOME"
	TransactionTypeExpense = "EXPENSE"
)

// Transaction status constants
const (
	TransactionStatusApproved = "APPROVED"
	TransactionStatusPending  = "PENDING"
	TransactionStatusRejected = "REJECTED"
)

// Payment method constants
const (
	PaymentMethodCash = "CASH"
	PaymentMethodBank = "BANK"
)

// Expense category constants
const (
	ExpenseCategoryGeneral       = "General Expense"
	ExpenseCategorySalary        = "Salary"
	ExpenseCategoryBorrowing     = "Borrowing"
	ExpenseCategoryMaintenance   = "Maintenance"
	ExpenseCategoryUtilities     = "Utilities"
	ExpenseCategoryVendorPayment = "Vendor Payment"
)

// HasAdjustments returns true when the entry carries an extra charge
// or a discount on top of its base amount.
func (t *Transaction) HasAdjustments() bool {
	return t.ExtraAmount > 0 || t.DiscountAmount > 0
}

// NetAmount is the base amount with adjustments applied.
func (t *Transaction) NetAmount() float64 {
	return t.Amount + t.ExtraAmount - t.DiscountAmount
}

// ApplyVat recomputes the VAT fields from the current amount. Entries
// that never opted into VAT (nil VatAmount) are left untouched.
func (t *Transaction) ApplyVat() {
	if t.VatAmount == nil {
		return
	}
	vat := t.Amount * VATRate
	total := t.Amount * (1 + VATRate)
	t.VatAmount = &vat
	t.TotalWithVat = &total
}

// MayApprove returns true if the entry can transition to APPROVED
func (t *Transaction) MayApprove() bool {
	return t.Status == TransactionStatusPending
}

// MayReject returns true if the entry can be rejected
func (t *Transaction) MayReject() bool {
	return t.Status == TransactionStatusPending
}

// IsPending returns true while the entry awaits approval
func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// CountsTowardContract reports whether the entry counts toward its
// contract's collected total. Everything but rejected entries counts,
// pending included.
func (t *Transaction) CountsTowardContract() bool {
	return t.Status != TransactionStatusRejected
}
