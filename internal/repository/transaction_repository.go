package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
)

// TransactionRepository defines the interface for transaction data access
type TransactionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	FindByContract(ctx context.Context, contractID string) ([]models.Transaction, error)
	FindPending(ctx context.Context) ([]models.Transaction, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error)
	Create(ctx context.Context, transaction *models.Transaction) error
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query *ListQuery) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindByContract returns a contract's entries oldest first, the order
// installment reconciliation walks them in.
func (r *transactionRepository) FindByContract(ctx context.Context, contractID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepository) FindPending(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("status = ?", models.TransactionStatusPending).
		Order("created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepository) FindBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{}).Error
}

func (r *transactionRepository) List(ctx context.Context, query *ListQuery) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Transaction{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("details ILIKE ? OR building_name ILIKE ? OR vendor_name ILIKE ? OR employee_name ILIKE ?",
			search, search, search, search)
	}

	if query.Filters["type"] != "" {
		db = db.Where("type = ?", query.Filters["type"])
	}

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["building_id"] != "" {
		db = db.Where("building_id = ?", query.Filters["building_id"])
	}

	if query.Filters["contract_id"] != "" {
		db = db.Where("contract_id = ?", query.Filters["contract_id"])
	}

	if query.Filters["expense_category"] != "" {
		db = db.Where("expense_category = ?", query.Filters["expense_category"])
	}

	// Non-privileged callers only see their own entries
	if query.Filters["created_by"] != "" {
		db = db.Where("created_by = ?", query.Filters["created_by"])
	}

	if query.Filters["date_from"] != "" {
		db = db.Where("date >= ?", query.Filters["date_from"])
	}

	if query.Filters["date_to"] != "" {
		db = db.Where("date <= ?", query.Filters["date_to"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("date DESC, created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&transactions).Error
	return transactions, total, err
}
