package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
)

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	FindByID(ctx context.Context, id string) (*models.Contract, error)
	FindByContractNo(ctx context.Context, contractNo string) (*models.Contract, error)
	FindActiveByUnit(ctx context.Context, buildingID, unitNumber string) (*models.Contract, error)
	FindByCustomer(ctx context.Context, customerID string) ([]models.Contract, error)
	Create(ctx context.Context, contract *models.Contract) error
	CreateWithTasks(ctx context.Context, contract *models.Contract, tasks []models.Task) error
	Update(ctx context.Context, contract *models.Contract) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query *ListQuery) ([]models.Contract, int64, error)
	FindAll(ctx context.Context) ([]models.Contract, error)
	MaxContractNoNumber(ctx context.Context) (int, error)
	FindPendingDue(ctx context.Context, now time.Time) ([]models.Contract, error)
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) FindByID(ctx context.Context, id string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ?", id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByContractNo(ctx context.Context, contractNo string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("contract_no = ?", contractNo).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindActiveByUnit returns the Active contract occupying a unit, or
// gorm.ErrRecordNotFound when the unit is free.
func (r *contractRepository) FindActiveByUnit(ctx context.Context, buildingID, unitNumber string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Where("building_id = ? AND unit_number = ? AND status = ?",
			buildingID, unitNumber, models.ContractStatusActive).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByCustomer(ctx context.Context, customerID string) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("from_date DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

// CreateWithTasks persists a contract and its generated rent-due
// tasks atomically. A failed task insert rolls the contract back.
func (r *contractRepository) CreateWithTasks(ctx context.Context, contract *models.Contract, tasks []models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		for i := range tasks {
			tasks[i].ContractID = &contract.ID
		}
		return tx.Create(&tasks).Error
	})
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).
		Omit("Customer", "Building", "Transactions").
		Save(contract).Error
}

func (r *contractRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Contract{}).Error
}

func (r *contractRepository) List(ctx context.Context, query *ListQuery) ([]models.Contract, int64, error) {
	var contracts []models.Contract
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Contract{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("contract_no ILIKE ? OR customer_name ILIKE ? OR building_name ILIKE ? OR unit_number ILIKE ?",
			search, search, search, search)
	}

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["building_id"] != "" {
		db = db.Where("building_id = ?", query.Filters["building_id"])
	}

	if query.Filters["customer_id"] != "" {
		db = db.Where("customer_id = ?", query.Filters["customer_id"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Customer").Find(&contracts).Error
	return contracts, total, err
}

func (r *contractRepository) FindAll(ctx context.Context) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}

// MaxContractNoNumber returns the highest numeric contract number
// ever issued, terminated and expired contracts included.
func (r *contractRepository) MaxContractNoNumber(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Select("MAX(CAST(contract_no AS INTEGER))").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// FindPendingDue returns Pending contracts whose coverage window has
// already opened, ready to be activated.
func (r *contractRepository) FindPendingDue(ctx context.Context, now time.Time) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("status = ? AND from_date <= ?", models.ContractStatusPending, now).
		Find(&contracts).Error
	return contracts, err
}

// MarkExpired flips every Active contract whose coverage ended before
// now to Expired. Safe to run repeatedly.
func (r *contractRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("status = ? AND to_date < ?", models.ContractStatusActive, now).
		Update("status", models.ContractStatusExpired)
	return res.RowsAffected, res.Error
}
