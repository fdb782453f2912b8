package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
)

// VendorRepository defines the interface for vendor data access
type VendorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Vendor, error)
	Create(ctx context.Context, vendor *models.Vendor) error
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query *ListQuery) ([]models.Vendor, int64, error)
	FindAll(ctx context.Context) ([]models.Vendor, error)
}

type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *vendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

func (r *vendorRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vendor{}).Error
}

func (r *vendorRepository) List(ctx context.Context, query *ListQuery) ([]models.Vendor, int64, error) {
	var vendors []models.Vendor
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Vendor{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR service_type ILIKE ? OR phone ILIKE ?",
			search, search, search)
	}

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["service_type"] != "" {
		db = db.Where("service_type = ?", query.Filters["service_type"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("name")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&vendors).Error
	return vendors, total, err
}

func (r *vendorRepository) FindAll(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&vendors).Error
	return vendors, err
}

// BankRepository defines the interface for bank data access
type BankRepository interface {
	FindByID(ctx context.Context, id string) (*models.Bank, error)
	FindByName(ctx context.Context, name string) (*models.Bank, error)
	Create(ctx context.Context, bank *models.Bank) error
	Update(ctx context.Context, bank *models.Bank) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]models.Bank, error)
}

type bankRepository struct {
	db *gorm.DB
}

// NewBankRepository creates a new bank repository
func NewBankRepository(db *gorm.DB) BankRepository {
	return &bankRepository{db: db}
}

func (r *bankRepository) FindByID(ctx context.Context, id string) (*models.Bank, error) {
	var bank models.Bank
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&bank).Error
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *bankRepository) FindByName(ctx context.Context, name string) (*models.Bank, error) {
	var bank models.Bank
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&bank).Error
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *bankRepository) Create(ctx context.Context, bank *models.Bank) error {
	return r.db.WithContext(ctx).Create(bank).Error
}

func (r *bankRepository) Update(ctx context.Context, bank *models.Bank) error {
	return r.db.WithContext(ctx).Save(bank).Error
}

func (r *bankRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bank{}).Error
}

func (r *bankRepository) FindAll(ctx context.Context) ([]models.Bank, error) {
	var banks []models.Bank
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&banks).Error
	return banks, err
}
