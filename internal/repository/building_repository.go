package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aqariapp/aqari-api/internal/models"
)

// BuildingRepository defines the interface for building data access
type BuildingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Building, error)
	FindUnit(ctx context.Context, buildingID, unitName string) (*models.BuildingUnit, error)
	Create(ctx context.Context, building *models.Building) error
	Update(ctx context.Context, building *models.Building) error
	ReplaceUnits(ctx context.Context, buildingID string, units []models.BuildingUnit) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query *ListQuery) ([]models.Building, int64, error)
	FindAll(ctx context.Context) ([]models.Building, error)
}

type buildingRepository struct {
	db *gorm.DB
}

// NewBuildingRepository creates a new building repository
func NewBuildingRepository(db *gorm.DB) BuildingRepository {
	return &buildingRepository{db: db}
}

func (r *buildingRepository) FindByID(ctx context.Context, id string) (*models.Building, error) {
	var building models.Building
	err := r.db.WithContext(ctx).
		Preload("Units").
		Where("id = ?", id).
		First(&building).Error
	if err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *buildingRepository) FindUnit(ctx context.Context, buildingID, unitName string) (*models.BuildingUnit, error) {
	var unit models.BuildingUnit
	err := r.db.WithContext(ctx).
		Where("building_id = ? AND name = ?", buildingID, unitName).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *buildingRepository) Create(ctx context.Context, building *models.Building) error {
	return r.db.WithContext(ctx).Create(building).Error
}

func (r *buildingRepository) Update(ctx context.Context, building *models.Building) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(building).Error
}

// ReplaceUnits swaps a building's unit list in one transaction. Units
// removed from the list disappear; occupancy validation happens above
// this layer.
func (r *buildingRepository) ReplaceUnits(ctx context.Context, buildingID string, units []models.BuildingUnit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("building_id = ?", buildingID).
			Delete(&models.BuildingUnit{}).Error; err != nil {
			return err
		}
		for i := range units {
			units[i].ID = ""
			units[i].BuildingID = buildingID
		}
		if len(units) == 0 {
			return nil
		}
		return tx.Create(&units).Error
	})
}

func (r *buildingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("building_id = ?", id).
			Delete(&models.BuildingUnit{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Building{}).Error
	})
}

func (r *buildingRepository) List(ctx context.Context, query *ListQuery) ([]models.Building, int64, error) {
	var buildings []models.Building
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Building{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR address ILIKE ?", search, search)
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

	err := db.Preload("Units").Find(&buildings).Error
	return buildings, total, err
}

func (r *buildingRepository) FindAll(ctx context.Context) ([]models.Building, error) {
	var buildings []models.Building
	err := r.db.WithContext(ctx).
		Preload("Units").
		Order("name").
		Find(&buildings).Error
	return buildings, err
}
