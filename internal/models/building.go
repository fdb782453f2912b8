package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Building represents a managed property
type Building struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Units []BuildingUnit `gorm:"foreignKey:BuildingID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
}

// TableName specifies the table name for Building
func (Building) TableName() string {
	return "buildings"
}

// BeforeCreate hook assigns the id
func (b *Building) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// UnitNames returns the unit names in declaration order
func (b *Building) UnitNames() []string {
	names := make([]string, 0, len(b.Units))
	for _, u := range b.Units {
		names = append(names, u.Name)
	}
	return names
}

// BuildingUnit is a rentable unit inside a building. Unit names are
// unique within their building, not globally.
type BuildingUnit struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	BuildingID  string    `gorm:"not null;index;uniqueIndex:idx_building_unit_name" json:"building_id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_building_unit_name" json:"name"`
	DefaultRent *float64  `gorm:"type:decimal" json:"default_rent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for BuildingUnit
func (BuildingUnit) TableName() string {
	return "building_units"
}

// BeforeCreate hook assigns the id
func (u *BuildingUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BuildingResponse is the JSON response format for buildings
type BuildingResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Address   *string        `json:"address"`
	Units     []BuildingUnit `json:"units"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ToResponse converts Building to BuildingResponse
func (b *Building) ToResponse() BuildingResponse {
	units := b.Units
	if units == nil {
		units = []BuildingUnit{}
	}
	return BuildingResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Units:     units,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
