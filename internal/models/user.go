package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a staff member with back-office access
type User struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	Email             *string    `gorm:"uniqueIndex" json:"email"`
	EncryptedPassword string     `gorm:"column:encrypted_password;not null" json:"-"`
	Role              string     `gorm:"default:EMPLOYEE;index" json:"role"`
	Status            string     `gorm:"default:Active" json:"status"`
	Phone             *string    `json:"phone"`
	JoinedDate        *time.Time `json:"joined_date"`
	BaseSalary        *float64   `gorm:"type:decimal" json:"base_salary"`
	DiscardedAt       *time.Time `gorm:"index" json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Tasks         []Task         `gorm:"foreignKey:UserID" json:"tasks,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook assigns the id and defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// IsAdmin returns true if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager returns true if user has the manager role
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsPrivileged returns true for roles that approve adjusted transactions
// and see every user's records.
func (u *User) IsPrivileged() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

// IsActive returns true if user can log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive && u.DiscardedAt == nil
}

// IsDiscarded returns true if user is soft-deleted
func (u *User) IsDiscarded() bool {
	return u.DiscardedAt != nil
}

// Role constants
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

// User status constants
const (
	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
)

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	Phone      *string    `json:"phone"`
	JoinedDate *time.Time `json:"joined_date"`
	BaseSalary *float64   `json:"base_salary"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Status:     u.Status,
		Phone:      u.Phone,
		JoinedDate: u.JoinedDate,
		BaseSalary: u.BaseSalary,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
