package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Building     BuildingRepository
	Customer     CustomerRepository
	Contract     ContractRepository
	Transaction  TransactionRepository
	Task         TaskRepository
	Vendor       VendorRepository
	Bank         BankRepository
	Notification NotificationRepository
	RefreshToken RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Building:     NewBuildingRepository(db),
		Customer:     NewCustomerRepository(db),
		Contract:     NewContractRepository(db),
		Transaction:  NewTransactionRepository(db),
		Task:         NewTaskRepository(db),
		Vendor:       NewVendorRepository(db),
		Bank:         NewBankRepository(db),
		Notification: NewNotificationRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
	}
}
