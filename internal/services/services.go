package services

import (
	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/config"
	"github.com/aqariapp/aqari-api/internal/jobs"
	"github.com/aqariapp/aqari-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Building     *BuildingService
	Customer     *CustomerService
	Contract     *ContractService
	Transaction  *TransactionService
	Task         *TaskService
	Vendor       *VendorService
	Bank         *BankService
	Notification *NotificationService
	Report       *ReportService
	Export       *ExportService
	Audit        *AuditService
	Email        *EmailService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)

	return &Services{
		Auth:     NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:     NewUserService(repos.User, emailSvc, auditSvc, worker),
		Building: NewBuildingService(repos.Building, repos.Contract, auditSvc),
		Customer: NewCustomerService(repos.Customer, repos.Contract, auditSvc),
		Contract: NewContractService(
			repos.Contract, repos.Building, repos.Customer, repos.User,
			notificationSvc, emailSvc, auditSvc, worker,
		),
		Transaction: NewTransactionService(
			repos.Transaction, repos.Contract, repos.Building, repos.User, repos.Vendor,
			notificationSvc, emailSvc, auditSvc, worker,
		),
		Task:         NewTaskService(repos.Task, repos.User, notificationSvc, emailSvc),
		Vendor:       NewVendorService(repos.Vendor, auditSvc),
		Bank:         NewBankService(repos.Bank, auditSvc),
		Notification: notificationSvc,
		Report:       NewReportService(repos.Transaction, repos.Contract, repos.Customer),
		Export:       NewExportService(repos.Transaction, repos.Contract),
		Audit:        auditSvc,
		Email:        emailSvc,
	}
}
