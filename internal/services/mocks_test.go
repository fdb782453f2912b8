package services

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
	"github.com/aqariapp/aqari-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup("test")
	os.Exit(m.Run())
}

// newTestAuditService backs the audit trail with an in-memory sqlite
// database so service tests exercise the real write path.
func newTestAuditService(t *testing.T) *AuditService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewAuditService(db)
}

// newContractRepoOnSqlite gives lifecycle tests a real contract
// repository so status sweeps run against actual rows.
func newContractRepoOnSqlite(t *testing.T) (*gorm.DB, repository.ContractRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Contract{}, &models.Task{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db, repository.NewContractRepository(db)
}

// Mock ContractRepository (using embedding to avoid implementing all methods)
type mockContractRepository struct {
	repository.ContractRepository
	mockFindByID            func(ctx context.Context, id string) (*models.Contract, error)
	mockFindActiveByUnit    func(ctx context.Context, buildingID, unitNumber string) (*models.Contract, error)
	mockFindByCustomer      func(ctx context.Context, customerID string) ([]models.Contract, error)
	mockCreateWithTasks     func(ctx context.Context, contract *models.Contract, tasks []models.Task) error
	mockUpdate              func(ctx context.Context, contract *models.Contract) error
	mockMaxContractNoNumber func(ctx context.Context) (int, error)
	mockFindPendingDue      func(ctx context.Context, now time.Time) ([]models.Contract, error)
	mockMarkExpired         func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockContractRepository) FindByID(ctx context.Context, id string) (*models.Contract, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepository) FindActiveByUnit(ctx context.Context, buildingID, unitNumber string) (*models.Contract, error) {
	if m.mockFindActiveByUnit != nil {
		return m.mockFindActiveByUnit(ctx, buildingID, unitNumber)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepository) FindByCustomer(ctx context.Context, customerID string) ([]models.Contract, error) {
	if m.mockFindByCustomer != nil {
		return m.mockFindByCustomer(ctx, customerID)
	}
	return nil, nil
}

func (m *mockContractRepository) CreateWithTasks(ctx context.Context, contract *models.Contract, tasks []models.Task) error {
	if m.mockCreateWithTasks != nil {
		return m.mockCreateWithTasks(ctx, contract, tasks)
	}
	return nil
}

func (m *mockContractRepository) Update(ctx context.Context, contract *models.Contract) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, contract)
	}
	return nil
}

func (m *mockContractRepository) MaxContractNoNumber(ctx context.Context) (int, error) {
	if m.mockMaxContractNoNumber != nil {
		return m.mockMaxContractNoNumber(ctx)
	}
	return 0, nil
}

func (m *mockContractRepository) FindPendingDue(ctx context.Context, now time.Time) ([]models.Contract, error) {
	if m.mockFindPendingDue != nil {
		return m.mockFindPendingDue(ctx, now)
	}
	return nil, nil
}

func (m *mockContractRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.mockMarkExpired != nil {
		return m.mockMarkExpired(ctx, now)
	}
	return 0, nil
}

// Mock TransactionRepository
type mockTransactionRepository struct {
	repository.TransactionRepository
	mockFindByID       func(ctx context.Context, id string) (*models.Transaction, error)
	mockFindByContract func(ctx context.Context, contractID string) ([]models.Transaction, error)
	mockFindBetween    func(ctx context.Context, from, to time.Time) ([]models.Transaction, error)
	mockCreate         func(ctx context.Context, tx *models.Transaction) error
	mockUpdate         func(ctx context.Context, tx *models.Transaction) error
	mockDelete         func(ctx context.Context, id string) error
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTransactionRepository) FindByContract(ctx context.Context, contractID string) ([]models.Transaction, error) {
	if m.mockFindByContract != nil {
		return m.mockFindByContract(ctx, contractID)
	}
	return nil, nil
}

func (m *mockTransactionRepository) FindBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	if m.mockFindBetween != nil {
		return m.mockFindBetween(ctx, from, to)
	}
	return nil, nil
}

func (m *mockTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, tx)
	}
	return nil
}

func (m *mockTransactionRepository) Delete(ctx context.Context, id string) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

// Mock CustomerRepository
type mockCustomerRepository struct {
	repository.CustomerRepository
	mockFindByID      func(ctx context.Context, id string) (*models.Customer, error)
	mockCreate        func(ctx context.Context, customer *models.Customer) error
	mockUpdate        func(ctx context.Context, customer *models.Customer) error
	mockSoftDelete    func(ctx context.Context, id string) error
	mockMaxCodeNumber func(ctx context.Context) (int, error)
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, customer)
	}
	return nil
}

func (m *mockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, customer)
	}
	return nil
}

func (m *mockCustomerRepository) SoftDelete(ctx context.Context, id string) error {
	if m.mockSoftDelete != nil {
		return m.mockSoftDelete(ctx, id)
	}
	return nil
}

func (m *mockCustomerRepository) MaxCodeNumber(ctx context.Context) (int, error) {
	if m.mockMaxCodeNumber != nil {
		return m.mockMaxCodeNumber(ctx)
	}
	return 0, nil
}

// Mock BuildingRepository
type mockBuildingRepository struct {
	repository.BuildingRepository
	mockFindByID func(ctx context.Context, id string) (*models.Building, error)
	mockFindUnit func(ctx context.Context, buildingID, unitNumber string) (*models.BuildingUnit, error)
}

func (m *mockBuildingRepository) FindByID(ctx context.Context, id string) (*models.Building, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBuildingRepository) FindUnit(ctx context.Context, buildingID, unitNumber string) (*models.BuildingUnit, error) {
	if m.mockFindUnit != nil {
		return m.mockFindUnit(ctx, buildingID, unitNumber)
	}
	return nil, gorm.ErrRecordNotFound
}

// Mock UserRepository
type mockUserRepository struct {
	repository.UserRepository
	mockFindByID       func(ctx context.Context, id string) (*models.User, error)
	mockFindByEmail    func(ctx context.Context, email string) (*models.User, error)
	mockFindPrivileged func(ctx context.Context) ([]models.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.mockFindByEmail != nil {
		return m.mockFindByEmail(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) FindPrivileged(ctx context.Context) ([]models.User, error) {
	if m.mockFindPrivileged != nil {
		return m.mockFindPrivileged(ctx)
	}
	return nil, nil
}

// Mock TaskRepository
type mockTaskRepository struct {
	repository.TaskRepository
	mockFindByID    func(ctx context.Context, id string) (*models.Task, error)
	mockFindOverdue func(ctx context.Context, now time.Time) ([]models.Task, error)
	mockCreate      func(ctx context.Context, task *models.Task) error
	mockUpdate      func(ctx context.Context, task *models.Task) error
	mockDelete      func(ctx context.Context, id string) error
}

func (m *mockTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	if m.mockFindOverdue != nil {
		return m.mockFindOverdue(ctx, now)
	}
	return nil, nil
}

func (m *mockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, task)
	}
	return nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, task)
	}
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id string) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

// Mock RefreshTokenRepository
type mockRefreshTokenRepository struct {
	repository.RefreshTokenRepository
	mockFindByToken   func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockCreate        func(ctx context.Context, rt *models.RefreshToken) error
	mockDeleteByToken func(ctx context.Context, token string) error
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if m.mockFindByToken != nil {
		return m.mockFindByToken(ctx, token)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, rt *models.RefreshToken) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, rt)
	}
	return nil
}

func (m *mockRefreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.mockDeleteByToken != nil {
		return m.mockDeleteByToken(ctx, token)
	}
	return nil
}

// Mock VendorRepository
type mockVendorRepository struct {
	repository.VendorRepository
	mockFindByID func(ctx context.Context, id string) (*models.Vendor, error)
}

func (m *mockVendorRepository) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// Mock NotificationRepository
type mockNotificationRepository struct {
	repository.NotificationRepository
	mockCreate func(ctx context.Context, notification *models.Notification) error
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, notification)
	}
	return nil
}
