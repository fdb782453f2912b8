package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/config"
	"github.com/aqariapp/aqari-api/internal/jobs"
	"github.com/aqariapp/aqari-api/internal/models"
)

type transactionTestEnv struct {
	svc       *TransactionService
	worker    *jobs.Worker
	txRepo    *mockTransactionRepository
	notifMu   sync.Mutex
	notifList []models.Notification
}

func newTransactionTestEnv(t *testing.T, contractRepo *mockContractRepository) *transactionTestEnv {
	t.Helper()

	env := &transactionTestEnv{
		txRepo: &mockTransactionRepository{},
		worker: jobs.NewWorker(1),
	}

	notifRepo := &mockNotificationRepository{
		mockCreate: func(ctx context.Context, n *models.Notification) error {
			env.notifMu.Lock()
			defer env.notifMu.Unlock()
			env.notifList = append(env.notifList, *n)
			return nil
		},
	}
	userRepo := &mockUserRepository{
		mockFindPrivileged: func(ctx context.Context) ([]models.User, error) {
			return []models.User{{ID: "u-adm", Name: "Admin", Role: models.RoleAdmin}}, nil
		},
	}

	env.svc = NewTransactionService(
		env.txRepo, contractRepo, &mockBuildingRepository{}, userRepo, &mockVendorRepository{},
		NewNotificationService(notifRepo, userRepo),
		NewEmailService(&config.Config{}),
		newTestAuditService(t),
		env.worker,
	)
	return env
}

func (e *transactionTestEnv) notifications() []models.Notification {
	e.notifMu.Lock()
	defer e.notifMu.Unlock()
	out := make([]models.Notification, len(e.notifList))
	copy(out, e.notifList)
	return out
}

func TestTransactionCreateAdjustedEntryQueuesForApproval(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})

	var saved *models.Transaction
	env.txRepo.mockCreate = func(ctx context.Context, tx *models.Transaction) error {
		saved = tx
		return nil
	}

	employee := &models.User{ID: "u-emp", Name: "Khalid", Role: models.RoleEmployee}
	tx := &models.Transaction{
		Type:        models.TransactionTypeIncome,
		Amount:      1000,
		ExtraAmount: 200,
		Details:     "Rent for A-101",
	}

	err := env.svc.Create(context.Background(), tx, false, employee)
	assert.NoError(t, err)

	// base amount stays until approval re-derives the net
	assert.Equal(t, models.TransactionStatusPending, saved.Status)
	assert.Equal(t, 1000.0, saved.Amount)
	assert.Equal(t, 200.0, saved.ExtraAmount)
	assert.Equal(t, "u-emp", saved.CreatedBy)
	assert.Equal(t, "Khalid", saved.CreatedByName)

	// reviewers got pinged
	env.worker.Shutdown()
	notifs := env.notifications()
	assert.Len(t, notifs, 1)
	assert.Equal(t, "u-adm", notifs[0].UserID)
	assert.Equal(t, models.NotificationTypeApprovalRequested, *notifs[0].NotificationType)
}

func TestTransactionCreatePrivilegedPostsNet(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})
	defer env.worker.Shutdown()

	var saved *models.Transaction
	env.txRepo.mockCreate = func(ctx context.Context, tx *models.Transaction) error {
		saved = tx
		return nil
	}

	manager := &models.User{ID: "u-mgr", Name: "Sara", Role: models.RoleManager}
	tx := &models.Transaction{
		Type:           models.TransactionTypeExpense,
		Amount:         1000,
		ExtraAmount:    200,
		DiscountAmount: 50,
		Details:        "Maintenance invoice",
	}

	err := env.svc.Create(context.Background(), tx, false, manager)
	assert.NoError(t, err)

	assert.Equal(t, models.TransactionStatusApproved, saved.Status)
	assert.Equal(t, 1150.0, saved.Amount)
	assert.Nil(t, saved.VatAmount)
}

func TestTransactionCreateWithVat(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})
	defer env.worker.Shutdown()

	var saved *models.Transaction
	env.txRepo.mockCreate = func(ctx context.Context, tx *models.Transaction) error {
		saved = tx
		return nil
	}

	admin := &models.User{ID: "u-adm", Name: "Admin", Role: models.RoleAdmin}
	tx := &models.Transaction{
		Type:    models.TransactionTypeIncome,
		Amount:  1000,
		Details: "Rent for B-7",
	}

	err := env.svc.Create(context.Background(), tx, true, admin)
	assert.NoError(t, err)

	assert.Equal(t, 1000.0, saved.Amount)
	assert.Equal(t, 150.0, *saved.VatAmount)
	assert.Equal(t, 1150.0, *saved.TotalWithVat)
}

func TestTransactionCreateValidation(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})
	defer env.worker.Shutdown()

	admin := &models.User{ID: "u-adm", Role: models.RoleAdmin}

	err := env.svc.Create(context.Background(), &models.Transaction{Type: models.TransactionTypeIncome, Amount: 0}, false, admin)
	assert.ErrorIs(t, err, ErrValidation)

	err = env.svc.Create(context.Background(), &models.Transaction{Type: "TRANSFER", Amount: 100}, false, admin)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransactionApproveFoldsAdjustmentsAndVat(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})
	defer env.worker.Shutdown()

	vat := 150.0
	total := 1150.0
	stored := &models.Transaction{
		ID:           "tx-1",
		Type:         models.TransactionTypeIncome,
		Amount:       1000,
		ExtraAmount:  200,
		Status:       models.TransactionStatusPending,
		VatAmount:    &vat,
		TotalWithVat: &total,
		CreatedBy:    "u-emp",
		Details:      "Rent for A-101",
	}

	env.txRepo.mockFindByID = func(ctx context.Context, id string) (*models.Transaction, error) {
		if id == stored.ID {
			return stored, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	updated := false
	env.txRepo.mockUpdate = func(ctx context.Context, tx *models.Transaction) error {
		updated = true
		return nil
	}

	employee := &models.User{ID: "u-emp", Role: models.RoleEmployee}
	_, err := env.svc.Approve(context.Background(), "tx-1", employee)
	assert.ErrorIs(t, err, ErrUnauthorized)

	admin := &models.User{ID: "u-adm", Role: models.RoleAdmin}
	tx, err := env.svc.Approve(context.Background(), "tx-1", admin)
	assert.NoError(t, err)
	assert.True(t, updated)

	// settled at base + extra, VAT recomputed on the settled amount
	assert.Equal(t, models.TransactionStatusApproved, tx.Status)
	assert.Equal(t, 1200.0, tx.Amount)
	assert.Equal(t, 180.0, *tx.VatAmount)
	assert.Equal(t, 1380.0, *tx.TotalWithVat)

	// approving again is a no-op
	updated = false
	tx, err = env.svc.Approve(context.Background(), "tx-1", admin)
	assert.NoError(t, err)
	assert.Equal(t, 1200.0, tx.Amount)
	assert.False(t, updated)
}

func TestTransactionRejectDeletesEntry(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})

	stored := &models.Transaction{
		ID:        "tx-1",
		Type:      models.TransactionTypeIncome,
		Amount:    1000,
		Status:    models.TransactionStatusPending,
		CreatedBy: "u-emp",
		Details:   "Rent for A-101",
	}

	env.txRepo.mockFindByID = func(ctx context.Context, id string) (*models.Transaction, error) {
		return stored, nil
	}
	deleted := ""
	env.txRepo.mockDelete = func(ctx context.Context, id string) error {
		deleted = id
		return nil
	}

	admin := &models.User{ID: "u-adm", Role: models.RoleAdmin}

	err := env.svc.Reject(context.Background(), "tx-1", false, admin)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Empty(t, deleted)

	err = env.svc.Reject(context.Background(), "tx-1", true, admin)
	assert.NoError(t, err)
	assert.Equal(t, "tx-1", deleted)

	// creator is told the entry is gone
	env.worker.Shutdown()
	notifs := env.notifications()
	assert.Len(t, notifs, 1)
	assert.Equal(t, "u-emp", notifs[0].UserID)
	assert.Equal(t, models.NotificationTypeEntryRejected, *notifs[0].NotificationType)
}

func TestTransactionRejectRequiresPendingState(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})
	defer env.worker.Shutdown()

	env.txRepo.mockFindByID = func(ctx context.Context, id string) (*models.Transaction, error) {
		return &models.Transaction{ID: id, Status: models.TransactionStatusApproved}, nil
	}

	err := env.svc.Reject(context.Background(), "tx-1", true, &models.User{ID: "u-adm", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTransactionVisibility(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})
	defer env.worker.Shutdown()

	env.txRepo.mockFindByID = func(ctx context.Context, id string) (*models.Transaction, error) {
		return &models.Transaction{ID: id, CreatedBy: "u-emp", Status: models.TransactionStatusApproved}, nil
	}

	// employees only see their own entries
	_, err := env.svc.FindByID(context.Background(), &models.User{ID: "u-other", Role: models.RoleEmployee}, "tx-1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	tx, err := env.svc.FindByID(context.Background(), &models.User{ID: "u-emp", Role: models.RoleEmployee}, "tx-1")
	assert.NoError(t, err)
	assert.Equal(t, "u-emp", tx.CreatedBy)

	_, err = env.svc.FindByID(context.Background(), &models.User{ID: "u-mgr", Role: models.RoleManager}, "tx-1")
	assert.NoError(t, err)
}

func TestInstallmentDue(t *testing.T) {
	contract := &models.Contract{
		ID:               "ct-1",
		TotalValue:       42000,
		FirstInstallment: 12000,
		OtherInstallment: 10000,
	}
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Contract, error) {
			return contract, nil
		},
	}

	env := newTransactionTestEnv(t, contractRepo)
	defer env.worker.Shutdown()

	var prior []models.Transaction
	env.txRepo.mockFindByContract = func(ctx context.Context, contractID string) ([]models.Transaction, error) {
		return prior, nil
	}

	// nothing collected: the first installment is due
	due, isFirst, err := env.svc.InstallmentDue(context.Background(), "ct-1")
	assert.NoError(t, err)
	assert.True(t, isFirst)
	assert.Equal(t, 12000.0, due)

	// rejected entries never count toward the collected total
	prior = []models.Transaction{{Amount: 12000, Status: models.TransactionStatusRejected}}
	due, isFirst, err = env.svc.InstallmentDue(context.Background(), "ct-1")
	assert.NoError(t, err)
	assert.True(t, isFirst)
	assert.Equal(t, 12000.0, due)

	// pending entries do count
	prior = []models.Transaction{
		{Amount: 12000, Status: models.TransactionStatusApproved},
		{Amount: 10000, Status: models.TransactionStatusPending},
	}
	due, isFirst, err = env.svc.InstallmentDue(context.Background(), "ct-1")
	assert.NoError(t, err)
	assert.False(t, isFirst)
	assert.Equal(t, 10000.0, due)

	// near the end the due amount is capped at what remains
	prior = []models.Transaction{
		{Amount: 12000, Status: models.TransactionStatusApproved},
		{Amount: 10000, Status: models.TransactionStatusApproved},
		{Amount: 10000, Status: models.TransactionStatusApproved},
		{Amount: 6000, Status: models.TransactionStatusApproved},
	}
	due, isFirst, err = env.svc.InstallmentDue(context.Background(), "ct-1")
	assert.NoError(t, err)
	assert.False(t, isFirst)
	assert.Equal(t, 4000.0, due)

	// fully collected
	prior = append(prior, models.Transaction{Amount: 4000, Status: models.TransactionStatusApproved})
	due, _, err = env.svc.InstallmentDue(context.Background(), "ct-1")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, due)
}

func TestTransactionUpdateEditWindow(t *testing.T) {
	env := newTransactionTestEnv(t, &mockContractRepository{})
	defer env.worker.Shutdown()

	stored := &models.Transaction{
		ID:        "tx-1",
		Type:      models.TransactionTypeIncome,
		Amount:    1000,
		Status:    models.TransactionStatusApproved,
		CreatedBy: "u-emp",
		CreatedAt: time.Now().Add(-6 * 24 * time.Hour),
	}
	env.txRepo.mockFindByID = func(ctx context.Context, id string) (*models.Transaction, error) {
		return stored, nil
	}

	edit := &models.Transaction{ID: "tx-1", Type: models.TransactionTypeIncome, Amount: 1100}

	employee := &models.User{ID: "u-emp", Role: models.RoleEmployee}
	err := env.svc.Update(context.Background(), edit, false, employee)
	assert.ErrorIs(t, err, ErrEditWindowClosed)

	other := &models.User{ID: "u-other", Role: models.RoleEmployee}
	err = env.svc.Update(context.Background(), edit, false, other)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// privileged users edit regardless of age or ownership
	var saved *models.Transaction
	env.txRepo.mockUpdate = func(ctx context.Context, tx *models.Transaction) error {
		saved = tx
		return nil
	}
	admin := &models.User{ID: "u-adm", Role: models.RoleAdmin}
	err = env.svc.Update(context.Background(), edit, false, admin)
	assert.NoError(t, err)

	// provenance survives the edit
	assert.Equal(t, "u-emp", saved.CreatedBy)
	assert.Equal(t, stored.CreatedAt, saved.CreatedAt)
}
