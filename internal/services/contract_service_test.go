package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/config"
	"github.com/aqariapp/aqari-api/internal/jobs"
	"github.com/aqariapp/aqari-api/internal/models"
)

func newContractServiceForTest(t *testing.T, contractRepo *mockContractRepository, buildingRepo *mockBuildingRepository, customerRepo *mockCustomerRepository, userRepo *mockUserRepository, notifRepo *mockNotificationRepository) (*ContractService, *jobs.Worker) {
	t.Helper()

	worker := jobs.NewWorker(1)
	notificationSvc := NewNotificationService(notifRepo, userRepo)
	emailSvc := NewEmailService(&config.Config{})
	auditSvc := newTestAuditService(t)

	svc := NewContractService(contractRepo, buildingRepo, customerRepo, userRepo,
		notificationSvc, emailSvc, auditSvc, worker)
	return svc, worker
}

func TestContractCreateDerivesBreakdownAndSchedule(t *testing.T) {
	var saved *models.Contract
	var savedTasks []models.Task

	contractRepo := &mockContractRepository{
		mockCreateWithTasks: func(ctx context.Context, contract *models.Contract, tasks []models.Task) error {
			saved = contract
			savedTasks = tasks
			return nil
		},
	}
	buildingRepo := &mockBuildingRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Building, error) {
			return &models.Building{ID: id, Name: "Al Noor Tower"}, nil
		},
		mockFindUnit: func(ctx context.Context, buildingID, unitNumber string) (*models.BuildingUnit, error) {
			return &models.BuildingUnit{BuildingID: buildingID, Name: unitNumber}, nil
		},
	}
	customerRepo := &mockCustomerRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Customer, error) {
			return &models.Customer{ID: id, NameAr: "Ahmed Al-Qahtani", Code: "1001"}, nil
		},
	}

	svc, worker := newContractServiceForTest(t, contractRepo, buildingRepo, customerRepo,
		&mockUserRepository{}, &mockNotificationRepository{})
	defer worker.Shutdown()

	actor := &models.User{ID: "u-mgr", Name: "Sara", Role: models.RoleManager}
	contract := &models.Contract{
		BuildingID:       "b-1",
		UnitNumber:       "A-101",
		CustomerID:       "c-1",
		RentValue:        40000,
		OfficeFeePercent: 5,
		InstallmentCount: 4,
		PeriodMonths:     12,
		FromDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	err := svc.Create(context.Background(), contract, actor, CreateOptions{})
	assert.NoError(t, err)
	assert.NotNil(t, saved)

	// first contract number ever issued
	assert.Equal(t, "1001", saved.ContractNo)

	// display names snapshotted from the referenced records
	assert.Equal(t, "Al Noor Tower", saved.BuildingName)
	assert.Equal(t, "Ahmed Al-Qahtani", saved.CustomerName)
	assert.Equal(t, "u-mgr", saved.CreatedBy)

	// 12 months from Jan 1 ends Dec 31
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), saved.ToDate)

	assert.Equal(t, 2000.0, saved.OfficeFeeAmount)
	assert.Equal(t, 42000.0, saved.TotalValue)
	assert.Equal(t, 12000.0, saved.FirstInstallment)
	assert.Equal(t, 10000.0, saved.OtherInstallment)

	assert.Equal(t, models.ContractStatusActive, saved.Status)

	// quarterly reminders, owned by the creator
	assert.Len(t, savedTasks, 4)
	assert.Equal(t, "u-mgr", savedTasks[0].UserID)
	assert.Equal(t, "Rent Due (1/4): A-101", savedTasks[0].Title)
	assert.Equal(t, saved.FromDate, *savedTasks[0].DueDate)
	assert.Equal(t, saved.FromDate.AddDate(0, 3, 0), *savedTasks[1].DueDate)
	assert.Equal(t, saved.FromDate.AddDate(0, 9, 0), *savedTasks[3].DueDate)
}

func TestContractCreateRejectsOccupiedUnit(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindActiveByUnit: func(ctx context.Context, buildingID, unitNumber string) (*models.Contract, error) {
			return &models.Contract{ID: "ct-1", ContractNo: "1005", UnitNumber: unitNumber, Status: models.ContractStatusActive}, nil
		},
	}
	buildingRepo := &mockBuildingRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Building, error) {
			return &models.Building{ID: id, Name: "Al Noor Tower"}, nil
		},
		mockFindUnit: func(ctx context.Context, buildingID, unitNumber string) (*models.BuildingUnit, error) {
			return &models.BuildingUnit{BuildingID: buildingID, Name: unitNumber}, nil
		},
	}
	customerRepo := &mockCustomerRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Customer, error) {
			return &models.Customer{ID: id, NameAr: "Khalid"}, nil
		},
	}

	svc, worker := newContractServiceForTest(t, contractRepo, buildingRepo, customerRepo,
		&mockUserRepository{}, &mockNotificationRepository{})
	defer worker.Shutdown()

	actor := &models.User{ID: "u-1", Role: models.RoleAdmin}
	contract := &models.Contract{
		BuildingID:   "b-1",
		UnitNumber:   "A-101",
		CustomerID:   "c-1",
		RentValue:    30000,
		PeriodMonths: 12,
		FromDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	err := svc.Create(context.Background(), contract, actor, CreateOptions{})
	assert.ErrorIs(t, err, ErrUnitOccupied)

	// renewals skip the occupancy check so back-to-back coverage works
	err = svc.Create(context.Background(), contract, actor, CreateOptions{IsRenewal: true})
	assert.NoError(t, err)
}

func TestContractCreateFutureStartIsPending(t *testing.T) {
	var saved *models.Contract

	contractRepo := &mockContractRepository{
		mockCreateWithTasks: func(ctx context.Context, contract *models.Contract, tasks []models.Task) error {
			saved = contract
			return nil
		},
	}
	buildingRepo := &mockBuildingRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Building, error) {
			return &models.Building{ID: id, Name: "Qasr Plaza"}, nil
		},
		mockFindUnit: func(ctx context.Context, buildingID, unitNumber string) (*models.BuildingUnit, error) {
			return &models.BuildingUnit{BuildingID: buildingID, Name: unitNumber}, nil
		},
	}
	customerRepo := &mockCustomerRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Customer, error) {
			return &models.Customer{ID: id, NameAr: "Omar"}, nil
		},
	}

	svc, worker := newContractServiceForTest(t, contractRepo, buildingRepo, customerRepo,
		&mockUserRepository{}, &mockNotificationRepository{})
	defer worker.Shutdown()

	contract := &models.Contract{
		BuildingID:   "b-2",
		UnitNumber:   "B-7",
		CustomerID:   "c-2",
		RentValue:    24000,
		PeriodMonths: 6,
		FromDate:     time.Now().AddDate(0, 1, 0),
	}

	err := svc.Create(context.Background(), contract, &models.User{ID: "u-1", Role: models.RoleAdmin}, CreateOptions{})
	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusPending, saved.Status)
}

func TestContractCreateValidation(t *testing.T) {
	buildingRepo := &mockBuildingRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Building, error) {
			return &models.Building{ID: id, Name: "Qasr Plaza"}, nil
		},
		mockFindUnit: func(ctx context.Context, buildingID, unitNumber string) (*models.BuildingUnit, error) {
			return &models.BuildingUnit{BuildingID: buildingID, Name: unitNumber}, nil
		},
	}
	customerRepo := &mockCustomerRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Customer, error) {
			return &models.Customer{ID: id, NameAr: "Omar"}, nil
		},
	}

	svc, worker := newContractServiceForTest(t, &mockContractRepository{}, buildingRepo, customerRepo,
		&mockUserRepository{}, &mockNotificationRepository{})
	defer worker.Shutdown()

	actor := &models.User{ID: "u-1", Role: models.RoleAdmin}

	noRent := &models.Contract{BuildingID: "b-1", UnitNumber: "A-1", CustomerID: "c-1", PeriodMonths: 12}
	assert.ErrorIs(t, svc.Create(context.Background(), noRent, actor, CreateOptions{}), ErrValidation)

	noPeriod := &models.Contract{BuildingID: "b-1", UnitNumber: "A-1", CustomerID: "c-1", RentValue: 10000}
	assert.ErrorIs(t, svc.Create(context.Background(), noPeriod, actor, CreateOptions{}), ErrValidation)
}

func TestContractNextNumberContinuesSequence(t *testing.T) {
	var saved *models.Contract

	contractRepo := &mockContractRepository{
		mockCreateWithTasks: func(ctx context.Context, contract *models.Contract, tasks []models.Task) error {
			saved = contract
			return nil
		},
		mockMaxContractNoNumber: func(ctx context.Context) (int, error) {
			return 1042, nil
		},
	}
	buildingRepo := &mockBuildingRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Building, error) {
			return &models.Building{ID: id, Name: "Al Noor Tower"}, nil
		},
		mockFindUnit: func(ctx context.Context, buildingID, unitNumber string) (*models.BuildingUnit, error) {
			return &models.BuildingUnit{BuildingID: buildingID, Name: unitNumber}, nil
		},
	}
	customerRepo := &mockCustomerRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Customer, error) {
			return &models.Customer{ID: id, NameAr: "Sara"}, nil
		},
	}

	svc, worker := newContractServiceForTest(t, contractRepo, buildingRepo, customerRepo,
		&mockUserRepository{}, &mockNotificationRepository{})
	defer worker.Shutdown()

	contract := &models.Contract{
		BuildingID:   "b-1",
		UnitNumber:   "A-102",
		CustomerID:   "c-1",
		RentValue:    18000,
		PeriodMonths: 12,
		FromDate:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	err := svc.Create(context.Background(), contract, &models.User{ID: "u-1", Role: models.RoleAdmin}, CreateOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "1043", saved.ContractNo)
}

func TestContractFinalize(t *testing.T) {
	stored := &models.Contract{
		ID:         "ct-1",
		ContractNo: "1001",
		Status:     models.ContractStatusActive,
	}
	updated := false

	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Contract, error) {
			if id == stored.ID {
				return stored, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		mockUpdate: func(ctx context.Context, contract *models.Contract) error {
			updated = true
			return nil
		},
	}

	svc, worker := newContractServiceForTest(t, contractRepo, &mockBuildingRepository{}, &mockCustomerRepository{},
		&mockUserRepository{}, &mockNotificationRepository{})
	defer worker.Shutdown()

	actor := &models.User{ID: "u-adm", Role: models.RoleAdmin}

	_, err := svc.Finalize(context.Background(), "ct-1", false, actor)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.False(t, updated)

	contract, err := svc.Finalize(context.Background(), "ct-1", true, actor)
	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusTerminated, contract.Status)
	assert.True(t, updated)

	// already terminated: returned as-is, no second write
	updated = false
	contract, err = svc.Finalize(context.Background(), "ct-1", true, actor)
	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusTerminated, contract.Status)
	assert.False(t, updated)

	_, err = svc.Finalize(context.Background(), "missing", true, actor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContractRenewDraft(t *testing.T) {
	source := &models.Contract{
		ID:               "ct-1",
		ContractNo:       "1001",
		BuildingID:       "b-1",
		BuildingName:     "Al Noor Tower",
		UnitNumber:       "A-101",
		CustomerID:       "c-1",
		CustomerName:     "Ahmed Al-Qahtani",
		RentValue:        40000,
		OfficeFeePercent: 5,
		InstallmentCount: 4,
		PeriodMonths:     12,
		FromDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ToDate:           time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:           models.ContractStatusActive,
	}

	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Contract, error) {
			return source, nil
		},
	}

	svc, worker := newContractServiceForTest(t, contractRepo, &mockBuildingRepository{}, &mockCustomerRepository{},
		&mockUserRepository{}, &mockNotificationRepository{})
	defer worker.Shutdown()

	draft, err := svc.Renew(context.Background(), "ct-1")
	assert.NoError(t, err)

	// coverage picks up the day after the source ends
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), draft.FromDate)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), draft.ToDate)

	// draft is unsaved and gets its own number on create
	assert.Empty(t, draft.ID)
	assert.Empty(t, draft.ContractNo)

	assert.Equal(t, source.RentValue, draft.RentValue)
	assert.Equal(t, 42000.0, draft.TotalValue)

	// source untouched
	assert.Equal(t, models.ContractStatusActive, source.Status)
}

func TestRefreshStatusesActivatesDueContracts(t *testing.T) {
	var sequence []string
	var updated *models.Contract

	contractRepo := &mockContractRepository{
		mockFindPendingDue: func(ctx context.Context, now time.Time) ([]models.Contract, error) {
			return []models.Contract{{
				ID:       "ct-1",
				Status:   models.ContractStatusPending,
				FromDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				ToDate:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
			}}, nil
		},
		mockUpdate: func(ctx context.Context, contract *models.Contract) error {
			sequence = append(sequence, "activate")
			updated = contract
			return nil
		},
		mockMarkExpired: func(ctx context.Context, now time.Time) (int64, error) {
			sequence = append(sequence, "expire")
			return 1, nil
		},
	}

	svc, worker := newContractServiceForTest(t, contractRepo, &mockBuildingRepository{},
		&mockCustomerRepository{}, &mockUserRepository{}, &mockNotificationRepository{})
	defer worker.Shutdown()

	svc.RefreshStatuses(context.Background())

	// a Pending contract whose window opened becomes Active, and the
	// expiry pass runs after so a fully lapsed window still expires
	assert.Equal(t, []string{"activate", "expire"}, sequence)
	assert.Equal(t, models.ContractStatusActive, updated.Status)
}

func TestRefreshStatusesWalksLapsedPendingToExpired(t *testing.T) {
	db, repo := newContractRepoOnSqlite(t)

	pending := &models.Contract{
		ContractNo:   "1001",
		BuildingID:   "b-1",
		UnitNumber:   "A-101",
		CustomerID:   "c-1",
		RentValue:    30000,
		PeriodMonths: 12,
		FromDate:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		ToDate:       time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:       models.ContractStatusPending,
	}
	if err := db.Create(pending).Error; err != nil {
		t.Fatalf("failed to seed contract: %v", err)
	}

	worker := jobs.NewWorker(1)
	defer worker.Shutdown()

	svc := NewContractService(repo, &mockBuildingRepository{}, &mockCustomerRepository{},
		&mockUserRepository{},
		NewNotificationService(&mockNotificationRepository{}, &mockUserRepository{}),
		NewEmailService(&config.Config{}), newTestAuditService(t), worker)

	svc.RefreshStatuses(context.Background())

	var stored models.Contract
	assert.NoError(t, db.First(&stored, "id = ?", pending.ID).Error)
	assert.Equal(t, models.ContractStatusExpired, stored.Status)
}
