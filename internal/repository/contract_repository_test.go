package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
)

func seedContract(t *testing.T, db *gorm.DB, contractNo, unitNumber, status string, toDate time.Time) *models.Contract {
	t.Helper()
	contract := &models.Contract{
		ContractNo:   contractNo,
		BuildingID:   "b-1",
		UnitNumber:   unitNumber,
		CustomerID:   "c-1",
		RentValue:    30000,
		PeriodMonths: 12,
		FromDate:     toDate.AddDate(-1, 0, 1),
		ToDate:       toDate,
		Status:       status,
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("failed to seed contract: %v", err)
	}
	return contract
}

func TestContractRepositoryCreateWithTasks(t *testing.T) {
	db := newTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	contract := &models.Contract{
		ContractNo:   "1001",
		BuildingID:   "b-1",
		UnitNumber:   "A-101",
		CustomerID:   "c-1",
		RentValue:    30000,
		PeriodMonths: 12,
		FromDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ToDate:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	tasks := []models.Task{
		{UserID: "u-1", Title: "Rent Due (1/2): A-101"},
		{UserID: "u-1", Title: "Rent Due (2/2): A-101"},
	}

	err := repo.CreateWithTasks(ctx, contract, tasks)
	assert.NoError(t, err)
	assert.NotEmpty(t, contract.ID)

	var stored []models.Task
	assert.NoError(t, db.Where("contract_id = ?", contract.ID).Find(&stored).Error)
	assert.Len(t, stored, 2)
}

func TestContractRepositoryCreateWithTasksRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	contract := &models.Contract{
		ContractNo:   "1001",
		BuildingID:   "b-1",
		UnitNumber:   "A-101",
		CustomerID:   "c-1",
		RentValue:    30000,
		PeriodMonths: 12,
		FromDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ToDate:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	// duplicate explicit task IDs violate the primary key mid-batch
	tasks := []models.Task{
		{ID: "t-dup", UserID: "u-1", Title: "Rent Due (1/2): A-101"},
		{ID: "t-dup", UserID: "u-1", Title: "Rent Due (2/2): A-101"},
	}

	err := repo.CreateWithTasks(ctx, contract, tasks)
	assert.Error(t, err)

	// the contract insert rolled back with the failed task batch
	var count int64
	db.Model(&models.Contract{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestContractRepositoryFindActiveByUnit(t *testing.T) {
	db := newTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	seedContract(t, db, "1001", "A-101", models.ContractStatusTerminated, end)
	active := seedContract(t, db, "1002", "A-101", models.ContractStatusActive, end)
	seedContract(t, db, "1003", "B-7", models.ContractStatusActive, end)

	found, err := repo.FindActiveByUnit(ctx, "b-1", "A-101")
	assert.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)

	_, err = repo.FindActiveByUnit(ctx, "b-1", "C-9")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestContractRepositoryFindPendingDue(t *testing.T) {
	db := newTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// coverage opened in the past, still Pending
	due := seedContract(t, db, "1001", "A-101", models.ContractStatusPending, now.AddDate(0, -1, 0))
	// coverage opens in the future
	seedContract(t, db, "1002", "A-102", models.ContractStatusPending, now.AddDate(2, 0, 0))
	// already Active
	seedContract(t, db, "1003", "A-103", models.ContractStatusActive, now.AddDate(0, 6, 0))

	contracts, err := repo.FindPendingDue(ctx, now)
	assert.NoError(t, err)
	assert.Len(t, contracts, 1)
	assert.Equal(t, due.ID, contracts[0].ID)
}

func TestContractRepositoryMarkExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lapsed := seedContract(t, db, "1001", "A-101", models.ContractStatusActive, now.AddDate(0, -1, 0))
	current := seedContract(t, db, "1002", "A-102", models.ContractStatusActive, now.AddDate(0, 6, 0))
	terminated := seedContract(t, db, "1003", "A-103", models.ContractStatusTerminated, now.AddDate(0, -2, 0))

	affected, err := repo.MarkExpired(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	check := func(id, want string) {
		var c models.Contract
		assert.NoError(t, db.First(&c, "id = ?", id).Error)
		assert.Equal(t, want, c.Status)
	}
	check(lapsed.ID, models.ContractStatusExpired)
	check(current.ID, models.ContractStatusActive)
	check(terminated.ID, models.ContractStatusTerminated)

	// second sweep finds nothing left to flip
	affected, err = repo.MarkExpired(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestContractRepositoryMaxContractNoNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	max, err := repo.MaxContractNoNumber(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, max)

	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	seedContract(t, db, "1001", "A-101", models.ContractStatusExpired, end)
	seedContract(t, db, "1005", "A-102", models.ContractStatusActive, end)

	max, err = repo.MaxContractNoNumber(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1005, max)
}

func TestContractRepositoryFindByCustomer(t *testing.T) {
	db := newTestDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	older := seedContract(t, db, "1001", "A-101", models.ContractStatusExpired, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	newer := seedContract(t, db, "1002", "A-101", models.ContractStatusActive, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))

	contracts, err := repo.FindByCustomer(ctx, "c-1")
	assert.NoError(t, err)
	assert.Len(t, contracts, 2)

	// newest coverage first
	assert.Equal(t, newer.ID, contracts[0].ID)
	assert.Equal(t, older.ID, contracts[1].ID)
}
