package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/jobs"
	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
	"github.com/aqariapp/aqari-api/internal/statemachine"
)

type ContractService struct {
	repo            repository.ContractRepository
	buildingRepo    repository.BuildingRepository
	customerRepo    repository.CustomerRepository
	userRepo        repository.UserRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
	schedule        *ScheduleService
}

func NewContractService(
	repo repository.ContractRepository,
	buildingRepo repository.BuildingRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *ContractService {
	return &ContractService{
		repo:            repo,
		buildingRepo:    buildingRepo,
		customerRepo:    customerRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
		schedule:        NewScheduleService(),
	}
}

// FindByID gets a contract by ID, refreshing lapsed statuses first so
// a stale Active never leaks out.
func (s *ContractService) FindByID(ctx context.Context, id string) (*models.Contract, error) {
	s.RefreshStatuses(ctx)

	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

// List returns contracts with lapsed statuses refreshed
func (s *ContractService) List(ctx context.Context, query *repository.ListQuery) ([]models.Contract, int64, error) {
	s.RefreshStatuses(ctx)
	return s.repo.List(ctx, query)
}

// RefreshStatuses walks contract statuses forward in time: Pending
// contracts whose coverage window has opened become Active, then every
// Active contract whose coverage ended becomes Expired. Activation runs
// first so a fully lapsed window still ends up Expired, not stuck in
// Pending. Idempotent; runs on every read path and from the hourly
// sweep. Reads still proceed on stale statuses when a pass fails.
func (s *ContractService) RefreshStatuses(ctx context.Context) {
	now := time.Now()

	if due, err := s.repo.FindPendingDue(ctx, now); err == nil {
		for i := range due {
			contract := &due[i]
			cfsm := statemachine.NewContractFSM(contract)
			if err := cfsm.Activate(ctx); err != nil {
				continue
			}
			if err := s.repo.Update(ctx, contract); err != nil {
				continue
			}
		}
	}

	s.repo.MarkExpired(ctx, now)
}

// CreateOptions carries flags that alter creation validation
type CreateOptions struct {
	// IsRenewal skips the occupancy check: the source contract may
	// still hold the unit until its end date.
	IsRenewal bool
}

// Create validates, prices and persists a new lease, generating its
// rent-due task schedule in the same database transaction.
func (s *ContractService) Create(ctx context.Context, contract *models.Contract, actor *models.User, opts CreateOptions) error {
	customer, err := s.customerRepo.FindByID(ctx, contract.CustomerID)
	if err != nil {
		return fmt.Errorf("%w: customer", ErrNotFound)
	}

	building, err := s.buildingRepo.FindByID(ctx, contract.BuildingID)
	if err != nil {
		return fmt.Errorf("%w: building", ErrNotFound)
	}

	if _, err := s.buildingRepo.FindUnit(ctx, contract.BuildingID, contract.UnitNumber); err != nil {
		return fmt.Errorf("%w: unit %s in building %s", ErrNotFound, contract.UnitNumber, building.Name)
	}

	if contract.RentValue <= 0 {
		return fmt.Errorf("%w: rent value must be positive", ErrValidation)
	}
	if contract.PeriodMonths <= 0 {
		return fmt.Errorf("%w: period must be at least one month", ErrValidation)
	}

	if !opts.IsRenewal {
		// activate any due Pending contract first so it counts as
		// occupying its unit
		s.RefreshStatuses(ctx)
		if existing, err := s.repo.FindActiveByUnit(ctx, contract.BuildingID, contract.UnitNumber); err == nil {
			return fmt.Errorf("%w: unit %s has an ACTIVE contract (#%s), finalize or terminate it first",
				ErrUnitOccupied, existing.UnitNumber, existing.ContractNo)
		}
	}

	contract.BuildingName = building.Name
	contract.CustomerName = customer.DisplayName()
	contract.CreatedBy = actor.ID

	if contract.ContractNo == "" {
		no, err := s.nextContractNo(ctx)
		if err != nil {
			return err
		}
		contract.ContractNo = no
	}

	// coverage window and financial breakdown are derived, never
	// trusted from the caller
	contract.ToDate = models.EndDate(contract.FromDate, contract.PeriodMonths)
	contract.Recalculate()

	now := time.Now()
	if contract.FromDate.After(now) {
		contract.Status = models.ContractStatusPending
	} else {
		contract.Status = models.ContractStatusActive
	}

	tasks := s.schedule.GenerateTasks(contract)

	if err := s.repo.CreateWithTasks(ctx, contract, tasks); err != nil {
		return err
	}

	s.worker.Enqueue(func(ctx context.Context) error {
		return s.notificationSvc.NotifyPrivileged(ctx,
			"New lease contract",
			fmt.Sprintf("Contract #%s signed for %s unit %s (%s)",
				contract.ContractNo, contract.BuildingName, contract.UnitNumber, contract.CustomerName),
			models.NotificationTypeContractCreated)
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailSvc.SendContractCreated(ctx, actor, contract)
	})

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "Contract", contract.ID,
		fmt.Sprintf("Contract #%s created for %s unit %s, tenant %s, total %.2f",
			contract.ContractNo, contract.BuildingName, contract.UnitNumber, contract.CustomerName, contract.TotalValue), "", "")

	return nil
}

// nextContractNo issues the next sequential contract number with a
// floor of 1000, so the first contract ever is #1001.
func (s *ContractService) nextContractNo(ctx context.Context) (string, error) {
	max, err := s.repo.MaxContractNoNumber(ctx)
	if err != nil {
		return "", err
	}
	if max < 1000 {
		max = 1000
	}
	return fmt.Sprintf("%d", max+1), nil
}

// Update re-derives the coverage window and breakdown and saves. The
// contract number never changes on update.
func (s *ContractService) Update(ctx context.Context, contract *models.Contract, actor *models.User) error {
	existing, err := s.repo.FindByID(ctx, contract.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	contract.ContractNo = existing.ContractNo
	contract.CreatedBy = existing.CreatedBy

	if contract.IsActive() {
		occupying, err := s.repo.FindActiveByUnit(ctx, contract.BuildingID, contract.UnitNumber)
		if err == nil && occupying.ID != contract.ID {
			return fmt.Errorf("%w: unit %s has an ACTIVE contract (#%s)",
				ErrUnitOccupied, occupying.UnitNumber, occupying.ContractNo)
		}
	}

	contract.ToDate = models.EndDate(contract.FromDate, contract.PeriodMonths)
	contract.Recalculate()

	if err := s.repo.Update(ctx, contract); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "UPDATE", "Contract", contract.ID,
		fmt.Sprintf("Contract #%s updated", contract.ContractNo), "", "")

	return nil
}

// Finalize terminates a contract regardless of its current status,
// freeing the unit. Idempotent: finalizing a Terminated contract
// returns it unchanged. The confirmed flag guards against accidental
// calls.
func (s *ContractService) Finalize(ctx context.Context, id string, confirmed bool, actor *models.User) (*models.Contract, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if contract.Status == models.ContractStatusTerminated {
		return contract, nil
	}

	cfsm := statemachine.NewContractFSM(contract)
	if err := cfsm.Finalize(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor.ID, "FINALIZE", "Contract", contract.ID,
		fmt.Sprintf("Contract #%s terminated", contract.ContractNo), "", "")

	return contract, nil
}

// Renew returns an unsaved draft that picks up where the source
// contract leaves off: same terms, coverage starting the day after
// the source ends. The source contract is not modified; the draft
// goes through Create (as a renewal) once the caller confirms it.
func (s *ContractService) Renew(ctx context.Context, id string) (*models.Contract, error) {
	source, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fromDate := source.ToDate.AddDate(0, 0, 1)

	draft := &models.Contract{
		BuildingID:       source.BuildingID,
		BuildingName:     source.BuildingName,
		UnitNumber:       source.UnitNumber,
		CustomerID:       source.CustomerID,
		CustomerName:     source.CustomerName,
		RentValue:        source.RentValue,
		WaterFee:         source.WaterFee,
		InsuranceFee:     source.InsuranceFee,
		ServiceFee:       source.ServiceFee,
		OfficeFeePercent: source.OfficeFeePercent,
		OtherAmount:      source.OtherAmount,
		OtherDeduction:   source.OtherDeduction,
		InstallmentCount: source.InstallmentCount,
		PeriodMonths:     source.PeriodMonths,
		FromDate:         fromDate,
		ToDate:           models.EndDate(fromDate, source.PeriodMonths),
		Notes:            source.Notes,
	}
	draft.Recalculate()

	return draft, nil
}

// Delete removes a contract permanently. Destructive, so it requires
// the confirmed flag.
func (s *ContractService) Delete(ctx context.Context, id string, confirmed bool, actor *models.User) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "Contract", contract.ID,
		fmt.Sprintf("Contract #%s deleted", contract.ContractNo), "", "")

	return nil
}

// FindByCustomer returns a customer's contract history, newest first
func (s *ContractService) FindByCustomer(ctx context.Context, customerID string) ([]models.Contract, error) {
	s.RefreshStatuses(ctx)
	return s.repo.FindByCustomer(ctx, customerID)
}
