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

type TransactionService struct {
	repo            repository.TransactionRepository
	contractRepo    repository.ContractRepository
	buildingRepo    repository.BuildingRepository
	userRepo        repository.UserRepository
	vendorRepo      repository.VendorRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewTransactionService(
	repo repository.TransactionRepository,
	contractRepo repository.ContractRepository,
	buildingRepo repository.BuildingRepository,
	userRepo repository.UserRepository,
	vendorRepo repository.VendorRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *TransactionService {
	return &TransactionService{
		repo:            repo,
		contractRepo:    contractRepo,
		buildingRepo:    buildingRepo,
		userRepo:        userRepo,
		vendorRepo:      vendorRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// List returns entries visible to the actor. Non-privileged users
// only ever see their own.
func (s *TransactionService) List(ctx context.Context, actor *models.User, query *repository.ListQuery) ([]models.Transaction, int64, error) {
	if !CanViewAllTransactions(actor) {
		query.Filters["created_by"] = actor.ID
	}
	return s.repo.List(ctx, query)
}

// FindByID gets an entry, enforcing the same visibility rule as List
func (s *TransactionService) FindByID(ctx context.Context, actor *models.User, id string) (*models.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !CanViewAllTransactions(actor) && tx.CreatedBy != actor.ID {
		return nil, ErrUnauthorized
	}

	return tx, nil
}

// FindPending returns the approval queue
func (s *TransactionService) FindPending(ctx context.Context, actor *models.User) ([]models.Transaction, error) {
	if !CanApproveTransactions(actor) {
		return nil, ErrUnauthorized
	}
	return s.repo.FindPending(ctx)
}

// Create classifies and persists a new entry. Callers submit the base
// amount plus any adjustments; classification decides what gets
// stored:
//
//   - adjusted entry from a non-privileged user: status PENDING,
//     Amount keeps the base so approval can re-derive the net
//   - everything else: status APPROVED, Amount stores the net
//
// VAT applies to the stored amount when applyVat is set.
func (s *TransactionService) Create(ctx context.Context, tx *models.Transaction, applyVat bool, actor *models.User) error {
	if tx.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if tx.Type != models.TransactionTypeIncome && tx.Type != models.TransactionTypeExpense {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, tx.Type)
	}

	if err := s.denormalize(ctx, tx); err != nil {
		return err
	}

	tx.CreatedBy = actor.ID
	tx.CreatedByName = actor.Name
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	if RequiresApproval(actor, tx.ExtraAmount, tx.DiscountAmount) {
		tx.Status = models.TransactionStatusPending
		// Amount stays at base until approval
	} else {
		tx.Status = models.TransactionStatusApproved
		tx.Amount = tx.NetAmount()
	}

	if applyVat {
		zero := 0.0
		tx.VatAmount = &zero
		tx.ApplyVat()
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return err
	}

	if tx.IsPending() {
		s.notifyApprovalRequested(tx)
	}

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "Transaction", tx.ID,
		fmt.Sprintf("%s entry of %.2f (%s) recorded, status %s", tx.Type, tx.Amount, tx.Details, tx.Status), "", "")

	return nil
}

// denormalize resolves referenced records and snapshots their display
// names onto the entry. Income entries against an occupied unit get
// linked to the active contract and stamped with the expected
// installment amount.
func (s *TransactionService) denormalize(ctx context.Context, tx *models.Transaction) error {
	if tx.BuildingID != nil {
		building, err := s.buildingRepo.FindByID(ctx, *tx.BuildingID)
		if err != nil {
			return fmt.Errorf("%w: building", ErrNotFound)
		}
		tx.BuildingName = &building.Name
	}

	if tx.VendorID != nil {
		vendor, err := s.vendorRepo.FindByID(ctx, *tx.VendorID)
		if err != nil {
			return fmt.Errorf("%w: vendor", ErrNotFound)
		}
		tx.VendorName = &vendor.Name
	}

	if tx.EmployeeID != nil {
		employee, err := s.userRepo.FindByID(ctx, *tx.EmployeeID)
		if err != nil {
			return fmt.Errorf("%w: employee", ErrNotFound)
		}
		tx.EmployeeName = &employee.Name
	}

	if tx.Type == models.TransactionTypeIncome && tx.ContractID == nil &&
		tx.BuildingID != nil && tx.UnitNumber != nil {
		contract, err := s.contractRepo.FindActiveByUnit(ctx, *tx.BuildingID, *tx.UnitNumber)
		if err == nil {
			tx.ContractID = &contract.ID
			due, _, err := s.InstallmentDue(ctx, contract.ID)
			if err == nil {
				tx.ExpectedAmount = &due
			}
		}
	}

	return nil
}

// Update edits an entry under the edit-window policy and re-runs
// classification, since adjustments may have changed.
func (s *TransactionService) Update(ctx context.Context, tx *models.Transaction, applyVat bool, actor *models.User) error {
	existing, err := s.repo.FindByID(ctx, tx.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !actor.IsPrivileged() && existing.CreatedBy != actor.ID {
		return ErrUnauthorized
	}
	if !CanEditTransaction(actor, existing, time.Now()) {
		return ErrEditWindowClosed
	}

	if tx.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	if err := s.denormalize(ctx, tx); err != nil {
		return err
	}

	// provenance never changes on edit
	tx.CreatedBy = existing.CreatedBy
	tx.CreatedByName = existing.CreatedByName
	tx.CreatedAt = existing.CreatedAt

	if RequiresApproval(actor, tx.ExtraAmount, tx.DiscountAmount) {
		tx.Status = models.TransactionStatusPending
	} else {
		tx.Status = models.TransactionStatusApproved
		tx.Amount = tx.NetAmount()
	}

	tx.VatAmount = nil
	tx.TotalWithVat = nil
	if applyVat {
		zero := 0.0
		tx.VatAmount = &zero
		tx.ApplyVat()
	}

	if err := s.repo.Update(ctx, tx); err != nil {
		return err
	}

	if tx.IsPending() && !existing.IsPending() {
		s.notifyApprovalRequested(tx)
	}

	s.auditSvc.Log(ctx, actor.ID, "UPDATE", "Transaction", tx.ID,
		fmt.Sprintf("Entry updated, amount %.2f, status %s", tx.Amount, tx.Status), "", "")

	return nil
}

// Approve settles a pending entry: the stored base amount is replaced
// by base + extra - discount and VAT is recomputed on the result.
// Approving an already-approved entry is a no-op.
func (s *TransactionService) Approve(ctx context.Context, id string, actor *models.User) (*models.Transaction, error) {
	if !CanApproveTransactions(actor) {
		return nil, ErrUnauthorized
	}

	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if tx.Status == models.TransactionStatusApproved {
		return tx, nil
	}

	tfsm := statemachine.NewTransactionFSM(tx)
	if err := tfsm.Approve(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	tx.Amount = tx.NetAmount()
	tx.ApplyVat()

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.worker.Enqueue(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, tx.CreatedBy,
			"Entry approved",
			fmt.Sprintf("Your entry %q was approved at %.2f", tx.Details, tx.Amount),
			models.NotificationTypeEntryApproved)
	})

	s.auditSvc.Log(ctx, actor.ID, "APPROVE", "Transaction", tx.ID,
		fmt.Sprintf("Entry approved, settled amount %.2f", tx.Amount), "", "")

	return tx, nil
}

// Reject refuses a pending entry and deletes it permanently. There is
// no rejected archive: the record is gone, which is why the confirmed
// flag is mandatory.
func (s *TransactionService) Reject(ctx context.Context, id string, confirmed bool, actor *models.User) error {
	if !CanApproveTransactions(actor) {
		return ErrUnauthorized
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	tfsm := statemachine.NewTransactionFSM(tx)
	if err := tfsm.Reject(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	// audit before the row disappears
	s.auditSvc.Log(ctx, actor.ID, "REJECT", "Transaction", tx.ID,
		fmt.Sprintf("Entry %q (%.2f) rejected and removed", tx.Details, tx.Amount), "", "")

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.worker.Enqueue(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, tx.CreatedBy,
			"Entry rejected",
			fmt.Sprintf("Your entry %q was rejected and removed", tx.Details),
			models.NotificationTypeEntryRejected)
	})

	return nil
}

// Delete removes an entry under the edit-window policy
func (s *TransactionService) Delete(ctx context.Context, id string, confirmed bool, actor *models.User) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !actor.IsPrivileged() && tx.CreatedBy != actor.ID {
		return ErrUnauthorized
	}
	if !CanEditTransaction(actor, tx, time.Now()) {
		return ErrEditWindowClosed
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "Transaction", tx.ID,
		fmt.Sprintf("Entry %q (%.2f) deleted", tx.Details, tx.Amount), "", "")

	return nil
}

// InstallmentDue computes what the next collection against a contract
// should be: the first installment if nothing has been collected yet,
// the regular installment otherwise, capped at whatever remains of
// the contract total. Rejected entries never count; pending ones do.
func (s *TransactionService) InstallmentDue(ctx context.Context, contractID string) (float64, bool, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, ErrNotFound
		}
		return 0, false, err
	}

	prior, err := s.repo.FindByContract(ctx, contractID)
	if err != nil {
		return 0, false, err
	}

	var collected float64
	counted := 0
	for _, p := range prior {
		if p.CountsTowardContract() {
			collected += p.Amount
			counted++
		}
	}

	isFirst := counted == 0
	expected := contract.OtherInstallment
	if isFirst {
		expected = contract.FirstInstallment
	}

	remaining := contract.TotalValue - collected
	if remaining < 0 {
		remaining = 0
	}
	if expected > remaining {
		expected = remaining
	}

	return expected, isFirst, nil
}

// SuggestForUnit finds the active contract on a unit and the amount
// its next collection should carry. Feeds the income entry form.
func (s *TransactionService) SuggestForUnit(ctx context.Context, buildingID, unitNumber string) (*models.Contract, float64, bool, error) {
	contract, err := s.contractRepo.FindActiveByUnit(ctx, buildingID, unitNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, false, ErrNotFound
		}
		return nil, 0, false, err
	}

	due, isFirst, err := s.InstallmentDue(ctx, contract.ID)
	if err != nil {
		return nil, 0, false, err
	}

	return contract, due, isFirst, nil
}

func (s *TransactionService) notifyApprovalRequested(tx *models.Transaction) {
	txCopy := *tx
	s.worker.Enqueue(func(ctx context.Context) error {
		if err := s.notificationSvc.NotifyPrivileged(ctx,
			"Approval requested",
			fmt.Sprintf("%s recorded %q with adjustments (extra %.2f, discount %.2f)",
				txCopy.CreatedByName, txCopy.Details, txCopy.ExtraAmount, txCopy.DiscountAmount),
			models.NotificationTypeApprovalRequested); err != nil {
			return err
		}

		reviewers, err := s.userRepo.FindPrivileged(ctx)
		if err != nil {
			return err
		}
		for i := range reviewers {
			s.emailSvc.SendApprovalRequested(ctx, &reviewers[i], &txCopy)
		}
		return nil
	})
}
