package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
)

type CustomerService struct {
	repo         repository.CustomerRepository
	contractRepo repository.ContractRepository
	auditSvc     *AuditService
}

func NewCustomerService(repo repository.CustomerRepository, contractRepo repository.ContractRepository, auditSvc *AuditService) *CustomerService {
	return &CustomerService{repo: repo, contractRepo: contractRepo, auditSvc: auditSvc}
}

func (s *CustomerService) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *CustomerService) FindAll(ctx context.Context) ([]models.Customer, error) {
	return s.repo.FindAll(ctx)
}

// Create assigns the next display code and saves. Codes start at 1001
// and only ever go up; soft-deleted customers keep holding theirs.
func (s *CustomerService) Create(ctx context.Context, customer *models.Customer, actor *models.User) error {
	if customer.NameAr == "" {
		return fmt.Errorf("%w: arabic name is required", ErrValidation)
	}

	code, err := s.nextCode(ctx)
	if err != nil {
		return err
	}
	customer.Code = code

	if err := s.repo.Create(ctx, customer); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "Customer", customer.ID,
		fmt.Sprintf("Customer %s (code %s) created", customer.DisplayName(), customer.Code), "", "")

	return nil
}

func (s *CustomerService) nextCode(ctx context.Context) (string, error) {
	max, err := s.repo.MaxCodeNumber(ctx)
	if err != nil {
		return "", err
	}
	if max < 1000 {
		max = 1000
	}
	return fmt.Sprintf("%d", max+1), nil
}

// Update saves edits. The display code is immutable: whatever the
// caller sends, the stored code wins.
func (s *CustomerService) Update(ctx context.Context, customer *models.Customer, actor *models.User) error {
	existing, err := s.repo.FindByID(ctx, customer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	customer.Code = existing.Code
	customer.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, customer); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "UPDATE", "Customer", customer.ID,
		fmt.Sprintf("Customer %s (code %s) updated", customer.DisplayName(), customer.Code), "", "")

	return nil
}

// Delete soft-deletes a customer. Tenants with an active lease cannot
// be removed; their contract history stays attached either way.
func (s *CustomerService) Delete(ctx context.Context, id string, confirmed bool, actor *models.User) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	contracts, err := s.contractRepo.FindByCustomer(ctx, id)
	if err != nil {
		return err
	}
	for _, c := range contracts {
		if c.IsActive() {
			return fmt.Errorf("%w: customer has active contract #%s", ErrValidation, c.ContractNo)
		}
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "Customer", customer.ID,
		fmt.Sprintf("Customer %s (code %s) removed", customer.DisplayName(), customer.Code), "", "")

	return nil
}
