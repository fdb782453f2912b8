package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
)

type VendorService struct {
	repo     repository.VendorRepository
	auditSvc *AuditService
}

func NewVendorService(repo repository.VendorRepository, auditSvc *AuditService) *VendorService {
	return &VendorService{repo: repo, auditSvc: auditSvc}
}

func (s *VendorService) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return vendor, nil
}

func (s *VendorService) List(ctx context.Context, query *repository.ListQuery) ([]models.Vendor, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *VendorService) FindAll(ctx context.Context) ([]models.Vendor, error) {
	return s.repo.FindAll(ctx)
}

func (s *VendorService) Create(ctx context.Context, vendor *models.Vendor, actor *models.User) error {
	if vendor.Name == "" || vendor.ServiceType == "" {
		return fmt.Errorf("%w: name and service type are required", ErrValidation)
	}

	if err := s.repo.Create(ctx, vendor); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "Vendor", vendor.ID,
		fmt.Sprintf("Vendor %s (%s) created", vendor.Name, vendor.ServiceType), "", "")

	return nil
}

func (s *VendorService) Update(ctx context.Context, vendor *models.Vendor, actor *models.User) error {
	existing, err := s.repo.FindByID(ctx, vendor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	vendor.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, vendor); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "UPDATE", "Vendor", vendor.ID,
		fmt.Sprintf("Vendor %s updated", vendor.Name), "", "")

	return nil
}

func (s *VendorService) Delete(ctx context.Context, id string, confirmed bool, actor *models.User) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "Vendor", vendor.ID,
		fmt.Sprintf("Vendor %s deleted", vendor.Name), "", "")

	return nil
}

// BankService manages the payee bank directory
type BankService struct {
	repo     repository.BankRepository
	auditSvc *AuditService
}

func NewBankService(repo repository.BankRepository, auditSvc *AuditService) *BankService {
	return &BankService{repo: repo, auditSvc: auditSvc}
}

func (s *BankService) FindAll(ctx context.Context) ([]models.Bank, error) {
	return s.repo.FindAll(ctx)
}

func (s *BankService) Create(ctx context.Context, bank *models.Bank, actor *models.User) error {
	if bank.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	if _, err := s.repo.FindByName(ctx, bank.Name); err == nil {
		return fmt.Errorf("%w: bank %s", ErrDuplicate, bank.Name)
	}

	if err := s.repo.Create(ctx, bank); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "Bank", bank.ID,
		fmt.Sprintf("Bank %s added", bank.Name), "", "")

	return nil
}

func (s *BankService) Update(ctx context.Context, bank *models.Bank, actor *models.User) error {
	existing, err := s.repo.FindByID(ctx, bank.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	bank.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, bank); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "UPDATE", "Bank", bank.ID,
		fmt.Sprintf("Bank %s updated", bank.Name), "", "")

	return nil
}

func (s *BankService) Delete(ctx context.Context, id string, actor *models.User) error {
	bank, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "Bank", bank.ID,
		fmt.Sprintf("Bank %s removed", bank.Name), "", "")

	return nil
}
