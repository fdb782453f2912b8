package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
)

type BuildingService struct {
	repo         repository.BuildingRepository
	contractRepo repository.ContractRepository
	auditSvc     *AuditService
}

func NewBuildingService(repo repository.BuildingRepository, contractRepo repository.ContractRepository, auditSvc *AuditService) *BuildingService {
	return &BuildingService{repo: repo, contractRepo: contractRepo, auditSvc: auditSvc}
}

func (s *BuildingService) FindByID(ctx context.Context, id string) (*models.Building, error) {
	building, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return building, nil
}

func (s *BuildingService) List(ctx context.Context, query *repository.ListQuery) ([]models.Building, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *BuildingService) FindAll(ctx context.Context) ([]models.Building, error) {
	return s.repo.FindAll(ctx)
}

func (s *BuildingService) Create(ctx context.Context, building *models.Building, actor *models.User) error {
	if building.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateUnitNames(building.Units); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, building); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "Building", building.ID,
		fmt.Sprintf("Building %s created with %d units", building.Name, len(building.Units)), "", "")

	return nil
}

// Update saves building fields and replaces the unit list. A unit
// held by an active contract cannot be removed.
func (s *BuildingService) Update(ctx context.Context, building *models.Building, actor *models.User) error {
	existing, err := s.repo.FindByID(ctx, building.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := validateUnitNames(building.Units); err != nil {
		return err
	}

	kept := make(map[string]bool, len(building.Units))
	for _, u := range building.Units {
		kept[u.Name] = true
	}
	for _, u := range existing.Units {
		if kept[u.Name] {
			continue
		}
		if occupying, err := s.contractRepo.FindActiveByUnit(ctx, building.ID, u.Name); err == nil {
			return fmt.Errorf("%w: unit %s has an ACTIVE contract (#%s)",
				ErrUnitOccupied, u.Name, occupying.ContractNo)
		}
	}

	if err := s.repo.Update(ctx, building); err != nil {
		return err
	}
	if err := s.repo.ReplaceUnits(ctx, building.ID, building.Units); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "UPDATE", "Building", building.ID,
		fmt.Sprintf("Building %s updated", building.Name), "", "")

	return nil
}

func validateUnitNames(units []models.BuildingUnit) error {
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if u.Name == "" {
			return fmt.Errorf("%w: unit name is required", ErrValidation)
		}
		if seen[u.Name] {
			return fmt.Errorf("%w: duplicate unit name %q", ErrValidation, u.Name)
		}
		seen[u.Name] = true
	}
	return nil
}

func (s *BuildingService) Delete(ctx context.Context, id string, confirmed bool, actor *models.User) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	building, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	for _, u := range building.Units {
		if occupying, err := s.contractRepo.FindActiveByUnit(ctx, id, u.Name); err == nil {
			return fmt.Errorf("%w: unit %s has an ACTIVE contract (#%s)",
				ErrUnitOccupied, u.Name, occupying.ContractNo)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "Building", building.ID,
		fmt.Sprintf("Building %s deleted", building.Name), "", "")

	return nil
}

// IsUnitOccupied reports whether a unit currently has an active lease
func (s *BuildingService) IsUnitOccupied(ctx context.Context, buildingID, unitName string) (bool, error) {
	_, err := s.contractRepo.FindActiveByUnit(ctx, buildingID, unitName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
