package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/jobs"
	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
)

type UserService struct {
	repo     repository.UserRepository
	emailSvc *EmailService
	auditSvc *AuditService
	worker   *jobs.Worker
}

func NewUserService(repo repository.UserRepository, emailSvc *EmailService, auditSvc *AuditService, worker *jobs.Worker) *UserService {
	return &UserService{
		repo:     repo,
		emailSvc: emailSvc,
		auditSvc: auditSvc,
		worker:   worker,
	}
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

// Create provisions a staff account with a hashed password
func (s *UserService) Create(ctx context.Context, user *models.User, password string, actor *models.User) error {
	if user.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hash

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	userCopy := *user
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailSvc.SendAccountCreated(ctx, &userCopy)
	})

	s.auditSvc.Log(ctx, actor.ID, "CREATE", "User", user.ID,
		fmt.Sprintf("Staff account %s (%s) created", user.Name, user.Role), "", "")

	return nil
}

// Update saves profile edits; a non-empty password rotates the hash
func (s *UserService) Update(ctx context.Context, user *models.User, password string, actor *models.User) error {
	existing, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	user.EncryptedPassword = existing.EncryptedPassword
	user.CreatedAt = existing.CreatedAt
	if password != "" {
		hash, err := HashPassword(password)
		if err != nil {
			return err
		}
		user.EncryptedPassword = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "UPDATE", "User", user.ID,
		fmt.Sprintf("Staff account %s updated", user.Name), "", "")

	return nil
}

// Delete soft-deletes a staff account. Users cannot remove
// themselves.
func (s *UserService) Delete(ctx context.Context, id string, confirmed bool, actor *models.User) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if id == actor.ID {
		return fmt.Errorf("%w: cannot delete your own account", ErrValidation)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor.ID, "DELETE", "User", user.ID,
		fmt.Sprintf("Staff account %s removed", user.Name), "", "")

	return nil
}

// EnsureSeedAdmin creates the bootstrap admin on an empty users
// table. No-op when any account exists or no seed password is set.
func (s *UserService) EnsureSeedAdmin(ctx context.Context, email, password string) error {
	if password == "" {
		return nil
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:              "Administrator",
		Email:             &email,
		EncryptedPassword: hash,
		Role:              models.RoleAdmin,
		Status:            models.UserStatusActive,
	}
	return s.repo.Create(ctx, admin)
}
