package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
)

// TaskService manages per-user boards. Tasks are strictly personal:
// every operation is scoped to the owner, privileged or not.
type TaskService struct {
	repo            repository.TaskRepository
	userRepo        repository.UserRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
}

func NewTaskService(repo repository.TaskRepository, userRepo repository.UserRepository, notificationSvc *NotificationService, emailSvc *EmailService) *TaskService {
	return &TaskService{
		repo:            repo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
	}
}

func (s *TaskService) FindByUser(ctx context.Context, userID string, query *repository.ListQuery) ([]models.Task, int64, error) {
	return s.repo.FindByUser(ctx, userID, query)
}

func (s *TaskService) Create(ctx context.Context, task *models.Task, actor *models.User) error {
	if task.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	task.UserID = actor.ID
	return s.repo.Create(ctx, task)
}

// Update edits a task the actor owns
func (s *TaskService) Update(ctx context.Context, task *models.Task, actor *models.User) error {
	existing, err := s.findOwned(ctx, task.ID, actor)
	if err != nil {
		return err
	}

	task.UserID = existing.UserID
	task.ContractID = existing.ContractID
	task.CreatedAt = existing.CreatedAt

	return s.repo.Update(ctx, task)
}

// Move sets a task's board column
func (s *TaskService) Move(ctx context.Context, id, status string, actor *models.User) (*models.Task, error) {
	if status != models.TaskStatusTodo && status != models.TaskStatusInProgress && status != models.TaskStatusDone {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrValidation, status)
	}

	task, err := s.findOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string, actor *models.User) error {
	if _, err := s.findOwned(ctx, id, actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// RemindOverdue notifies each user about their overdue tasks. Runs
// from the daily sweep.
func (s *TaskService) RemindOverdue(ctx context.Context) error {
	overdue, err := s.repo.FindOverdue(ctx, time.Now())
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	byUser := make(map[string][]models.Task)
	for _, task := range overdue {
		byUser[task.UserID] = append(byUser[task.UserID], task)
	}

	for userID, tasks := range byUser {
		s.notificationSvc.NotifyUser(ctx, userID,
			"Overdue tasks",
			fmt.Sprintf("You have %d overdue task(s) on your board", len(tasks)),
			models.NotificationTypeTaskOverdue)

		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			continue
		}
		if err := s.emailSvc.SendOverdueTasks(ctx, user, tasks); err != nil {
			continue
		}
	}

	return nil
}

func (s *TaskService) findOwned(ctx context.Context, id string, actor *models.User) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if task.UserID != actor.ID {
		return nil, ErrUnauthorized
	}
	return task, nil
}
