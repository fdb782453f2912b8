package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aqariapp/aqari-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindByUser(ctx context.Context, userID string, query *ListQuery) ([]models.Task, int64, error)
	FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	CreateBatch(ctx context.Context, tasks []models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByUser(ctx context.Context, userID string, query *ListQuery) ([]models.Task, int64, error) {
	var tasks []models.Task
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	db.Count(&total)

	db = db.Order("due_date ASC NULLS LAST")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&tasks).Error
	return tasks, total, err
}

func (r *taskRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("status <> ? AND due_date IS NOT NULL AND due_date < ?", models.TaskStatusDone, now).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) CreateBatch(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error
}
