package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/middleware"
	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/services"
)

// TaskHandler serves the personal task board. Every route operates on
// the authenticated user's own tasks.
type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// @Summary My Tasks
// @Description Lists the authenticated user's tasks, optionally by board column
// @Tags Tasks
// @Produce json
// @Param status query string false "TODO, IN_PROGRESS or DONE"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["status"] = c.Query("status")

	tasks, total, err := h.taskService.FindByUser(c.Request.Context(), middleware.GetUserID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      tasks,
		"pagination": paginationResponse(query, total),
	})
}

type TaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

func (r *TaskRequest) toModel() (*models.Task, error) {
	task := &models.Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
	if r.DueDate != nil && *r.DueDate != "" {
		due, err := time.Parse("2006-01-02", *r.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}
	return task, nil
}

// @Summary Create Task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body TaskRequest true "Task Data"
// @Success 201 {object} models.Task
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
		return
	}

	if err := h.taskService.Create(c.Request.Context(), task, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// @Summary Update Task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task_id path string true "Task ID"
// @Param request body TaskRequest true "Task Data"
// @Success 200 {object} models.Task
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /tasks/{task_id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
		return
	}
	task.ID = c.Param("task_id")

	if err := h.taskService.Update(c.Request.Context(), task, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

type MoveTaskRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Move Task
// @Description Moves a task to another board column
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task_id path string true "Task ID"
// @Param request body MoveTaskRequest true "Target column"
// @Success 200 {object} models.Task
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /tasks/{task_id}/move [post]
func (h *TaskHandler) Move(c *gin.Context) {
	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Move(c.Request.Context(), c.Param("task_id"), req.Status, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// @Summary Delete Task
// @Tags Tasks
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /tasks/{task_id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.taskService.Delete(c.Request.Context(), c.Param("task_id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
