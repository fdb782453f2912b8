package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary List Staff
// @Description Get a paginated list of staff accounts
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name or email"
// @Param role query string false "Filter by role"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["role"] = c.Query("role")
	query.Filters["status"] = c.Query("status")

	users, total, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      responses,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary Get Staff Member
// @Tags Users
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id} [get]
func (h *UserHandler) Show(c *gin.Context) {
	user, err := h.userService.FindByID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

type UserRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      *string `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Status     string  `json:"status"`
	Phone      *string `json:"phone"`
	JoinedDate string   `json:"joined_date"`
	BaseSalary *float64 `json:"base_salary"`
}

func (r *UserRequest) toModel() (*models.User, error) {
	user := &models.User{
		Name:       r.Name,
		Email:      r.Email,
		Role:       r.Role,
		Status:     r.Status,
		Phone:      r.Phone,
		BaseSalary: r.BaseSalary,
	}
	if r.JoinedDate != "" {
		joined, err := time.Parse("2006-01-02", r.JoinedDate)
		if err != nil {
			return nil, err
		}
		user.JoinedDate = &joined
	}
	return user, nil
}

// @Summary Create Staff Member
// @Tags Users
// @Accept json
// @Produce json
// @Param request body UserRequest true "User Data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid joined date, expected YYYY-MM-DD"})
		return
	}

	if err := h.userService.Create(c.Request.Context(), user, req.Password, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.ToResponse()})
}

// @Summary Update Staff Member
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param request body UserRequest true "User Data"
// @Success 200 {object} models.UserResponse
// @Security BearerAuth
// @Router /users/{user_id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid joined date, expected YYYY-MM-DD"})
		return
	}
	user.ID = c.Param("user_id")

	if err := h.userService.Update(c.Request.Context(), user, req.Password, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// @Summary Delete Staff Member
// @Description Soft-deletes a staff account. Requires confirmed=true.
// @Tags Users
// @Produce json
// @Param user_id path string true "User ID"
// @Param confirmed query bool true "Confirmation flag"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirmed") == "true"
	if err := h.userService.Delete(c.Request.Context(), c.Param("user_id"), confirmed, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
