package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/jobs"
	"github.com/aqariapp/aqari-api/internal/middleware"
	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
	"github.com/aqariapp/aqari-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Building     *BuildingHandler
	Customer     *CustomerHandler
	Contract     *ContractHandler
	Transaction  *TransactionHandler
	Task         *TaskHandler
	Vendor       *VendorHandler
	Bank         *BankHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth, svcs.User),
		User:         NewUserHandler(svcs.User),
		Building:     NewBuildingHandler(svcs.Building),
		Customer:     NewCustomerHandler(svcs.Customer, svcs.Contract),
		Contract:     NewContractHandler(svcs.Contract, svcs.Report),
		Transaction:  NewTransactionHandler(svcs.Transaction, svcs.Export),
		Task:         NewTaskHandler(svcs.Task),
		Vendor:       NewVendorHandler(svcs.Vendor),
		Bank:         NewBankHandler(svcs.Bank),
		Notification: NewNotificationHandler(svcs.Notification),
		Report:       NewReportHandler(svcs.Report, svcs.Export),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(worker),
	}
}

// currentUser rebuilds the acting user from the JWT claims. Services
// only need identity and role, not a database row.
func currentUser(c *gin.Context) *models.User {
	return &models.User{
		ID:   middleware.GetUserID(c),
		Role: middleware.GetUserRole(c),
		Name: middleware.GetUserName(c),
	}
}

// respondError maps service sentinel errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConfirmationRequired),
		errors.Is(err, services.ErrInvalidState):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrUnitOccupied),
		errors.Is(err, services.ErrEditWindowClosed):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidPassword):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// listQueryFromContext builds pagination and search from query params
func listQueryFromContext(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20")); err == nil && perPage > 0 {
		query.PerPage = perPage
	}
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	return query
}

func paginationResponse(query *repository.ListQuery, total int64) gin.H {
	totalPages := int64(0)
	if query.PerPage > 0 {
		totalPages = (total + int64(query.PerPage) - 1) / int64(query.PerPage)
	}
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": totalPages,
	}
}
