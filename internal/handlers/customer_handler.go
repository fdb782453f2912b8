package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
	contractService *services.ContractService
}

func NewCustomerHandler(customerService *services.CustomerService, contractService *services.ContractService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		contractService: contractService,
	}
}

// @Summary List Customers
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by code, name, phone or id number"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)

	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":  customers,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary Get Customer
// @Tags Customers
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	customer, err := h.customerService.FindByID(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// @Summary Customer Contracts
// @Description Lease history for a customer, newest first
// @Tags Customers
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/{customer_id}/contracts [get]
func (h *CustomerHandler) Contracts(c *gin.Context) {
	contracts, err := h.contractService.FindByCustomer(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

type CustomerRequest struct {
	NameAr        string  `json:"name_ar" binding:"required"`
	NameEn        *string `json:"name_en"`
	Phone         string  `json:"phone"`
	IDNumber      string  `json:"id_number"`
	IDType        *string `json:"id_type"`
	IDSource      *string `json:"id_source"`
	Nationality   *string `json:"nationality"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	WorkAddress   *string `json:"work_address"`
	Notes         *string `json:"notes"`
	IsBlacklisted bool    `json:"is_blacklisted"`
}

func (r *CustomerRequest) toModel() *models.Customer {
	return &models.Customer{
		NameAr:        r.NameAr,
		NameEn:        r.NameEn,
		Phone:         r.Phone,
		IDNumber:      r.IDNumber,
		IDType:        r.IDType,
		IDSource:      r.IDSource,
		Nationality:   r.Nationality,
		Email:         r.Email,
		Address:       r.Address,
		WorkAddress:   r.WorkAddress,
		Notes:         r.Notes,
		IsBlacklisted: r.IsBlacklisted,
	}
}

// @Summary Create Customer
// @Description Creates a tenant and assigns the next sequential code
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body CustomerRequest true "Customer Data"
// @Success 201 {object} models.Customer
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NameAr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arabic name is required"})
		return
	}

	customer := req.toModel()
	if err := h.customerService.Create(c.Request.Context(), customer, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

// @Summary Update Customer
// @Description Updates tenant details. The code never changes.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param request body CustomerRequest true "Customer Data"
// @Success 200 {object} models.Customer
// @Security BearerAuth
// @Router /customers/{customer_id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NameAr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arabic name is required"})
		return
	}

	customer := req.toModel()
	customer.ID = c.Param("customer_id")

	if err := h.customerService.Update(c.Request.Context(), customer, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// @Summary Delete Customer
// @Description Soft-deletes a tenant. Requires confirmed=true and no active contract.
// @Tags Customers
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param confirmed query bool true "Confirmation flag"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirmed") == "true"
	if err := h.customerService.Delete(c.Request.Context(), c.Param("customer_id"), confirmed, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
