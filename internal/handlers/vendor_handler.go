package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/services"
)

type VendorHandler struct {
	vendorService *services.VendorService
}

func NewVendorHandler(vendorService *services.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// @Summary List Vendors
// @Tags Vendors
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name or service type"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vendors [get]
func (h *VendorHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["status"] = c.Query("status")

	vendors, total, err := h.vendorService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors":    vendors,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary Get Vendor
// @Tags Vendors
// @Produce json
// @Param vendor_id path string true "Vendor ID"
// @Success 200 {object} models.Vendor
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /vendors/{vendor_id} [get]
func (h *VendorHandler) Show(c *gin.Context) {
	vendor, err := h.vendorService.FindByID(c.Request.Context(), c.Param("vendor_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

type VendorRequest struct {
	Name              string  `json:"name" binding:"required"`
	ServiceType       string  `json:"service_type" binding:"required"`
	ContactName       *string `json:"contact_name"`
	MobileNo          *string `json:"mobile_no"`
	Phone             string  `json:"phone"`
	Email             *string `json:"email"`
	ContractStartDate *string `json:"contract_start_date"`
	Status            string  `json:"status"`
	Notes             *string `json:"notes"`
}

func (r *VendorRequest) toModel() (*models.Vendor, error) {
	vendor := &models.Vendor{
		Name:        r.Name,
		ServiceType: r.ServiceType,
		ContactName: r.ContactName,
		MobileNo:    r.MobileNo,
		Phone:       r.Phone,
		Email:       r.Email,
		Status:      r.Status,
		Notes:       r.Notes,
	}
	if r.ContractStartDate != nil && *r.ContractStartDate != "" {
		start, err := time.Parse("2006-01-02", *r.ContractStartDate)
		if err != nil {
			return nil, err
		}
		vendor.ContractStartDate = &start
	}
	return vendor, nil
}

// @Summary Create Vendor
// @Tags Vendors
// @Accept json
// @Produce json
// @Param request body VendorRequest true "Vendor Data"
// @Success 201 {object} models.Vendor
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	var req VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract start date, expected YYYY-MM-DD"})
		return
	}

	if err := h.vendorService.Create(c.Request.Context(), vendor, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": vendor})
}

// @Summary Update Vendor
// @Tags Vendors
// @Accept json
// @Produce json
// @Param vendor_id path string true "Vendor ID"
// @Param request body VendorRequest true "Vendor Data"
// @Success 200 {object} models.Vendor
// @Security BearerAuth
// @Router /vendors/{vendor_id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	var req VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract start date, expected YYYY-MM-DD"})
		return
	}
	vendor.ID = c.Param("vendor_id")

	if err := h.vendorService.Update(c.Request.Context(), vendor, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// @Summary Delete Vendor
// @Description Removes a vendor. Requires confirmed=true.
// @Tags Vendors
// @Produce json
// @Param vendor_id path string true "Vendor ID"
// @Param confirmed query bool true "Confirmation flag"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /vendors/{vendor_id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirmed") == "true"
	if err := h.vendorService.Delete(c.Request.Context(), c.Param("vendor_id"), confirmed, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted"})
}

// BankHandler serves the payee bank directory
type BankHandler struct {
	bankService *services.BankService
}

func NewBankHandler(bankService *services.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

// @Summary List Banks
// @Tags Banks
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /banks [get]
func (h *BankHandler) Index(c *gin.Context) {
	banks, err := h.bankService.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banks": banks})
}

type BankRequest struct {
	Name string `json:"name" binding:"required"`
	IBAN string `json:"iban"`
}

// @Summary Add Bank
// @Tags Banks
// @Accept json
// @Produce json
// @Param request body BankRequest true "Bank Data"
// @Success 201 {object} models.Bank
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /banks [post]
func (h *BankHandler) Create(c *gin.Context) {
	var req BankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bank := &models.Bank{Name: req.Name, IBAN: req.IBAN}
	if err := h.bankService.Create(c.Request.Context(), bank, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bank": bank})
}

// @Summary Update Bank
// @Tags Banks
// @Accept json
// @Produce json
// @Param bank_id path string true "Bank ID"
// @Param request body BankRequest true "Bank Data"
// @Success 200 {object} models.Bank
// @Security BearerAuth
// @Router /banks/{bank_id} [put]
func (h *BankHandler) Update(c *gin.Context) {
	var req BankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bank := &models.Bank{Name: req.Name, IBAN: req.IBAN}
	bank.ID = c.Param("bank_id")

	if err := h.bankService.Update(c.Request.Context(), bank, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank": bank})
}

// @Summary Remove Bank
// @Tags Banks
// @Produce json
// @Param bank_id path string true "Bank ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /banks/{bank_id} [delete]
func (h *BankHandler) Delete(c *gin.Context) {
	if err := h.bankService.Delete(c.Request.Context(), c.Param("bank_id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bank removed"})
}
