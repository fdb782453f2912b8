package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/services"
)

type ContractHandler struct {
	contractService *services.ContractService
	reportService   *services.ReportService
}

func NewContractHandler(contractService *services.ContractService, reportService *services.ReportService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		reportService:   reportService,
	}
}

// @Summary List Contracts
// @Tags Contracts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by contract no, customer or building"
// @Param status query string false "Filter by status"
// @Param building_id query string false "Filter by building"
// @Param customer_id query string false "Filter by customer"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["building_id"] = c.Query("building_id")
	query.Filters["customer_id"] = c.Query("customer_id")

	contracts, total, err := h.contractService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		responses = append(responses, contract.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts":  responses,
		"pagination": paginationResponse(query, total),
	})
}

// @Summary Get Contract
// @Tags Contracts
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id} [get]
func (h *ContractHandler) Show(c *gin.Context) {
	contract, err := h.contractService.FindByID(c.Request.Context(), c.Param("contract_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

type ContractRequest struct {
	BuildingID       string  `json:"building_id" binding:"required"`
	UnitNumber       string  `json:"unit_number" binding:"required"`
	CustomerID       string  `json:"customer_id" binding:"required"`
	RentValue        float64 `json:"rent_value" binding:"required"`
	WaterFee         float64 `json:"water_fee"`
	InsuranceFee     float64 `json:"insurance_fee"`
	ServiceFee       float64 `json:"service_fee"`
	OfficeFeePercent *float64 `json:"office_fee_percent"`
	OtherAmount      float64  `json:"other_amount"`
	OtherDeduction   float64  `json:"other_deduction"`
	InstallmentCount *int     `json:"installment_count"`
	PeriodMonths     int      `json:"period_months" binding:"required"`
	FromDate         string   `json:"from_date" binding:"required"`
	Notes            *string  `json:"notes"`
}

func (r *ContractRequest) toModel() (*models.Contract, error) {
	fromDate, err := time.Parse("2006-01-02", r.FromDate)
	if err != nil {
		return nil, fmt.Errorf("invalid from date, expected YYYY-MM-DD")
	}

	// omitted terms fall back to house defaults; an explicit zero is
	// honored as sent
	officeFeePercent := models.DefaultOfficeFeePercent
	if r.OfficeFeePercent != nil {
		officeFeePercent = *r.OfficeFeePercent
	}
	installmentCount := models.DefaultInstallmentCount
	if r.InstallmentCount != nil {
		installmentCount = *r.InstallmentCount
	}

	return &models.Contract{
		BuildingID:       r.BuildingID,
		UnitNumber:       r.UnitNumber,
		CustomerID:       r.CustomerID,
		RentValue:        r.RentValue,
		WaterFee:         r.WaterFee,
		InsuranceFee:     r.InsuranceFee,
		ServiceFee:       r.ServiceFee,
		OfficeFeePercent: officeFeePercent,
		OtherAmount:      r.OtherAmount,
		OtherDeduction:   r.OtherDeduction,
		InstallmentCount: installmentCount,
		PeriodMonths:     r.PeriodMonths,
		FromDate:         fromDate,
		Notes:            r.Notes,
	}, nil
}

// @Summary Create Contract
// @Description Creates a lease, derives the financial breakdown and generates collection tasks
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body ContractRequest true "Contract Data"
// @Success 201 {object} models.ContractResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contractService.Create(c.Request.Context(), contract, currentUser(c), services.CreateOptions{}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": contract.ToResponse()})
}

// @Summary Update Contract
// @Description Updates lease terms and re-derives the financial breakdown
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Param request body ContractRequest true "Contract Data"
// @Success 200 {object} models.ContractResponse
// @Security BearerAuth
// @Router /contracts/{contract_id} [put]
func (h *ContractHandler) Update(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract.ID = c.Param("contract_id")

	if err := h.contractService.Update(c.Request.Context(), contract, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

type ConfirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

// @Summary Finalize Contract
// @Description Terminates a lease and frees its unit. Requires confirmed=true.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Param request body ConfirmRequest true "Confirmation"
// @Success 200 {object} models.ContractResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/finalize [post]
func (h *ContractHandler) Finalize(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.contractService.Finalize(c.Request.Context(), c.Param("contract_id"), req.Confirmed, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Renewal Draft
// @Description Returns an unsaved draft for the follow-on lease term. Nothing is persisted.
// @Tags Contracts
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Security BearerAuth
// @Router /contracts/{contract_id}/renew [get]
func (h *ContractHandler) Renew(c *gin.Context) {
	draft, err := h.contractService.Renew(c.Request.Context(), c.Param("contract_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": draft.ToResponse()})
}

// @Summary Contract Document
// @Description Printable lease document as PDF
// @Tags Contracts
// @Produce application/pdf
// @Param contract_id path string true "Contract ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /contracts/{contract_id}/document [get]
func (h *ContractHandler) Document(c *gin.Context) {
	buf, err := h.reportService.GenerateContractPDF(c.Request.Context(), c.Param("contract_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("contract_%s.pdf", c.Param("contract_id"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Delete Contract
// @Description Hard-deletes a lease and its history. Requires confirmed=true.
// @Tags Contracts
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Param confirmed query bool true "Confirmation flag"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id} [delete]
func (h *ContractHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirmed") == "true"
	if err := h.contractService.Delete(c.Request.Context(), c.Param("contract_id"), confirmed, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}
