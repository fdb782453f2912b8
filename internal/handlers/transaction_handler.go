package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/services"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
	exportService      *services.ExportService
}

func NewTransactionHandler(transactionService *services.TransactionService, exportService *services.ExportService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		exportService:      exportService,
	}
}

// @Summary List Transactions
// @Description Paginated entries. Non-privileged users only see their own.
// @Tags Transactions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param type query string false "INCOME or EXPENSE"
// @Param status query string false "Filter by status"
// @Param building_id query string false "Filter by building"
// @Param contract_id query string false "Filter by contract"
// @Param expense_category query string false "Filter by expense category"
// @Param date_from query string false "Start date YYYY-MM-DD"
// @Param date_to query string false "End date YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions [get]
func (h *TransactionHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["type"] = c.Query("type")
	query.Filters["status"] = c.Query("status")
	query.Filters["building_id"] = c.Query("building_id")
	query.Filters["contract_id"] = c.Query("contract_id")
	query.Filters["expense_category"] = c.Query("expense_category")
	query.Filters["date_from"] = c.Query("date_from")
	query.Filters["date_to"] = c.Query("date_to")

	transactions, total, err := h.transactionService.List(c.Request.Context(), currentUser(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination":   paginationResponse(query, total),
	})
}

// @Summary Pending Transactions
// @Description Entries awaiting approval. Admin and manager only.
// @Tags Transactions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/pending [get]
func (h *TransactionHandler) Pending(c *gin.Context) {
	transactions, err := h.transactionService.FindPending(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// @Summary Get Transaction
// @Tags Transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *TransactionHandler) Show(c *gin.Context) {
	tx, err := h.transactionService.FindByID(c.Request.Context(), currentUser(c), c.Param("transaction_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

type TransactionRequest struct {
	Date            string   `json:"date" binding:"required"`
	Type            string   `json:"type" binding:"required"`
	Amount          float64  `json:"amount" binding:"required"`
	PaymentMethod   string   `json:"payment_method"`
	BankName        *string  `json:"bank_name"`
	BuildingID      *string  `json:"building_id"`
	UnitNumber      *string  `json:"unit_number"`
	ContractID      *string  `json:"contract_id"`
	ExpenseCategory *string  `json:"expense_category"`
	EmployeeID      *string  `json:"employee_id"`
	VendorID        *string  `json:"vendor_id"`
	BonusAmount     *float64 `json:"bonus_amount"`
	DeductionAmount *float64 `json:"deduction_amount"`
	ExtraAmount     float64  `json:"extra_amount"`
	DiscountAmount  float64  `json:"discount_amount"`
	Details         string   `json:"details"`
	ApplyVat        bool     `json:"apply_vat"`
}

func (r *TransactionRequest) toModel() (*models.Transaction, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date, expected YYYY-MM-DD")
	}
	return &models.Transaction{
		Date:            date,
		Type:            r.Type,
		Amount:          r.Amount,
		PaymentMethod:   r.PaymentMethod,
		BankName:        r.BankName,
		BuildingID:      r.BuildingID,
		UnitNumber:      r.UnitNumber,
		ContractID:      r.ContractID,
		ExpenseCategory: r.ExpenseCategory,
		EmployeeID:      r.EmployeeID,
		VendorID:        r.VendorID,
		BonusAmount:     r.BonusAmount,
		DeductionAmount: r.DeductionAmount,
		ExtraAmount:     r.ExtraAmount,
		DiscountAmount:  r.DiscountAmount,
		Details:         r.Details,
	}, nil
}

// @Summary Create Transaction
// @Description Records an entry. Adjusted entries from non-privileged users go to PENDING.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body TransactionRequest true "Transaction Data"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.transactionService.Create(c.Request.Context(), tx, req.ApplyVat, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// @Summary Update Transaction
// @Description Edits an entry. Owners can edit within the edit window, privileged users anytime.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param request body TransactionRequest true "Transaction Data"
// @Success 200 {object} models.Transaction
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx.ID = c.Param("transaction_id")

	if err := h.transactionService.Update(c.Request.Context(), tx, req.ApplyVat, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// @Summary Approve Transaction
// @Description Folds adjustments into the amount and marks the entry APPROVED
// @Tags Transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id}/approve [post]
func (h *TransactionHandler) Approve(c *gin.Context) {
	tx, err := h.transactionService.Approve(c.Request.Context(), c.Param("transaction_id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// @Summary Reject Transaction
// @Description Rejects a pending entry and removes it. Requires confirmed=true.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param request body ConfirmRequest true "Confirmation"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id}/reject [post]
func (h *TransactionHandler) Reject(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.transactionService.Reject(c.Request.Context(), c.Param("transaction_id"), req.Confirmed, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction rejected"})
}

// @Summary Delete Transaction
// @Description Hard-deletes an entry. Requires confirmed=true and edit rights.
// @Tags Transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param confirmed query bool true "Confirmation flag"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirmed") == "true"
	if err := h.transactionService.Delete(c.Request.Context(), c.Param("transaction_id"), confirmed, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// @Summary Suggest Income Entry
// @Description Looks up the active contract for a unit and the next installment amount
// @Tags Transactions
// @Produce json
// @Param building_id query string true "Building ID"
// @Param unit_number query string true "Unit name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/suggest [get]
func (h *TransactionHandler) Suggest(c *gin.Context) {
	buildingID := c.Query("building_id")
	unitNumber := c.Query("unit_number")
	if buildingID == "" || unitNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "building_id and unit_number are required"})
		return
	}

	contract, due, isFirst, err := h.transactionService.SuggestForUnit(c.Request.Context(), buildingID, unitNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract":          contract.ToResponse(),
		"expected_amount":   due,
		"first_installment": isFirst,
	})
}

// @Summary Installment Due
// @Description Remaining amount expected for a contract's next installment
// @Tags Transactions
// @Produce json
// @Param contract_id path string true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions/installment_due/{contract_id} [get]
func (h *TransactionHandler) InstallmentDue(c *gin.Context) {
	due, isFirst, err := h.transactionService.InstallmentDue(c.Request.Context(), c.Param("contract_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"expected_amount":   due,
		"first_installment": isFirst,
	})
}

// @Summary Transaction Receipt
// @Description Printable receipt for an entry as PDF
// @Tags Transactions
// @Produce application/pdf
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /transactions/{transaction_id}/receipt [get]
func (h *TransactionHandler) Receipt(c *gin.Context) {
	buf, filename, err := h.exportService.GenerateReceiptPDF(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary WhatsApp Share Link
// @Description Builds a wa.me link with a receipt summary for the tenant
// @Tags Transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param phone query string true "Recipient phone number"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id}/whatsapp [get]
func (h *TransactionHandler) WhatsAppLink(c *gin.Context) {
	link, err := h.exportService.WhatsAppShareLink(c.Request.Context(), c.Param("transaction_id"), c.Query("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}
