package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aqariapp/aqari-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// @Summary Transactions CSV
// @Description Downloads all entries in the date range as CSV
// @Tags Reports
// @Produce text/csv
// @Param start_date query string false "Start date YYYY-MM-DD"
// @Param end_date query string false "End date YYYY-MM-DD"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/transactions_csv [get]
func (h *ReportHandler) TransactionsCSV(c *gin.Context) {
	buf, err := h.reportService.GenerateTransactionsCSV(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Monthly Summary
// @Description Approved income and expense totals per calendar month
// @Tags Reports
// @Produce json
// @Param year query int false "Year, defaults to current"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reports/monthly_summary [get]
func (h *ReportHandler) MonthlySummary(c *gin.Context) {
	year := time.Now().Year()
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		year = y
	}

	totals, err := h.reportService.MonthlySummary(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":   year,
		"months": totals,
	})
}

// @Summary Transactions XLSX
// @Description Downloads all entries in the date range as a spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string false "Start date YYYY-MM-DD"
// @Param end_date query string false "End date YYYY-MM-DD"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/transactions_xlsx [get]
func (h *ReportHandler) TransactionsXLSX(c *gin.Context) {
	buf, filename, err := h.exportService.ExportTransactionsXLSX(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// @Summary Contracts XLSX
// @Description Downloads all contracts as a spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/contracts_xlsx [get]
func (h *ReportHandler) ContractsXLSX(c *gin.Context) {
	buf, filename, err := h.exportService.ExportContractsXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
