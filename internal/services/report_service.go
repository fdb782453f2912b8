package services

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
)

//go:embed templates/reports/*.html
var reportTemplates embed.FS

type ReportService struct {
	transactionRepo repository.TransactionRepository
	contractRepo    repository.ContractRepository
	customerRepo    repository.CustomerRepository
}

func NewReportService(
	transactionRepo repository.TransactionRepository,
	contractRepo repository.ContractRepository,
	customerRepo repository.CustomerRepository,
) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		contractRepo:    contractRepo,
		customerRepo:    customerRepo,
	}
}

// GenerateTransactionsCSV writes every entry in the date range as CSV
func (s *ReportService) GenerateTransactionsCSV(ctx context.Context, startDate, endDate string) (*bytes.Buffer, error) {
	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Date", "Type", "Details", "Building", "Unit", "Amount", "VAT", "Total", "Method", "Status", "Created By"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, t := range transactions {
		building := ""
		if t.BuildingName != nil {
			building = *t.BuildingName
		}
		unit := ""
		if t.UnitNumber != nil {
			unit = *t.UnitNumber
		}
		vat := ""
		total := fmt.Sprintf("%.2f", t.Amount)
		if t.VatAmount != nil {
			vat = fmt.Sprintf("%.2f", *t.VatAmount)
		}
		if t.TotalWithVat != nil {
			total = fmt.Sprintf("%.2f", *t.TotalWithVat)
		}

		record := []string{
			t.Date.Format("2006-01-02"),
			t.Type,
			t.Details,
			building,
			unit,
			fmt.Sprintf("%.2f", t.Amount),
			vat,
			total,
			t.PaymentMethod,
			t.Status,
			t.CreatedByName,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, nil
}

// MonthlyTotals is one row of the income/expense summary
type MonthlyTotals struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// MonthlySummary aggregates approved cashflow per calendar month.
// Pending entries are excluded: their settled amount is not known yet.
func (s *ReportService) MonthlySummary(ctx context.Context, year int) ([]MonthlyTotals, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)

	transactions, err := s.transactionRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totals := make([]MonthlyTotals, 12)
	for i := range totals {
		totals[i].Month = time.Month(i + 1).String()
	}

	for _, t := range transactions {
		if t.Status != models.TransactionStatusApproved {
			continue
		}
		idx := int(t.Date.Month()) - 1
		switch t.Type {
		case models.TransactionTypeIncome:
			totals[idx].Income += t.Amount
		case models.TransactionTypeExpense:
			totals[idx].Expense += t.Amount
		}
	}

	for i := range totals {
		totals[i].Net = totals[i].Income - totals[i].Expense
	}

	return totals, nil
}

// GenerateContractPDF renders the printable lease document
func (s *ReportService) GenerateContractPDF(ctx context.Context, contractID string) (*bytes.Buffer, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	customerCode := ""
	customerPhone := ""
	customerIDNumber := ""
	if contract.Customer != nil {
		customerCode = contract.Customer.Code
		customerPhone = contract.Customer.Phone
		customerIDNumber = contract.Customer.IDNumber
	}

	data := struct {
		ContractNo       string
		BuildingName     string
		UnitNumber       string
		CustomerName     string
		CustomerCode     string
		CustomerPhone    string
		CustomerIDNumber string
		RentValue        string
		WaterFee         string
		InsuranceFee     string
		ServiceFee       string
		OfficeFeeAmount  string
		OtherAmount      string
		OtherDeduction   string
		TotalValue       string
		InstallmentCount int
		FirstInstallment string
		OtherInstallment string
		FromDate         string
		ToDate           string
		GeneratedAt      string
	}{
		ContractNo:       contract.ContractNo,
		BuildingName:     contract.BuildingName,
		UnitNumber:       contract.UnitNumber,
		CustomerName:     contract.CustomerName,
		CustomerCode:     customerCode,
		CustomerPhone:    customerPhone,
		CustomerIDNumber: customerIDNumber,
		RentValue:        fmt.Sprintf("%.2f", contract.RentValue),
		WaterFee:         fmt.Sprintf("%.2f", contract.WaterFee),
		InsuranceFee:     fmt.Sprintf("%.2f", contract.InsuranceFee),
		ServiceFee:       fmt.Sprintf("%.2f", contract.ServiceFee),
		OfficeFeeAmount:  fmt.Sprintf("%.2f", contract.OfficeFeeAmount),
		OtherAmount:      fmt.Sprintf("%.2f", contract.OtherAmount),
		OtherDeduction:   fmt.Sprintf("%.2f", contract.OtherDeduction),
		TotalValue:       fmt.Sprintf("%.2f", contract.TotalValue),
		InstallmentCount: contract.InstallmentCount,
		FirstInstallment: fmt.Sprintf("%.2f", contract.FirstInstallment),
		OtherInstallment: fmt.Sprintf("%.2f", contract.OtherInstallment),
		FromDate:         contract.FromDate.Format("02/01/2006"),
		ToDate:           contract.ToDate.Format("02/01/2006"),
		GeneratedAt:      time.Now().Format("02/01/2006 15:04"),
	}

	return s.generatePDF("contract.html", data)
}

// generatePDF renders an HTML template and converts it with wkhtmltopdf
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmpl, err := template.ParseFS(reportTemplates, "templates/reports/"+templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now()

	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return from, to, fmt.Errorf("%w: invalid start date %q", ErrValidation, startDate)
		}
		from = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return from, to, fmt.Errorf("%w: invalid end date %q", ErrValidation, endDate)
		}
		to = parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}

	return from, to, nil
}
