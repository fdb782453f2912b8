package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/internal/repository"
)

// ExportService produces downloadable spreadsheets, printed receipts
// and shareable links.
type ExportService struct {
	transactionRepo repository.TransactionRepository
	contractRepo    repository.ContractRepository
}

func NewExportService(transactionRepo repository.TransactionRepository, contractRepo repository.ContractRepository) *ExportService {
	return &ExportService{
		transactionRepo: transactionRepo,
		contractRepo:    contractRepo,
	}
}

// ExportTransactionsXLSX writes the entries in the date range as a
// styled spreadsheet. Returns the file bytes and a suggested filename.
func (s *ExportService) ExportTransactionsXLSX(ctx context.Context, startDate, endDate string) (*bytes.Buffer, string, error) {
	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, "", err
	}

	transactions, err := s.transactionRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Date", "Type", "Details", "Building", "Unit", "Category", "Amount", "VAT", "Total", "Method", "Status", "Created By"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, t := range transactions {
		values := []interface{}{
			t.Date.Format("2006-01-02"),
			t.Type,
			t.Details,
			derefString(t.BuildingName),
			derefString(t.UnitNumber),
			derefString(t.ExpenseCategory),
			t.Amount,
			derefFloat(t.VatAmount),
			totalAmount(&t),
			t.PaymentMethod,
			t.Status,
			t.CreatedByName,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "L", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

// ExportContractsXLSX writes all contracts as a styled spreadsheet
func (s *ExportService) ExportContractsXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	contracts, err := s.contractRepo.FindAll(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Contracts"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Contract No", "Building", "Unit", "Customer", "Status", "From", "To", "Rent", "Total", "Installments", "First Installment", "Other Installments"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, c := range contracts {
		values := []interface{}{
			c.ContractNo,
			c.BuildingName,
			c.UnitNumber,
			c.CustomerName,
			c.Status,
			c.FromDate.Format("2006-01-02"),
			c.ToDate.Format("2006-01-02"),
			c.RentValue,
			c.TotalValue,
			c.InstallmentCount,
			c.FirstInstallment,
			c.OtherInstallment,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "L", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("contracts_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

// GenerateReceiptPDF builds a payment receipt for a single entry
func (s *ExportService) GenerateReceiptPDF(ctx context.Context, transactionID string) (*bytes.Buffer, string, error) {
	t, err := s.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Payment Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 6, fmt.Sprintf("Receipt No: %s", t.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", time.Now().Format("02/01/2006 15:04")))
	pdf.Ln(12)
	pdf.SetTextColor(0, 0, 0)

	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(50, 8, label)
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 8, value)
		pdf.Ln(8)
	}

	line("Date", t.Date.Format("02/01/2006"))
	line("Type", t.Type)
	if t.BuildingName != nil {
		line("Building", *t.BuildingName)
	}
	if t.UnitNumber != nil {
		line("Unit", *t.UnitNumber)
	}
	if t.ExpenseCategory != nil {
		line("Category", *t.ExpenseCategory)
	}
	if t.VendorName != nil {
		line("Vendor", *t.VendorName)
	}
	line("Payment Method", t.PaymentMethod)
	if t.BankName != nil {
		line("Bank", *t.BankName)
	}
	if t.Details != "" {
		line("Details", t.Details)
	}

	pdf.Ln(4)
	line("Amount", fmt.Sprintf("%.2f SAR", t.Amount))
	if t.VatAmount != nil && *t.VatAmount > 0 {
		line("VAT (15%)", fmt.Sprintf("%.2f SAR", *t.VatAmount))
	}

	total := totalAmount(t)
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(50, 10, "Total")
	pdf.Cell(0, 10, fmt.Sprintf("%.2f SAR", total))
	pdf.Ln(10)

	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 8, AmountInWords(total))
	pdf.Ln(20)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Recorded by: %s", t.CreatedByName))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("receipt_%s.pdf", t.Date.Format("2006-01-02"))
	return &buf, filename, nil
}

// WhatsAppShareLink builds a wa.me link pre-filled with a receipt
// summary for the given phone number. Digits only in the phone part.
func (s *ExportService) WhatsAppShareLink(ctx context.Context, transactionID, phone string) (string, error) {
	t, err := s.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		return "", err
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", fmt.Errorf("%w: phone number is required", ErrValidation)
	}

	var msg strings.Builder
	msg.WriteString("Payment Receipt\n")
	msg.WriteString(fmt.Sprintf("Date: %s\n", t.Date.Format("02/01/2006")))
	if t.BuildingName != nil && t.UnitNumber != nil {
		msg.WriteString(fmt.Sprintf("Property: %s, unit %s\n", *t.BuildingName, *t.UnitNumber))
	}
	msg.WriteString(fmt.Sprintf("Amount: %.2f SAR\n", totalAmount(t)))
	msg.WriteString("Thank you.")

	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(msg.String())), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func totalAmount(t *models.Transaction) float64 {
	if t.TotalWithVat != nil {
		return *t.TotalWithVat
	}
	return t.Amount
}
