package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/aqariapp/aqari-api/internal/config"
	"github.com/aqariapp/aqari-api/internal/models"
	"github.com/aqariapp/aqari-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// SendAccountCreated welcomes a freshly provisioned staff account.
func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	if user.Email == nil {
		return nil
	}

	data := struct {
		Name   string
		AppURL string
	}{
		Name:   user.Name,
		AppURL: "https://app.aqari.app",
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	return s.send(*user.Email, "Welcome to Aqari", body)
}

// SendApprovalRequested tells a privileged user that an adjusted
// entry is waiting in the approval queue.
func (s *EmailService) SendApprovalRequested(ctx context.Context, user *models.User, tx *models.Transaction) error {
	if user.Email == nil {
		return nil
	}

	data := struct {
		Name      string
		Details   string
		Amount    string
		Extra     string
		Discount  string
		CreatedBy string
		AppURL    string
	}{
		Name:      user.Name,
		Details:   tx.Details,
		Amount:    fmt.Sprintf("%.2f SAR", tx.Amount),
		Extra:     fmt.Sprintf("%.2f SAR", tx.ExtraAmount),
		Discount:  fmt.Sprintf("%.2f SAR", tx.DiscountAmount),
		CreatedBy: tx.CreatedByName,
		AppURL:    "https://app.aqari.app",
	}

	body, err := s.renderTemplate("approval_requested.html", data)
	if err != nil {
		return err
	}

	return s.send(*user.Email, "Transaction pending approval", body)
}

// SendContractCreated confirms a new lease to whoever booked it.
func (s *EmailService) SendContractCreated(ctx context.Context, user *models.User, contract *models.Contract) error {
	if user.Email == nil {
		return nil
	}

	data := struct {
		Name         string
		ContractNo   string
		BuildingName string
		UnitNumber   string
		CustomerName string
		TotalValue   string
		FromDate     string
		ToDate       string
		AppURL       string
	}{
		Name:         user.Name,
		ContractNo:   contract.ContractNo,
		BuildingName: contract.BuildingName,
		UnitNumber:   contract.UnitNumber,
		CustomerName: contract.CustomerName,
		TotalValue:   fmt.Sprintf("%.2f SAR", contract.TotalValue),
		FromDate:     contract.FromDate.Format("02/01/2006"),
		ToDate:       contract.ToDate.Format("02/01/2006"),
		AppURL:       "https://app.aqari.app",
	}

	body, err := s.renderTemplate("contract_created.html", data)
	if err != nil {
		return err
	}

	return s.send(*user.Email, fmt.Sprintf("Contract #%s created", contract.ContractNo), body)
}

type OverdueTaskData struct {
	Title   string
	DueDate string
}

// SendOverdueTasks summarizes a user's overdue board items.
func (s *EmailService) SendOverdueTasks(ctx context.Context, user *models.User, tasks []models.Task) error {
	if user.Email == nil || len(tasks) == 0 {
		return nil
	}

	var taskData []OverdueTaskData
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("02/01/2006")
		}
		taskData = append(taskData, OverdueTaskData{
			Title:   t.Title,
			DueDate: due,
		})
	}

	data := struct {
		Name   string
		Tasks  []OverdueTaskData
		AppURL string
	}{
		Name:   user.Name,
		Tasks:  taskData,
		AppURL: "https://app.aqari.app",
	}

	body, err := s.renderTemplate("overdue_tasks.html", data)
	if err != nil {
		return err
	}

	return s.send(*user.Email, fmt.Sprintf("Overdue tasks (%d)", len(tasks)), body)
}

func (s *EmailService) send(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
