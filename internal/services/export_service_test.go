package services

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aqariapp/aqari-api/internal/models"
)

func TestWhatsAppShareLink(t *testing.T) {
	building := "Al Noor Tower"
	unit := "A-101"
	total := 1150.0

	txRepo := &mockTransactionRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Transaction, error) {
			return &models.Transaction{
				ID:           id,
				Date:         time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
				Amount:       1000,
				TotalWithVat: &total,
				BuildingName: &building,
				UnitNumber:   &unit,
			}, nil
		},
	}
	svc := NewExportService(txRepo, &mockContractRepository{})

	link, err := svc.WhatsAppShareLink(context.Background(), "tx-1", "+966 55 123 4567")
	assert.NoError(t, err)

	// phone part keeps digits only
	assert.True(t, strings.HasPrefix(link, "https://wa.me/966551234567?text="))

	raw, err := url.QueryUnescape(strings.TrimPrefix(link, "https://wa.me/966551234567?text="))
	assert.NoError(t, err)
	assert.Contains(t, raw, "Date: 05/03/2025")
	assert.Contains(t, raw, "Property: Al Noor Tower, unit A-101")

	// VAT-inclusive total wins over the base amount
	assert.Contains(t, raw, "Amount: 1150.00 SAR")
}

func TestWhatsAppShareLinkRequiresPhone(t *testing.T) {
	txRepo := &mockTransactionRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.Transaction, error) {
			return &models.Transaction{ID: id, Date: time.Now(), Amount: 100}, nil
		},
	}
	svc := NewExportService(txRepo, &mockContractRepository{})

	_, err := svc.WhatsAppShareLink(context.Background(), "tx-1", "not a number")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportTransactionsXLSX(t *testing.T) {
	txRepo := &mockTransactionRepository{
		mockFindBetween: func(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
			return []models.Transaction{
				{
					Date:          time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
					Type:          models.TransactionTypeIncome,
					Amount:        1000,
					PaymentMethod: models.PaymentMethodCash,
					Status:        models.TransactionStatusApproved,
					Details:       "Rent for A-101",
				},
			}, nil
		},
	}
	svc := NewExportService(txRepo, &mockContractRepository{})

	buf, filename, err := svc.ExportTransactionsXLSX(context.Background(), "2025-03-01", "2025-03-31")
	assert.NoError(t, err)
	assert.NotNil(t, buf)
	assert.Greater(t, buf.Len(), 0)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
}
