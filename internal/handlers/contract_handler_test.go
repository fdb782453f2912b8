package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContractRequestDefaults(t *testing.T) {
	req := ContractRequest{
		BuildingID:   "b-1",
		UnitNumber:   "A-101",
		CustomerID:   "c-1",
		RentValue:    30000,
		PeriodMonths: 12,
		FromDate:     "2024-01-01",
	}

	contract, err := req.toModel()
	assert.NoError(t, err)

	// omitted terms take the house defaults
	assert.Equal(t, 2.5, contract.OfficeFeePercent)
	assert.Equal(t, 2, contract.InstallmentCount)
}

func TestContractRequestExplicitZeroOfficeFee(t *testing.T) {
	zero := 0.0
	one := 1
	req := ContractRequest{
		BuildingID:       "b-1",
		UnitNumber:       "A-101",
		CustomerID:       "c-1",
		RentValue:        30000,
		PeriodMonths:     12,
		FromDate:         "2024-01-01",
		OfficeFeePercent: &zero,
		InstallmentCount: &one,
	}

	contract, err := req.toModel()
	assert.NoError(t, err)

	// an explicit zero is a waived fee, not an omitted field
	assert.Equal(t, 0.0, contract.OfficeFeePercent)
	assert.Equal(t, 1, contract.InstallmentCount)

	contract.Recalculate()
	assert.Equal(t, 0.0, contract.OfficeFeeAmount)
	assert.Equal(t, 30000.0, contract.TotalValue)
}

func TestContractRequestBadDate(t *testing.T) {
	req := ContractRequest{
		BuildingID:   "b-1",
		UnitNumber:   "A-101",
		CustomerID:   "c-1",
		RentValue:    30000,
		PeriodMonths: 12,
		FromDate:     "01/01/2024",
	}

	_, err := req.toModel()
	assert.Error(t, err)
}
