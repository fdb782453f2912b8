package services

import (
	"fmt"

	"github.com/aqariapp/aqari-api/internal/models"
)

// ScheduleService builds the rent-due task schedule for a contract.
// It runs once at contract creation; renewals and edits never re-run
// it.
type ScheduleService struct{}

func NewScheduleService() *ScheduleService {
	return &ScheduleService{}
}

// GenerateTasks lays out one reminder task per expected installment,
// owned by the contract's creator. Spacing is periodMonths divided by
// the installment count, truncated to whole months, so a 12-month
// lease with 4 installments yields quarterly reminders. Generation
// stops early if truncation pushes a due date past the contract end.
func (s *ScheduleService) GenerateTasks(contract *models.Contract) []models.Task {
	count := contract.InstallmentCount
	if count < 1 {
		count = 1
	}

	intervalMonths := contract.PeriodMonths / count

	var tasks []models.Task
	current := contract.FromDate
	for i := 1; i <= count; i++ {
		if current.After(contract.ToDate) {
			break
		}

		expected := contract.OtherInstallment
		if i == 1 {
			expected = contract.FirstInstallment
		}

		due := current
		tasks = append(tasks, models.Task{
			UserID: contract.CreatedBy,
			Title: fmt.Sprintf("Rent Due (%d/%d): %s",
				i, count, contract.UnitNumber),
			Description: fmt.Sprintf("Collect installment #%d for contract #%s (%s, unit %s). Expected: %.2f SAR",
				i, contract.ContractNo, contract.BuildingName, contract.UnitNumber, expected),
			Status:  models.TaskStatusTodo,
			DueDate: &due,
		})

		current = current.AddDate(0, intervalMonths, 0)
	}

	return tasks
}
