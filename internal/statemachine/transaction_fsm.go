package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/aqariapp/aqari-api/internal/models"
)

// TransactionFSM wraps a financial entry with its approval state
// machine. REJECTED is terminal only on paper: the service deletes
// the row right after the transition.
type TransactionFSM struct {
	transaction *models.Transaction
	fsm         *fsm.FSM
}

// NewTransactionFSM creates a new transaction state machine
func NewTransactionFSM(transaction *models.Transaction) *TransactionFSM {
	tfsm := &TransactionFSM{
		transaction: transaction,
	}

	tfsm.fsm = fsm.NewFSM(
		transaction.Status,
		fsm.Events{
			{Name: "approve", Src: []string{models.TransactionStatusPending}, Dst: models.TransactionStatusApproved},
			{Name: "reject", Src: []string{models.TransactionStatusPending}, Dst: models.TransactionStatusRejected},
		},
		fsm.Callbacks{},
	)

	return tfsm
}

// Approve transitions the entry to approved state
func (t *TransactionFSM) Approve(ctx context.Context) error {
	if !t.transaction.MayApprove() {
		return fmt.Errorf("transaction cannot be approved in current state: %s", t.transaction.Status)
	}

	if err := t.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve transaction: %w", err)
	}

	t.transaction.Status = t.fsm.Current()
	return nil
}

// Reject transitions the entry to rejected state
func (t *TransactionFSM) Reject(ctx context.Context) error {
	if !t.transaction.MayReject() {
		return fmt.Errorf("transaction cannot be rejected in current state: %s", t.transaction.Status)
	}

	if err := t.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject transaction: %w", err)
	}

	t.transaction.Status = t.fsm.Current()
	return nil
}

// Current returns the current state
func (t *TransactionFSM) Current() string {
	return t.fsm.Current()
}

// Can checks if a transition is possible
func (t *TransactionFSM) Can(event string) bool {
	return t.fsm.Can(event)
}
