package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/aqariapp/aqari-api/internal/models"
)

// ContractFSM wraps a contract with its lifecycle state machine
type ContractFSM struct {
	contract *models.Contract
	fsm      *fsm.FSM
}

// NewContractFSM creates a new contract state machine
func NewContractFSM(contract *models.Contract) *ContractFSM {
	cfsm := &ContractFSM{
		contract: contract,
	}

	cfsm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			// pending → active, once the coverage window starts
			{Name: "activate", Src: []string{models.ContractStatusPending}, Dst: models.ContractStatusActive},

			// active → expired, when coverage lapses
			{Name: "expire", Src: []string{models.ContractStatusActive}, Dst: models.ContractStatusExpired},

			// anything not already terminated → terminated
			{Name: "finalize", Src: []string{models.ContractStatusActive, models.ContractStatusPending, models.ContractStatusExpired}, Dst: models.ContractStatusTerminated},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Activate transitions contract to active state
func (c *ContractFSM) Activate(ctx context.Context) error {
	if !c.contract.MayActivate() {
		return fmt.Errorf("contract cannot be activated in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Expire transitions contract to expired state
func (c *ContractFSM) Expire(ctx context.Context) error {
	if !c.contract.MayExpire() {
		return fmt.Errorf("contract cannot expire in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "expire"); err != nil {
		return fmt.Errorf("failed to expire contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Finalize transitions contract to terminated state
func (c *ContractFSM) Finalize(ctx context.Context) error {
	if !c.contract.MayFinalize() {
		return fmt.Errorf("contract cannot be finalized in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "finalize"); err != nil {
		return fmt.Errorf("failed to finalize contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ContractFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ContractFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
