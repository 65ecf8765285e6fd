package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRepairAssignmentsCommandIsNotConstructed = errors.New(
	"RepairAssignmentsCommand must be created via NewRepairAssignmentsCommand constructor",
)

// RepairAssignmentsCommand triggers one reconciliation pass over driver
// state. Order rows are authoritative; any driver row that disagrees with
// them was left behind by a failed best-effort write and gets rewritten.
type RepairAssignmentsCommand struct {
	guard guard.ConstructorGuard
}

// NewRepairAssignmentsCommand creates a repair trigger.
func NewRepairAssignmentsCommand() (RepairAssignmentsCommand, error) {
	return RepairAssignmentsCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RepairAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrRepairAssignmentsCommandIsNotConstructed)
}
