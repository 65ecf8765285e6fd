package services

import (
	"fmt"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// AssignmentPolicy is a pure domain service deciding whether a driver may
// accept an order. It only checks preconditions against the state that was
// read: the conditional write that follows is what actually wins or loses
// the race.
//
// Preconditions:
//   - the driver is Available with no current order
//   - the order is Ready with no driver
//   - the order is fulfilled by the platform's own fleet
type AssignmentPolicy struct{}

// NewAssignmentPolicy creates a new AssignmentPolicy instance.
func NewAssignmentPolicy() AssignmentPolicy {
	return AssignmentPolicy{}
}

// CanAccept validates the acceptance preconditions. On rejection the error
// names the failed precondition so it can be surfaced to the driver unchanged.
func (p AssignmentPolicy) CanAccept(o *order.Order, d *driver.DeliveryState) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	if !d.IsAvailable() {
		return errs.NewValueIsInvalidErrorWithCause("driver",
			fmt.Errorf("driver %s is %s, not Available", d.DriverID(), d.OperatingStatus()))
	}

	if o.DeliveryMethod() != order.SelfFleet {
		return errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s is fulfilled by a third-party carrier", o.ID()))
	}

	if o.Status() != order.Ready || o.Driver() != nil {
		return errs.NewConflictError("order", o.ID().String(),
			"status = Ready AND driver IS NULL")
	}

	return nil
}
