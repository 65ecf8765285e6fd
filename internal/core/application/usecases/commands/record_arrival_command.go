package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRecordArrivalCommandIsNotConstructed = errors.New(
	"RecordArrivalCommand must be created via NewRecordArrivalCommand constructor",
)

// RecordArrivalCommand represents a driver reporting physical arrival at the
// customer location. Arrival is a driver-only sub-step of OutForDelivery; it
// refines the driver's granular progress and leaves the order untouched.
type RecordArrivalCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRecordArrivalCommand creates a validated arrival report.
func NewRecordArrivalCommand(orderID, driverID kernel.UUID) (RecordArrivalCommand, error) {
	cmd := RecordArrivalCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
	); err != nil {
		return RecordArrivalCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordArrivalCommand) Validate() error {
	return c.guard.Validate(ErrRecordArrivalCommandIsNotConstructed)
}

// OrderID returns the order the driver arrived for.
func (c RecordArrivalCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the reporting driver.
func (c RecordArrivalCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *RecordArrivalCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *RecordArrivalCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.driverID = id
	return nil
}
