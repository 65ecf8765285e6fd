package driver

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrDeliveryStateIsNotConstructed is returned when a DeliveryState was not
// created through NewDeliveryState or RestoreDeliveryState.
var ErrDeliveryStateIsNotConstructed = errors.New(
	"DeliveryState must be created via NewDeliveryState or RestoreDeliveryState constructor")

// DeliveryState is the per-driver aggregate tracking the driver's operating
// status and the sub-steps of its active delivery.
//
// Invariants:
//   - a driver holds at most one current order at a time
//   - a current order implies OnDelivery operating status
//   - the granular status is cleared when the delivery ends
//
// The order row, not this aggregate, is the authority on who holds an order.
// When the two disagree (a best-effort driver write was lost), the repair
// pass rewrites this aggregate from the order rows.
type DeliveryState struct {
	driverID kernel.UUID

	// currentOrderID is the order the driver holds (nil when idle)
	currentOrderID *kernel.UUID

	operatingStatus OperatingStatus
	granularStatus  GranularStatus

	lastSeenAt time.Time

	guard guard.ConstructorGuard
}

// NewDeliveryState creates the state for a driver coming on shift:
// Available, no order, no granular progress.
func NewDeliveryState(driverID kernel.UUID, now time.Time) (*DeliveryState, error) {
	if err := driverID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}

	return &DeliveryState{
		driverID:        driverID,
		operatingStatus: Available,
		granularStatus:  GranularNone,
		lastSeenAt:      now,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// RestoreDeliveryState reconstructs a driver's state from persistence.
func RestoreDeliveryState(
	driverID kernel.UUID,
	currentOrderID *kernel.UUID,
	operating OperatingStatus,
	granular GranularStatus,
	lastSeenAt time.Time,
) (*DeliveryState, error) {
	if err := driverID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}
	if err := errors.Join(operating.Validate(), granular.Validate()); err != nil {
		return nil, err
	}
	if currentOrderID != nil {
		if err := currentOrderID.Validate(); err != nil {
			return nil, err
		}
		if operating != OnDelivery {
			return nil, errs.NewValueIsInvalidErrorWithCause("operatingStatus",
				fmt.Errorf("driver with a current order must be OnDelivery, got %s", operating))
		}
	}

	return &DeliveryState{
		driverID:        driverID,
		currentOrderID:  currentOrderID,
		operatingStatus: operating,
		granularStatus:  granular,
		lastSeenAt:      lastSeenAt,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the DeliveryState was created through a constructor.
func (d *DeliveryState) Validate() error {
	if d == nil || d.guard.Validate(ErrDeliveryStateIsNotConstructed) != nil {
		return ErrDeliveryStateIsNotConstructed
	}
	return nil
}

// DriverID returns the driver this state belongs to.
func (d *DeliveryState) DriverID() kernel.UUID {
	return d.driverID
}

// CurrentOrder returns the held order's ID, nil when idle.
func (d *DeliveryState) CurrentOrder() *kernel.UUID {
	return d.currentOrderID
}

// OperatingStatus returns the driver's availability.
func (d *DeliveryState) OperatingStatus() OperatingStatus {
	return d.operatingStatus
}

// GranularStatus returns the sub-step of the active delivery.
func (d *DeliveryState) GranularStatus() GranularStatus {
	return d.granularStatus
}

// LastSeenAt returns when the driver last reported activity.
func (d *DeliveryState) LastSeenAt() time.Time {
	return d.lastSeenAt
}

// IsAvailable reports whether the driver may accept an order.
func (d *DeliveryState) IsAvailable() bool {
	return d.operatingStatus == Available && d.currentOrderID == nil
}

// BeginDelivery flips the driver onto a delivery: OnDelivery, holding the
// order, granular status Assigned.
func (d *DeliveryState) BeginDelivery(orderID kernel.UUID, now time.Time) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !d.IsAvailable() {
		return errs.NewConflictError("driver", d.driverID.String(),
			"operating_status = Available AND current_order IS NULL")
	}

	d.currentOrderID = &orderID
	d.operatingStatus = OnDelivery
	d.granularStatus = GranularAssigned
	d.lastSeenAt = now
	return nil
}

// AdvanceGranular records progress of the active delivery, mirroring an order
// status the driver just reached.
func (d *DeliveryState) AdvanceGranular(reached order.Status, now time.Time) error {
	granular, err := GranularFromOrderStatus(reached)
	if err != nil {
		return err
	}
	if d.currentOrderID == nil {
		return errs.NewValueIsInvalidErrorWithCause("granularStatus",
			fmt.Errorf("driver %s has no active delivery", d.driverID))
	}

	d.granularStatus = granular
	d.lastSeenAt = now
	return nil
}

// RecordArrivalAtCustomer sets the driver-only arrival sub-step. It is valid
// only while the held order is OutForDelivery and never touches the order.
func (d *DeliveryState) RecordArrivalAtCustomer(orderStatus order.Status, now time.Time) error {
	if d.currentOrderID == nil {
		return errs.NewValueIsInvalidErrorWithCause("granularStatus",
			fmt.Errorf("driver %s has no active delivery", d.driverID))
	}
	if orderStatus != order.OutForDelivery {
		return errs.NewValueIsInvalidErrorWithCause("granularStatus",
			fmt.Errorf("arrival at customer requires OutForDelivery, order is %s", orderStatus))
	}

	d.granularStatus = GranularArrivedAtCustomer
	d.lastSeenAt = now
	return nil
}

// FinishDelivery ends the active delivery: back to Available with the order
// link and granular progress cleared. Called when the order reaches a
// terminal state.
func (d *DeliveryState) FinishDelivery(now time.Time) {
	d.currentOrderID = nil
	d.operatingStatus = Available
	d.granularStatus = GranularNone
	d.lastSeenAt = now
}
