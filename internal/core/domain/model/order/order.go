package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Order is the aggregate root for a delivery order, tracked from creation
// through driver assignment to completion.
//
// Invariants:
//   - at most one driver holds an order at a time
//   - driverID != nil implies the status is a driver-linked state
//     (Assigned through Delivered)
//   - Delivered and Cancelled are terminal and immutable
//   - every status change goes through the transition table
//
// The authoritative copy of an Order lives in the remote store; in-process
// instances are working copies whose writes are applied conditionally.
type Order struct {
	id         kernel.UUID
	vendorID   kernel.UUID
	customerID kernel.UUID

	// driverID is the assigned driver (nil while unassigned)
	driverID *kernel.UUID

	status         Status
	deliveryMethod DeliveryMethod

	// total is the opaque monetary total; this module never computes it
	total kernel.Money

	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a freshly placed order in Pending status with no driver.
//
// Example:
//
//	o, err := NewOrder(kernel.NewUUID(), vendorID, customerID, SelfFleet, total, time.Now())
//	if err != nil {
//	    // handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	vendorID kernel.UUID,
	customerID kernel.UUID,
	method DeliveryMethod,
	total kernel.Money,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setVendorID(vendorID),
		o.setCustomerID(customerID),
		o.setDeliveryMethod(method),
	); err != nil {
		return nil, err
	}

	o.total = total
	return o, nil
}

// RestoreOrder reconstructs an order from persistence in its stored state.
// Unlike NewOrder it accepts any valid status and an optional driver, but it
// still enforces the status/driver consistency invariant.
func RestoreOrder(
	id kernel.UUID,
	vendorID kernel.UUID,
	customerID kernel.UUID,
	method DeliveryMethod,
	status Status,
	driverID *kernel.UUID,
	total kernel.Money,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		total:     total,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setVendorID(vendorID),
		o.setCustomerID(customerID),
		o.setDeliveryMethod(method),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		o.driverID = driverID
	}

	if err := o.status.validateCanHaveDriver(o.driverID != nil); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || o.guard.Validate(ErrOrderIsNotConstructed) != nil {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// VendorID returns the vendor that prepares the order.
func (o *Order) VendorID() kernel.UUID {
	return o.vendorID
}

// CustomerID returns the customer that placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Driver returns the assigned driver's ID, nil while unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// DeliveryMethod returns which fleet fulfills the order.
func (o *Order) DeliveryMethod() DeliveryMethod {
	return o.deliveryMethod
}

// Total returns the opaque monetary total.
func (o *Order) Total() kernel.Money {
	return o.total
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order last changed.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsAssignable reports whether the order can be handed to a driver right now:
// Ready status, no driver, fulfilled by the platform's own fleet.
func (o *Order) IsAssignable() bool {
	return o.status == Ready && o.driverID == nil && o.deliveryMethod == SelfFleet
}

// AssignDriver hands the order to a driver and moves it to Assigned.
//
// This only mutates the working copy; the conditional write the repository
// issues from it is what actually guarantees at-most-one assignment.
func (o *Order) AssignDriver(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if !o.IsAssignable() {
		return errs.NewConflictError("order", o.id.String(),
			"status = Ready AND driver IS NULL AND method = SelfFleet")
	}

	o.driverID = &driverID
	o.status = Assigned
	o.updatedAt = now
	return nil
}

// Release unassigns the order back to Ready. Only the driver that currently
// holds the order may release it; a stale caller gets a conflict, never a
// silent unassignment of somebody else's order.
func (o *Order) Release(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return errs.NewConflictError("order", o.id.String(),
			fmt.Sprintf("driver = %s", driverID))
	}

	o.driverID = nil
	o.status = Ready
	o.updatedAt = now
	return nil
}

// AdvanceTo moves the order to the requested status on behalf of an actor,
// enforcing the transition table. Cancelling clears the driver link.
func (o *Order) AdvanceTo(requested Status, role Role, own Ownership, now time.Time) error {
	if err := CheckTransition(o.status, requested, role, own); err != nil {
		return err
	}

	o.status = requested
	if requested == Cancelled {
		o.driverID = nil
	}
	o.updatedAt = now
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setVendorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vendorID", err)
	}
	o.vendorID = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setDeliveryMethod(method DeliveryMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.deliveryMethod = method
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// validateCanHaveDriver enforces status/driver consistency when restoring
// from persistence: only the driver-linked states carry a driver.
func (s Status) validateCanHaveDriver(hasDriver bool) error {
	driverLinked := s >= Assigned && s <= Delivered
	if hasDriver && !driverLinked {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a driver", s))
	}
	if !hasDriver && driverLinked {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no driver", s))
	}
	return nil
}
