package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// The transition permission tables. Defined once; every status write in the
// module goes through CheckTransition, never through ad hoc comparisons.
//
// Permission matrix:
//   - Vendor (own order only): Pending→Confirmed, Confirmed→Preparing,
//     Preparing→Ready.
//   - Driver (own order only): each single forward step from Assigned through
//     Delivered.
//   - Admin: any forward transition, including multi-step jumps.
//   - Cancellation: owning vendor, owning driver, or admin, from any
//     non-terminal state.
//   - Customers and unrelated actors move nothing.
//
// Backward transitions never exist, for any role. Terminal states are frozen.

// vendorEdges are the preparation-stage steps a vendor may take on its own order.
func vendorEdges() map[Status]Status {
	return map[Status]Status{
		Pending:   Confirmed,
		Confirmed: Preparing,
		Preparing: Ready,
	}
}

// driverEdges are the fulfillment-stage steps a driver may take on the order
// it holds.
func driverEdges() map[Status]Status {
	return map[Status]Status{
		Assigned:        OnRouteToVendor,
		OnRouteToVendor: ArrivedAtVendor,
		ArrivedAtVendor: PickedUp,
		PickedUp:        OutForDelivery,
		OutForDelivery:  Delivered,
	}
}

// CanTransition reports whether an actor with the given role and ownership may
// move an order from current to requested. Pure and deterministic; no I/O.
func CanTransition(current, requested Status, role Role, own Ownership) bool {
	return CheckTransition(current, requested, role, own) == nil
}

// CheckTransition validates a requested status transition and returns nil when
// it is permitted. On rejection the error names the specific rule violated so
// callers can surface it unchanged.
func CheckTransition(current, requested Status, role Role, own Ownership) error {
	if err := current.Validate(); err != nil {
		return err
	}
	if err := requested.Validate(); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}

	if current.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("transition",
			fmt.Errorf("%s is terminal and immutable", current))
	}

	if requested == Cancelled {
		return checkCancellation(role, own)
	}

	if !requested.isForwardOf(current) {
		return errs.NewValueIsInvalidErrorWithCause("transition",
			fmt.Errorf("%s to %s does not move forward in the delivery sequence", current, requested))
	}

	switch role {
	case RoleAdmin:
		return nil
	case RoleVendor:
		return checkOwnedEdge(current, requested, own.IsOrderVendor, vendorEdges(),
			"vendors may only move Confirmed, Preparing and Ready stages of their own orders")
	case RoleDriver:
		return checkOwnedEdge(current, requested, own.IsOrderDriver, driverEdges(),
			"drivers may only advance fulfillment stages of the order they hold")
	case RoleCustomer, RoleUnknown:
		return errs.NewValueIsInvalidErrorWithCause("transition",
			fmt.Errorf("role %s may not change order status", role))
	default:
		return errs.NewValueIsInvalidErrorWithCause("transition",
			fmt.Errorf("role %s may not change order status", role))
	}
}

// checkCancellation enforces who may cancel: the owning vendor, the owning
// driver, or an admin.
func checkCancellation(role Role, own Ownership) error {
	switch {
	case role == RoleAdmin:
		return nil
	case role == RoleVendor && own.IsOrderVendor:
		return nil
	case role == RoleDriver && own.IsOrderDriver:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("transition",
		fmt.Errorf("role %s may not cancel this order", role))
}

// checkOwnedEdge validates a single-step edge from the given role table,
// requiring ownership of the order.
func checkOwnedEdge(current, requested Status, owns bool, edges map[Status]Status, rule string) error {
	if !owns {
		return errs.NewValueIsInvalidErrorWithCause("transition",
			fmt.Errorf("actor does not own this order"))
	}
	if next, ok := edges[current]; !ok || next != requested {
		return errs.NewValueIsInvalidErrorWithCause("transition",
			fmt.Errorf("%s to %s: %s", current, requested, rule))
	}
	return nil
}
