package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine with a strict forward sequence; Cancelled is reachable from any
// non-terminal state.
//
// State sequence:
//
//	Pending → Confirmed → Preparing → Ready → Assigned → OnRouteToVendor
//	        → ArrivedAtVendor → PickedUp → OutForDelivery → Delivered
//
//	Cancelled ← any non-terminal state
//
// Delivered and Cancelled are terminal: no transition leaves them.
//
// The driver-side "arrived at customer" sub-step is deliberately absent from
// this enum. It is tracked on driver.DeliveryState only and never changes the
// order's own status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a freshly placed order,
	// awaiting vendor acknowledgement.
	Pending

	// Confirmed indicates the vendor has acknowledged the order.
	Confirmed

	// Preparing indicates the vendor is preparing the order.
	Preparing

	// Ready indicates the order awaits driver assignment.
	// Only Ready orders with no driver can be accepted.
	Ready

	// Assigned indicates exactly one driver holds the order.
	Assigned

	// OnRouteToVendor indicates the driver is heading to the vendor.
	OnRouteToVendor

	// ArrivedAtVendor indicates the driver has reached the vendor.
	ArrivedAtVendor

	// PickedUp indicates the driver has collected the order.
	PickedUp

	// OutForDelivery indicates the driver is heading to the customer.
	OutForDelivery

	// Delivered is the terminal success status.
	Delivered

	// Cancelled is the terminal abort status, reachable from any
	// non-terminal state.
	Cancelled
)

// getStatusStrings returns the string representation of every Status value,
// including Unknown, to support display of invalid data.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "Unknown",
		Pending:         "Pending",
		Confirmed:       "Confirmed",
		Preparing:       "Preparing",
		Ready:           "Ready",
		Assigned:        "Assigned",
		OnRouteToVendor: "OnRouteToVendor",
		ArrivedAtVendor: "ArrivedAtVendor",
		PickedUp:        "PickedUp",
		OutForDelivery:  "OutForDelivery",
		Delivered:       "Delivered",
		Cancelled:       "Cancelled",
	}
}

// getValidStatusStrings returns only the valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:         "Pending",
		Confirmed:       "Confirmed",
		Preparing:       "Preparing",
		Ready:           "Ready",
		Assigned:        "Assigned",
		OnRouteToVendor: "OnRouteToVendor",
		ArrivedAtVendor: "ArrivedAtVendor",
		PickedUp:        "PickedUp",
		OutForDelivery:  "OutForDelivery",
		Delivered:       "Delivered",
		Cancelled:       "Cancelled",
	}
}

// StatusFromString parses a status name as it appears on the wire and in the
// database. This is the single place status strings are translated; callers
// must not switch on raw strings.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks whether the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the status name, or "Unknown" for invalid values.
// Implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition may leave this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// isForwardOf reports whether s comes strictly later in the delivery sequence
// than other. Cancelled does not participate in the sequence.
func (s Status) isForwardOf(other Status) bool {
	if s == Cancelled || other == Cancelled {
		return false
	}
	return s > other
}

// next returns the immediate successor in the delivery sequence, or Unknown
// when there is none.
func (s Status) next() Status {
	if s == Unknown || s.IsTerminal() || s == Cancelled {
		return Unknown
	}
	return s + 1
}
