package driver

import (
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// GranularStatus is the driver-local sub-step of an active delivery. It is
// finer grained than order.Status: ArrivedAtCustomer exists only here and
// never causes an order status write.
type GranularStatus int

const (
	// GranularNone means no delivery is in progress.
	GranularNone GranularStatus = iota

	// GranularAssigned mirrors order.Assigned.
	GranularAssigned

	// GranularOnRouteToVendor mirrors order.OnRouteToVendor.
	GranularOnRouteToVendor

	// GranularArrivedAtVendor mirrors order.ArrivedAtVendor.
	GranularArrivedAtVendor

	// GranularPickedUp mirrors order.PickedUp.
	GranularPickedUp

	// GranularOutForDelivery mirrors order.OutForDelivery.
	GranularOutForDelivery

	// GranularArrivedAtCustomer is the driver-only sub-step with no
	// order.Status counterpart. It is recorded while the order stays
	// OutForDelivery.
	GranularArrivedAtCustomer
)

func getGranularStatusStrings() map[GranularStatus]string {
	return map[GranularStatus]string{
		GranularNone:              "None",
		GranularAssigned:          "Assigned",
		GranularOnRouteToVendor:   "OnRouteToVendor",
		GranularArrivedAtVendor:   "ArrivedAtVendor",
		GranularPickedUp:          "PickedUp",
		GranularOutForDelivery:    "OutForDelivery",
		GranularArrivedAtCustomer: "ArrivedAtCustomer",
	}
}

// granularByOrderStatus is the single bidirectional mapping between order
// statuses and their granular counterparts. ArrivedAtCustomer intentionally
// has no entry: it does not exist as an order status.
func granularByOrderStatus() map[order.Status]GranularStatus {
	return map[order.Status]GranularStatus{
		order.Assigned:        GranularAssigned,
		order.OnRouteToVendor: GranularOnRouteToVendor,
		order.ArrivedAtVendor: GranularArrivedAtVendor,
		order.PickedUp:        GranularPickedUp,
		order.OutForDelivery:  GranularOutForDelivery,
	}
}

// GranularStatusFromString parses a granular status name as stored in the
// database.
func GranularStatusFromString(s string) (GranularStatus, error) {
	for granular, name := range getGranularStatusStrings() {
		if name == s {
			return granular, nil
		}
	}
	return GranularNone, errs.NewValueIsInvalidErrorWithCause("granularStatus",
		fmt.Errorf("%q is not a valid granular status", s))
}

// GranularFromOrderStatus maps a driver-linked order status onto its granular
// counterpart. Statuses outside the fulfillment stages have no counterpart
// and are rejected.
func GranularFromOrderStatus(s order.Status) (GranularStatus, error) {
	if g, ok := granularByOrderStatus()[s]; ok {
		return g, nil
	}
	return GranularNone, errs.NewValueIsInvalidErrorWithCause("granularStatus",
		fmt.Errorf("order status %s has no granular counterpart", s))
}

// OrderStatus maps a granular status back onto the order status it mirrors.
// GranularArrivedAtCustomer maps to OutForDelivery: arrival at the customer
// does not move the order. GranularNone has no counterpart.
func (g GranularStatus) OrderStatus() (order.Status, error) {
	if g == GranularArrivedAtCustomer {
		return order.OutForDelivery, nil
	}
	for status, granular := range granularByOrderStatus() {
		if granular == g {
			return status, nil
		}
	}
	return order.Unknown, errs.NewValueIsInvalidErrorWithCause("granularStatus",
		fmt.Errorf("%s has no order status counterpart", g))
}

// Validate checks whether the GranularStatus value is defined.
// GranularNone is valid: it is the cleared state.
func (g GranularStatus) Validate() error {
	if _, ok := getGranularStatusStrings()[g]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("granularStatus",
			fmt.Errorf("%d is not a valid granular status", g))
	}
	return nil
}

// String returns the granular status name, or "None" for invalid values.
func (g GranularStatus) String() string {
	if str, ok := getGranularStatusStrings()[g]; ok {
		return str
	}
	return "None"
}
