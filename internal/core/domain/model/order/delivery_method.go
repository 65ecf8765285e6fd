package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// DeliveryMethod describes which fleet fulfills an order. The in-process
// assignment protocol only ever hands out SelfFleet orders; third-party
// carrier orders are dispatched by the external carrier and pass through this
// module read-only.
type DeliveryMethod int

const (
	// MethodUnknown represents an invalid or undefined delivery method.
	MethodUnknown DeliveryMethod = iota

	// SelfFleet orders are fulfilled by the platform's own drivers.
	SelfFleet

	// ThirdPartyCarrier orders are fulfilled by an external carrier.
	ThirdPartyCarrier
)

func getDeliveryMethodStrings() map[DeliveryMethod]string {
	return map[DeliveryMethod]string{
		MethodUnknown:     "Unknown",
		SelfFleet:         "SelfFleet",
		ThirdPartyCarrier: "ThirdPartyCarrier",
	}
}

// DeliveryMethodFromString parses a delivery method name as stored in the
// database.
func DeliveryMethodFromString(s string) (DeliveryMethod, error) {
	for method, name := range getDeliveryMethodStrings() {
		if name == s && method != MethodUnknown {
			return method, nil
		}
	}
	return MethodUnknown, errs.NewValueIsInvalidErrorWithCause("deliveryMethod",
		fmt.Errorf("%q is not a valid delivery method", s))
}

// Validate checks whether the DeliveryMethod value is defined.
func (m DeliveryMethod) Validate() error {
	if m != SelfFleet && m != ThirdPartyCarrier {
		return errs.NewValueIsInvalidErrorWithCause("deliveryMethod",
			fmt.Errorf("%d is not a valid delivery method", m))
	}
	return nil
}

// String returns the method name, or "Unknown" for invalid values.
func (m DeliveryMethod) String() string {
	if str, ok := getDeliveryMethodStrings()[m]; ok {
		return str
	}
	return "Unknown"
}
