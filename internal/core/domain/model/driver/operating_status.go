package driver

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// OperatingStatus is the driver's own availability, independent of any one
// order: whether the driver is on shift and free, busy with a delivery, or
// off shift.
type OperatingStatus int

const (
	// OperatingUnknown represents an invalid or undefined operating status.
	OperatingUnknown OperatingStatus = iota

	// Available means the driver is on shift and may accept an order.
	Available

	// OnDelivery means the driver currently holds an order.
	OnDelivery

	// Offline means the driver is off shift.
	Offline
)

func getOperatingStatusStrings() map[OperatingStatus]string {
	return map[OperatingStatus]string{
		OperatingUnknown: "Unknown",
		Available:        "Available",
		OnDelivery:       "OnDelivery",
		Offline:          "Offline",
	}
}

// OperatingStatusFromString parses an operating status name as stored in the
// database.
func OperatingStatusFromString(s string) (OperatingStatus, error) {
	for status, name := range getOperatingStatusStrings() {
		if name == s && status != OperatingUnknown {
			return status, nil
		}
	}
	return OperatingUnknown, errs.NewValueIsInvalidErrorWithCause("operatingStatus",
		fmt.Errorf("%q is not a valid operating status", s))
}

// Validate checks whether the OperatingStatus value is defined.
func (s OperatingStatus) Validate() error {
	if s != Available && s != OnDelivery && s != Offline {
		return errs.NewValueIsInvalidErrorWithCause("operatingStatus",
			fmt.Errorf("%d is not a valid operating status", s))
	}
	return nil
}

// String returns the status name, or "Unknown" for invalid values.
func (s OperatingStatus) String() string {
	if str, ok := getOperatingStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
