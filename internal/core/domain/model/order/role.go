package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Role identifies the kind of actor requesting a status transition.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer placed the order. Customers do not move order status.
	RoleCustomer

	// RoleVendor prepares the order and owns the preparation stages.
	RoleVendor

	// RoleDriver fulfills the order and owns the post-assignment stages.
	RoleDriver

	// RoleAdmin is back-office staff with full transition rights.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "Unknown",
		RoleCustomer: "Customer",
		RoleVendor:   "Vendor",
		RoleDriver:   "Driver",
		RoleAdmin:    "Admin",
	}
}

// RoleFromString parses a role name as received from external callers.
func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate checks whether the Role value is one of the defined roles.
func (r Role) Validate() error {
	if r == RoleUnknown {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the role name, or "Unknown" for invalid values.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "Unknown"
}

// Ownership records the relationship between the acting party and the order.
// Role alone is not enough: a vendor may only move its own orders, a driver
// only the order it currently holds.
type Ownership struct {
	// IsOrderVendor is true when the actor is the order's vendor.
	IsOrderVendor bool
	// IsOrderDriver is true when the actor is the order's assigned driver.
	IsOrderDriver bool
}
