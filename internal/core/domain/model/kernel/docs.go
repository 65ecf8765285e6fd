// Package kernel contains shared value objects used across domain aggregates:
// identifiers and monetary amounts. Value objects in this package are
// immutable and validate themselves; the zero value of each type is invalid
// and must be created through the provided constructors.
package kernel
