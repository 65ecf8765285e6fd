// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS split.
// Queries read the store directly and return flat read models; they never
// touch aggregates or repositories.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetDriverEarningsQueryIsNotConstructed = errors.New(
	"GetDriverEarningsQuery must be created via NewGetDriverEarningsQuery constructor",
)

// GetDriverEarningsQuery retrieves a driver's earnings summary over a period:
// the summed totals of the orders the driver delivered.
//
// Example:
//
//	q, err := NewGetDriverEarningsQuery(driverID, weekStart, weekEnd)
//	if err != nil {
//	    return err
//	}
//	summary, err := handler.Handle(ctx, q)
type GetDriverEarningsQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	from     time.Time
	to       time.Time

	guard guard.ConstructorGuard
}

// NewGetDriverEarningsQuery creates a validated earnings request for the
// half-open period [from, to).
func NewGetDriverEarningsQuery(driverID kernel.UUID, from, to time.Time) (GetDriverEarningsQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverEarningsQuery{}, err
	}
	if !to.After(from) {
		return GetDriverEarningsQuery{}, errs.NewValueIsInvalidError("period")
	}

	return GetDriverEarningsQuery{
		driverID: driverID,
		from:     from,
		to:       to,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDriverEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverEarningsQueryIsNotConstructed)
}

// DriverID returns the driver whose earnings are summarized.
func (q GetDriverEarningsQuery) DriverID() kernel.UUID {
	return q.driverID
}

// From returns the period start (inclusive).
func (q GetDriverEarningsQuery) From() time.Time {
	return q.from
}

// To returns the period end (exclusive).
func (q GetDriverEarningsQuery) To() time.Time {
	return q.to
}

// GetDriverEarningsQueryResponse is the earnings summary read model.
// FromCache marks a summary served from the offline cache after the live
// read failed; it may be stale.
type GetDriverEarningsQueryResponse struct {
	DriverID       kernel.UUID `json:"-"`
	TotalCents     int64       `json:"total_cents"`
	Currency       string      `json:"currency"`
	DeliveredCount int64       `json:"delivered_count"`
	From           time.Time   `json:"from"`
	To             time.Time   `json:"to"`
	FromCache      bool        `json:"-"`
}
