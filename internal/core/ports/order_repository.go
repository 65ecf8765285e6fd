package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// The write methods express conditional updates: each one only applies when
// the row still matches the expected prior state, and reports
// errs.ConflictError when zero rows matched. No client-side locking exists;
// at-most-one assignment depends entirely on the store evaluating these
// predicates atomically.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// AssignDriver sets the driver and moves the order to Assigned, only if
	// the row still satisfies "status = Ready AND driver_id IS NULL".
	// Zero matched rows means another driver won the race: ConflictError.
	AssignDriver(ctx context.Context, orderID, driverID kernel.UUID) error

	// ReleaseDriver unassigns the order back to Ready, only if the row still
	// satisfies "driver_id = driverID". Zero matched rows means the caller's
	// view was stale: ConflictError, and somebody else's assignment is
	// never touched.
	ReleaseDriver(ctx context.Context, orderID, driverID kernel.UUID) error

	// UpdateStatus moves the order from the expected current status to the
	// requested one, only if the row still carries the expected status.
	// clearDriver additionally drops the driver link (cancellations).
	UpdateStatus(ctx context.Context, orderID kernel.UUID, current, requested order.Status, clearDriver bool) error

	// GetAllDriverLinked retrieves all orders in the driver-linked statuses
	// (Assigned through OutForDelivery). The repair pass reads these to
	// detect drivers disagreeing with the order rows.
	GetAllDriverLinked(ctx context.Context) ([]*order.Order, error)
}
