package ports

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver delivery
// state. The conditional methods mirror the two narrow remote procedures the
// backend exposes: atomic driver operating-status flips guarded by the
// current value.
type DriverRepository interface {
	// Add persists a new driver delivery state.
	Add(ctx context.Context, aggregate *driver.DeliveryState) error

	// Get retrieves a driver's delivery state.
	Get(ctx context.Context, driverID kernel.UUID) (*driver.DeliveryState, error)

	// Save persists the aggregate unconditionally. The repair pass uses it
	// to rewrite a driver whose state disagrees with the order rows.
	Save(ctx context.Context, aggregate *driver.DeliveryState) error

	// SetOnDelivery flips the driver to OnDelivery holding the given order,
	// only if the row still satisfies "operating_status = Available".
	// Zero matched rows is a ConflictError.
	SetOnDelivery(ctx context.Context, driverID, orderID kernel.UUID) error

	// RestoreAvailable flips the driver back to Available with the order
	// link and granular progress cleared, only if the row still satisfies
	// "operating_status = OnDelivery". Zero matched rows is a ConflictError:
	// the driver changed status through another path, and that status is
	// not clobbered.
	RestoreAvailable(ctx context.Context, driverID kernel.UUID) error

	// GetAllOnDelivery retrieves every driver currently marked OnDelivery.
	GetAllOnDelivery(ctx context.Context) ([]*driver.DeliveryState, error)
}
