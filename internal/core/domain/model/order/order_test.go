package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReadyOrder(t *testing.T) *order.Order {
	t.Helper()

	total, err := kernel.NewMoney(2500, "USD")
	require.NoError(t, err)

	o, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		order.SelfFleet, order.Ready, nil, total,
		time.Now().Add(-time.Hour), time.Now().Add(-time.Minute),
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order without driver", func(t *testing.T) {
		now := time.Now()
		total, _ := kernel.NewMoney(1000, "USD")

		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.SelfFleet, total, now)

		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Driver())
		assert.Equal(t, now, o.CreatedAt())
		require.NoError(t, o.Validate())
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		var missing kernel.UUID

		_, err := order.NewOrder(missing, kernel.NewUUID(), kernel.NewUUID(),
			order.SelfFleet, kernel.Money{}, time.Now())

		require.Error(t, err)
	})

	t.Run("rejects unknown delivery method", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.MethodUnknown, kernel.Money{}, time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("enforces driver presence for driver-linked statuses", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.SelfFleet, order.Assigned, nil, kernel.Money{}, time.Now(), time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("enforces driver absence before assignment", func(t *testing.T) {
		driverID := kernel.NewUUID()

		_, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.SelfFleet, order.Ready, &driverID, kernel.Money{}, time.Now(), time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("restores delivered order with its driver", func(t *testing.T) {
		driverID := kernel.NewUUID()

		o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.SelfFleet, order.Delivered, &driverID, kernel.Money{}, time.Now(), time.Now())

		require.NoError(t, err)
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(driverID))
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("zero value is rejected", func(t *testing.T) {
		var o order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("nil is rejected", func(t *testing.T) {
		var o *order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_AssignDriver(t *testing.T) {
	t.Run("assigns ready unassigned order", func(t *testing.T) {
		o := newReadyOrder(t)
		driverID := kernel.NewUUID()
		now := time.Now()

		err := o.AssignDriver(driverID, now)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(driverID))
		assert.Equal(t, now, o.UpdatedAt())
	})

	t.Run("conflicts when already assigned", func(t *testing.T) {
		o := newReadyOrder(t)
		require.NoError(t, o.AssignDriver(kernel.NewUUID(), time.Now()))

		err := o.AssignDriver(kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("conflicts when not ready", func(t *testing.T) {
		total, _ := kernel.NewMoney(100, "USD")
		o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.SelfFleet, order.Preparing, nil, total, time.Now(), time.Now())
		require.NoError(t, err)

		require.ErrorIs(t, o.AssignDriver(kernel.NewUUID(), time.Now()), errs.ErrConflict)
	})

	t.Run("conflicts for third-party carrier orders", func(t *testing.T) {
		o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.ThirdPartyCarrier, order.Ready, nil, kernel.Money{}, time.Now(), time.Now())
		require.NoError(t, err)

		require.ErrorIs(t, o.AssignDriver(kernel.NewUUID(), time.Now()), errs.ErrConflict)
	})
}

func TestOrder_Release(t *testing.T) {
	t.Run("releases back to ready for the owning driver", func(t *testing.T) {
		o := newReadyOrder(t)
		driverID := kernel.NewUUID()
		require.NoError(t, o.AssignDriver(driverID, time.Now()))

		err := o.Release(driverID, time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Ready, o.Status())
		assert.Nil(t, o.Driver())
	})

	t.Run("never releases another driver's order", func(t *testing.T) {
		o := newReadyOrder(t)
		owner := kernel.NewUUID()
		require.NoError(t, o.AssignDriver(owner, time.Now()))

		err := o.Release(kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(owner))
	})
}

func TestOrder_AdvanceTo(t *testing.T) {
	t.Run("vendor advances own preparation stage", func(t *testing.T) {
		total, _ := kernel.NewMoney(100, "USD")
		o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.SelfFleet, order.Confirmed, nil, total, time.Now(), time.Now())
		require.NoError(t, err)

		err = o.AdvanceTo(order.Preparing, order.RoleVendor,
			order.Ownership{IsOrderVendor: true}, time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Preparing, o.Status())
	})

	t.Run("cancellation clears the driver link", func(t *testing.T) {
		o := newReadyOrder(t)
		require.NoError(t, o.AssignDriver(kernel.NewUUID(), time.Now()))

		err := o.AdvanceTo(order.Cancelled, order.RoleAdmin, order.Ownership{}, time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.Driver())
	})

	t.Run("rejected transition leaves the order unchanged", func(t *testing.T) {
		o := newReadyOrder(t)

		err := o.AdvanceTo(order.Pending, order.RoleAdmin, order.Ownership{}, time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Ready, o.Status())
	})
}
