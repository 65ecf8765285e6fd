package queries_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStreamOrdersQuery(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		q, err := queries.NewStreamOrdersQuery(queries.OrderFilter{})

		require.NoError(t, err)
		require.NoError(t, q.Validate())
	})

	t.Run("scoped filter", func(t *testing.T) {
		driverID := kernel.NewUUID()
		q, err := queries.NewStreamOrdersQuery(queries.OrderFilter{
			DriverID: &driverID,
			Statuses: []order.Status{order.Assigned, order.OutForDelivery},
		})

		require.NoError(t, err)
		require.NotNil(t, q.Filter().DriverID)
		assert.True(t, q.Filter().DriverID.IsEqual(driverID))
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := queries.NewStreamOrdersQuery(queries.OrderFilter{
			Statuses: []order.Status{order.Status(99)},
		})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unconstructed query rejected", func(t *testing.T) {
		var q queries.StreamOrdersQuery

		require.ErrorIs(t, q.Validate(), queries.ErrStreamOrdersQueryIsNotConstructed)
	})
}

func TestNewGetOrderHistoryQuery(t *testing.T) {
	t.Run("zero limit gets default page size", func(t *testing.T) {
		q, err := queries.NewGetOrderHistoryQuery(queries.OrderFilter{}, 0, 0, false)

		require.NoError(t, err)
		assert.Equal(t, 20, q.Limit())
	})

	t.Run("negative offset rejected", func(t *testing.T) {
		_, err := queries.NewGetOrderHistoryQuery(queries.OrderFilter{}, 10, -1, false)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("oversized limit rejected", func(t *testing.T) {
		_, err := queries.NewGetOrderHistoryQuery(queries.OrderFilter{}, 101, 0, false)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("offline flag carried", func(t *testing.T) {
		q, err := queries.NewGetOrderHistoryQuery(queries.OrderFilter{}, 10, 0, true)

		require.NoError(t, err)
		assert.True(t, q.Offline())
	})
}

func TestNewGetDriverEarningsQuery(t *testing.T) {
	driverID := kernel.NewUUID()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	t.Run("valid period", func(t *testing.T) {
		q, err := queries.NewGetDriverEarningsQuery(driverID, from, to)

		require.NoError(t, err)
		assert.True(t, q.DriverID().IsEqual(driverID))
		assert.Equal(t, from, q.From())
		assert.Equal(t, to, q.To())
	})

	t.Run("empty period rejected", func(t *testing.T) {
		_, err := queries.NewGetDriverEarningsQuery(driverID, from, from)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("inverted period rejected", func(t *testing.T) {
		_, err := queries.NewGetDriverEarningsQuery(driverID, to, from)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unconstructed id rejected", func(t *testing.T) {
		_, err := queries.NewGetDriverEarningsQuery(kernel.UUID{}, from, to)

		require.Error(t, err)
	})
}
