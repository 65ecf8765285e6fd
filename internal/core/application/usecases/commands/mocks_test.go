package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) AssignDriver(ctx context.Context, orderID, driverID kernel.UUID) error {
	args := m.Called(ctx, orderID, driverID)
	return args.Error(0)
}

func (m *MockOrderRepository) ReleaseDriver(ctx context.Context, orderID, driverID kernel.UUID) error {
	args := m.Called(ctx, orderID, driverID)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(
	ctx context.Context, orderID kernel.UUID, current, requested order.Status, clearDriver bool,
) error {
	args := m.Called(ctx, orderID, current, requested, clearDriver)
	return args.Error(0)
}

func (m *MockOrderRepository) GetAllDriverLinked(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.DeliveryState) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, driverID kernel.UUID) (*driver.DeliveryState, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.DeliveryState), args.Error(1)
}

func (m *MockDriverRepository) Save(ctx context.Context, d *driver.DeliveryState) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) SetOnDelivery(ctx context.Context, driverID, orderID kernel.UUID) error {
	args := m.Called(ctx, driverID, orderID)
	return args.Error(0)
}

func (m *MockDriverRepository) RestoreAvailable(ctx context.Context, driverID kernel.UUID) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

func (m *MockDriverRepository) GetAllOnDelivery(ctx context.Context) ([]*driver.DeliveryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.DeliveryState), args.Error(1)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) RecordRejection(ctx context.Context, record ports.RejectionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testMoney(t *testing.T) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(2599, "USD")
	require.NoError(t, err)
	return m
}

// readyOrder builds an unassigned self-fleet order sitting in Ready status,
// the only state a driver can accept from.
func readyOrder(t *testing.T, orderID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		orderID, kernel.NewUUID(), kernel.NewUUID(),
		order.SelfFleet, order.Ready, nil, testMoney(t),
		time.Now().Add(-time.Hour), time.Now(),
	)
	require.NoError(t, err)
	return o
}

// assignedOrder builds an order held by the given driver in the given status.
func assignedOrder(t *testing.T, orderID, driverID kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		orderID, kernel.NewUUID(), kernel.NewUUID(),
		order.SelfFleet, status, &driverID, testMoney(t),
		time.Now().Add(-time.Hour), time.Now(),
	)
	require.NoError(t, err)
	return o
}

func availableDriver(t *testing.T, driverID kernel.UUID) *driver.DeliveryState {
	t.Helper()
	d, err := driver.NewDeliveryState(driverID, time.Now())
	require.NoError(t, err)
	return d
}

func onDeliveryDriver(t *testing.T, driverID, orderID kernel.UUID, granular driver.GranularStatus) *driver.DeliveryState {
	t.Helper()
	d, err := driver.RestoreDeliveryState(driverID, &orderID, driver.OnDelivery, granular, time.Now())
	require.NoError(t, err)
	return d
}
