package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordArrivalCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	orderID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	cmd, err := commands.NewRecordArrivalCommand(orderID, driverID)
	require.NoError(t, err)

	testOrder := assignedOrder(t, orderID, driverID, order.OutForDelivery)
	testDriver := onDeliveryDriver(t, driverID, orderID, driver.GranularOutForDelivery)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once(),
		driverRepo.On("Save", ctx, mock.AnythingOfType("*driver.DeliveryState")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRecordArrivalCommandHandler(factory, testLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	saved := driverRepo.Calls[1].Arguments[1].(*driver.DeliveryState)
	require.Equal(t, driver.GranularArrivedAtCustomer, saved.GranularStatus())

	// Arrival never moves the order itself.
	orderRepo.AssertNotCalled(t, "UpdateStatus",
		ctx, orderID, mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRecordArrivalCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.RecordArrivalCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewRecordArrivalCommandHandler(factory, testLogger())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrRecordArrivalCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestRecordArrivalCommandHandler_Handle_NotTheHoldingDriver(t *testing.T) {
	ctx := t.Context()

	orderID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	cmd, err := commands.NewRecordArrivalCommand(orderID, driverID)
	require.NoError(t, err)

	// Somebody else holds the order.
	testOrder := assignedOrder(t, orderID, kernel.NewUUID(), order.OutForDelivery)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRecordArrivalCommandHandler(factory, testLogger())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrAuth)
	driverRepo.AssertNotCalled(t, "Save", ctx, mock.Anything)
}

func TestRecordArrivalCommandHandler_Handle_OrderNotOutForDelivery(t *testing.T) {
	ctx := t.Context()

	orderID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	cmd, err := commands.NewRecordArrivalCommand(orderID, driverID)
	require.NoError(t, err)

	testOrder := assignedOrder(t, orderID, driverID, order.PickedUp)
	testDriver := onDeliveryDriver(t, driverID, orderID, driver.GranularPickedUp)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).Return(testOrder, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewRecordArrivalCommandHandler(factory, testLogger())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	driverRepo.AssertNotCalled(t, "Save", ctx, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}
