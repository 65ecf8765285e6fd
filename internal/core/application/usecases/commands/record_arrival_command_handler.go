package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/pkg/errs"
)

// RecordArrivalCommandHandler marks a driver as arrived at the customer.
// Unlike a status transition this writes only the driver row; the order
// stays OutForDelivery until the driver completes the handoff.
type RecordArrivalCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

// NewRecordArrivalCommandHandler creates a handler for arrival reports.
func NewRecordArrivalCommandHandler(uowFactory UoWFactory, logger *slog.Logger) RecordArrivalCommandHandler {
	return RecordArrivalCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "record_arrival_handler"),
		now:        time.Now,
	}
}

// Handle processes the arrival report. The order is read to verify the
// reporting driver still holds it and that it is in the stage where arrival
// makes sense; the aggregate enforces the latter.
func (h RecordArrivalCommandHandler) Handle(ctx context.Context, command RecordArrivalCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if o.Driver() == nil || !o.Driver().IsEqual(command.DriverID()) {
		return errs.NewAuthErrorWithCause("arrival",
			fmt.Errorf("driver %s does not hold order %s", command.DriverID(), command.OrderID()))
	}

	driversRepo := uow.DriverRepository()

	d, err := driversRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	if err = d.RecordArrivalAtCustomer(o.Status(), h.now()); err != nil {
		return err
	}

	if err = driversRepo.Save(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
