package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// AdvanceStatusCommandHandler moves an order through its lifecycle. The
// transition table is the single authority on what moves are legal; the
// write itself is conditioned on the status the decision was made against,
// so a concurrent change turns into a conflict instead of a lost update.
type AdvanceStatusCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

// NewAdvanceStatusCommandHandler creates a handler for status transitions.
func NewAdvanceStatusCommandHandler(uowFactory UoWFactory, logger *slog.Logger) AdvanceStatusCommandHandler {
	return AdvanceStatusCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "advance_status_handler"),
		now:        time.Now,
	}
}

// Handle validates the transition against the order row, applies it
// conditionally, and mirrors driver-linked progress onto the driver's
// granular state best-effort.
func (h AdvanceStatusCommandHandler) Handle(ctx context.Context, command AdvanceStatusCommand) error {
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

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	own := order.Ownership{
		IsOrderVendor: o.VendorID().IsEqual(command.ActorID()),
		IsOrderDriver: o.Driver() != nil && o.Driver().IsEqual(command.ActorID()),
	}

	current := o.Status()
	holder := o.Driver()

	// Mutates the working copy first so the transition table and the
	// driver-clearing rule live in the aggregate, not here.
	if err = o.AdvanceTo(command.Requested(), command.Role(), own, h.now()); err != nil {
		return err
	}

	clearDriver := command.Requested() == order.Cancelled && holder != nil
	if err = ordersRepo.UpdateStatus(ctx, command.OrderID(), current, command.Requested(), clearDriver); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.mirrorDriverState(ctx, command.Requested(), holder)
	return nil
}

// mirrorDriverState updates the driver's state after the order write
// committed: terminal statuses end the driver's delivery, reached
// fulfillment stages are mirrored onto the granular status. Best-effort;
// the repair pass fixes whatever is lost here.
func (h AdvanceStatusCommandHandler) mirrorDriverState(ctx context.Context, reached order.Status, holder *kernel.UUID) {
	if holder == nil {
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.WarnContext(ctx, "driver state mirror skipped",
			"driver_id", holder.String(), "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driversRepo := uow.DriverRepository()

	var err error
	if reached.IsTerminal() {
		err = driversRepo.RestoreAvailable(ctx, *holder)
		if errors.Is(err, errs.ErrConflict) {
			// Driver already changed status through another path.
			err = nil
		}
	} else {
		driverState, getErr := driversRepo.Get(ctx, *holder)
		if getErr != nil {
			err = getErr
		} else if err = driverState.AdvanceGranular(reached, h.now()); err == nil {
			err = driversRepo.Save(ctx, driverState)
		}
	}

	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "driver state mirror failed, order status stands",
			"driver_id", holder.String(), "reached", reached.String(), "error", err)
	}
}
