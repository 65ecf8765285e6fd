package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/services"
)

// AcceptOrderCommandHandler executes the conflict-safe driver-assignment
// protocol. The order row is the authoritative side of an assignment: the
// conditional write on it decides the race, and the driver's own status flip
// is best-effort. A lost driver write is logged and later repaired by the
// reconciliation pass; it never undoes the assignment.
type AcceptOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AssignmentPolicy
	logger     *slog.Logger
}

// NewAcceptOrderCommandHandler creates a handler for driver accept requests.
func NewAcceptOrderCommandHandler(uowFactory UoWFactory, logger *slog.Logger) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAssignmentPolicy(),
		logger:     logger.With("component", "accept_order_handler"),
	}
}

// Handle processes the accept request.
//
// Precondition failures surface as ValidationError, a lost race as
// ConflictError; neither is retried here. The conditional predicate
// "status = Ready AND driver_id IS NULL" is evaluated atomically by the
// store, so two concurrent accepts for the same order produce exactly one
// success and one conflict.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, command AcceptOrderCommand) error {
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
	driversRepo := uow.DriverRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	d, err := driversRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	if err = h.policy.CanAccept(o, d); err != nil {
		return err
	}

	// The race is decided here, not by the precondition read above.
	if err = ordersRepo.AssignDriver(ctx, command.OrderID(), command.DriverID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.flipDriverOnDelivery(ctx, command)
	return nil
}

// flipDriverOnDelivery performs the best-effort second write after the
// assignment committed. Ownership already belongs to the driver; a failure
// here leaves the driver row stale until the repair pass runs.
func (h AcceptOrderCommandHandler) flipDriverOnDelivery(ctx context.Context, command AcceptOrderCommand) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.WarnContext(ctx, "driver status flip skipped, assignment stands",
			"order_id", command.OrderID().String(),
			"driver_id", command.DriverID().String(),
			"error", err,
		)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := uow.DriverRepository().SetOnDelivery(ctx, command.DriverID(), command.OrderID())
	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "driver status flip failed, assignment stands",
			"order_id", command.OrderID().String(),
			"driver_id", command.DriverID().String(),
			"error", err,
		)
	}
}
