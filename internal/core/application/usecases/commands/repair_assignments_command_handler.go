package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// RepairAssignmentsCommandHandler reconciles driver rows against order rows.
// Assignments commit in two steps and the second one, the driver status
// flip, is allowed to fail. This pass runs periodically and replays the
// missing flips in both directions:
//
//   - an in-flight order whose driver is not marked OnDelivery for it gets
//     the driver rewritten to hold the order;
//   - a driver marked OnDelivery for an order that finished, or that is now
//     held by someone else, is restored to Available.
//
// Each fix is its own transaction so one contested row cannot starve the
// rest of the pass.
type RepairAssignmentsCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

// NewRepairAssignmentsCommandHandler creates a handler for repair passes.
func NewRepairAssignmentsCommandHandler(uowFactory UoWFactory, logger *slog.Logger) RepairAssignmentsCommandHandler {
	return RepairAssignmentsCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "repair_assignments_handler"),
		now:        time.Now,
	}
}

// Handle runs one reconciliation pass. Conflicts on individual fixes mean a
// live writer got there first; those rows are current and are skipped.
func (h RepairAssignmentsCommandHandler) Handle(ctx context.Context, command RepairAssignmentsCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	inFlight, err := uow.OrderRepository().GetAllDriverLinked(ctx)
	if err != nil {
		_ = uow.Rollback(ctx)
		return err
	}

	onDelivery, err := uow.DriverRepository().GetAllOnDelivery(ctx)
	if err != nil {
		_ = uow.Rollback(ctx)
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// Orders are authoritative: build the order -> driver view once.
	driverByOrder := make(map[kernel.UUID]kernel.UUID, len(inFlight))
	orderByDriver := make(map[kernel.UUID]kernel.UUID, len(inFlight))
	for _, o := range inFlight {
		if o.Driver() == nil || o.Status().IsTerminal() {
			continue
		}
		driverByOrder[o.ID()] = *o.Driver()
		orderByDriver[*o.Driver()] = o.ID()
	}

	repaired := 0
	for _, d := range onDelivery {
		if h.repairStaleDriver(ctx, d, orderByDriver) {
			repaired++
		}
	}
	for orderID, driverID := range driverByOrder {
		if h.repairMissingFlip(ctx, orderID, driverID, onDelivery) {
			repaired++
		}
	}

	if repaired > 0 {
		h.logger.InfoContext(ctx, "assignment repair pass finished",
			"in_flight_orders", len(inFlight),
			"on_delivery_drivers", len(onDelivery),
			"repaired", repaired,
		)
	}
	return nil
}

// repairStaleDriver restores a driver to Available when no in-flight order
// holds them, or when the order they think they hold moved to another
// driver. Reports whether a fix was applied.
func (h RepairAssignmentsCommandHandler) repairStaleDriver(
	ctx context.Context, d *driver.DeliveryState, orderByDriver map[kernel.UUID]kernel.UUID,
) bool {
	heldOrder, stillAssigned := orderByDriver[d.DriverID()]
	if stillAssigned && d.CurrentOrder() != nil && d.CurrentOrder().IsEqual(heldOrder) {
		return false
	}
	if stillAssigned {
		// The driver holds an in-flight order but tracks the wrong one;
		// the missing-flip fix below rewrites the link.
		return false
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logWarn(ctx, "driver restore skipped", d.DriverID(), err)
		return false
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := uow.DriverRepository().RestoreAvailable(ctx, d.DriverID())
	if errors.Is(err, errs.ErrConflict) {
		// Changed since the snapshot; the next pass re-evaluates.
		return false
	}
	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		h.logWarn(ctx, "driver restore failed", d.DriverID(), err)
		return false
	}
	return true
}

// repairMissingFlip rewrites a driver whose row does not reflect the
// in-flight order assigned to them. Reports whether a fix was applied.
func (h RepairAssignmentsCommandHandler) repairMissingFlip(
	ctx context.Context, orderID, driverID kernel.UUID, onDelivery []*driver.DeliveryState,
) bool {
	for _, d := range onDelivery {
		if d.DriverID().IsEqual(driverID) && d.CurrentOrder() != nil && d.CurrentOrder().IsEqual(orderID) {
			return false
		}
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logWarn(ctx, "driver flip replay skipped", driverID, err)
		return false
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driversRepo := uow.DriverRepository()

	err := driversRepo.SetOnDelivery(ctx, driverID, orderID)
	if errors.Is(err, errs.ErrConflict) {
		// Not Available: the driver tracks some other delivery. Rewrite the
		// whole row, the order link is the truth here.
		d, getErr := driversRepo.Get(ctx, driverID)
		if getErr != nil {
			h.logWarn(ctx, "driver flip replay failed", driverID, getErr)
			return false
		}
		d.FinishDelivery(h.now())
		if err = d.BeginDelivery(orderID, h.now()); err == nil {
			err = driversRepo.Save(ctx, d)
		}
	}
	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		h.logWarn(ctx, "driver flip replay failed", driverID, err)
		return false
	}
	return true
}

func (h RepairAssignmentsCommandHandler) logWarn(ctx context.Context, msg string, driverID kernel.UUID, err error) {
	h.logger.WarnContext(ctx, msg, "driver_id", driverID.String(), "error", err)
}
