package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RejectOrderCommandHandler releases an assigned order back to the pool.
//
// The release is conditioned on the rejecting driver still holding the
// order, so a driver working from a stale view can never unassign somebody
// else's order. The driver's own status restore is conditioned on it still
// being OnDelivery: a status the driver changed through another path in the
// meantime is not clobbered.
type RejectOrderCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

// NewRejectOrderCommandHandler creates a handler for driver reject requests.
func NewRejectOrderCommandHandler(uowFactory UoWFactory, logger *slog.Logger) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "reject_order_handler"),
		now:        time.Now,
	}
}

// Handle records the rejection audit entry and conditionally releases the
// order. Audit entry and release commit together: an audit row is only
// written for a release that actually happened.
func (h RejectOrderCommandHandler) Handle(ctx context.Context, command RejectOrderCommand) error {
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

	record := ports.RejectionRecord{
		OrderID:    command.OrderID(),
		DriverID:   command.DriverID(),
		Reason:     command.Reason(),
		RecordedAt: h.now(),
	}
	if err := uow.AuditRepository().RecordRejection(ctx, record); err != nil {
		return err
	}

	if err := uow.OrderRepository().ReleaseDriver(ctx, command.OrderID(), command.DriverID()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.restoreDriverAvailable(ctx, command)
	return nil
}

// restoreDriverAvailable is the best-effort second write. A conflict here
// means the driver already moved on (went offline, took another order) and
// is deliberately left alone.
func (h RejectOrderCommandHandler) restoreDriverAvailable(ctx context.Context, command RejectOrderCommand) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.WarnContext(ctx, "driver restore skipped, release stands",
			"driver_id", command.DriverID().String(),
			"error", err,
		)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := uow.DriverRepository().RestoreAvailable(ctx, command.DriverID())
	if err == nil {
		err = uow.Commit(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "driver restore failed, release stands",
				"driver_id", command.DriverID().String(),
				"error", err,
			)
		}
		return
	}

	if errors.Is(err, errs.ErrConflict) {
		h.logger.DebugContext(ctx, "driver status changed through another path, not clobbered",
			"driver_id", command.DriverID().String(),
		)
		return
	}

	h.logger.WarnContext(ctx, "driver restore failed, release stands",
		"driver_id", command.DriverID().String(),
		"error", err,
	)
}
