// Package application exposes the single façade external adapters call.
// It owns no business rules: commands and queries do the work, the façade
// routes to them and applies the retry policy to remote writes.
package application

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/retry"
)

// Handler interfaces the façade routes to. Declared here so the façade can
// be exercised without real handlers behind it.
type (
	AcceptOrderHandler interface {
		Handle(ctx context.Context, command commands.AcceptOrderCommand) error
	}

	RejectOrderHandler interface {
		Handle(ctx context.Context, command commands.RejectOrderCommand) error
	}

	AdvanceStatusHandler interface {
		Handle(ctx context.Context, command commands.AdvanceStatusCommand) error
	}

	RecordArrivalHandler interface {
		Handle(ctx context.Context, command commands.RecordArrivalCommand) error
	}

	StreamOrdersHandler interface {
		Handle(ctx context.Context, query queries.StreamOrdersQuery) (<-chan queries.OrderSnapshot, error)
	}

	OrderHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) (queries.GetOrderHistoryQueryResponse, error)
	}

	DriverEarningsHandler interface {
		Handle(ctx context.Context, query queries.GetDriverEarningsQuery) (queries.GetDriverEarningsQueryResponse, error)
	}
)

// OrderLifecycleService is the lifecycle API: status transitions,
// driver assignment, streams and offline-capable reads.
//
// Writes run under the retry policy. The conditional-update protocol makes
// them idempotent, and the policy classifies conflicts as fatal, so a lost
// race is never re-fought by a retry.
//
// Reads carry their caching policy in the query handler, not here:
// DriverEarnings is remote-first and falls back to the offline cache on
// transport failure (earnings query handler), while OrderHistory serves the
// cached page only when the caller opts into offline mode (history query
// handler).
type OrderLifecycleService struct {
	acceptOrder    AcceptOrderHandler
	rejectOrder    RejectOrderHandler
	advanceStatus  AdvanceStatusHandler
	recordArrival  RecordArrivalHandler
	streamOrders   StreamOrdersHandler
	orderHistory   OrderHistoryHandler
	driverEarnings DriverEarningsHandler
	policy         *retry.Policy
}

// NewOrderLifecycleService wires the façade. All dependencies are explicit;
// the composition root is the only place this is constructed.
func NewOrderLifecycleService(
	acceptOrder AcceptOrderHandler,
	rejectOrder RejectOrderHandler,
	advanceStatus AdvanceStatusHandler,
	recordArrival RecordArrivalHandler,
	streamOrders StreamOrdersHandler,
	orderHistory OrderHistoryHandler,
	driverEarnings DriverEarningsHandler,
	policy *retry.Policy,
) *OrderLifecycleService {
	return &OrderLifecycleService{
		acceptOrder:    acceptOrder,
		rejectOrder:    rejectOrder,
		advanceStatus:  advanceStatus,
		recordArrival:  recordArrival,
		streamOrders:   streamOrders,
		orderHistory:   orderHistory,
		driverEarnings: driverEarnings,
		policy:         policy,
	}
}

// AcceptOrder assigns the order to the driver if it is still up for grabs.
func (s *OrderLifecycleService) AcceptOrder(ctx context.Context, orderID, driverID kernel.UUID) error {
	cmd, err := commands.NewAcceptOrderCommand(orderID, driverID)
	if err != nil {
		return err
	}
	return s.policy.Do(ctx, "accept_order", func(ctx context.Context) error {
		return s.acceptOrder.Handle(ctx, cmd)
	})
}

// RejectOrder hands an assigned order back to the pool, with an audit entry.
func (s *OrderLifecycleService) RejectOrder(ctx context.Context, orderID, driverID kernel.UUID, reason string) error {
	cmd, err := commands.NewRejectOrderCommand(orderID, driverID, reason)
	if err != nil {
		return err
	}
	return s.policy.Do(ctx, "reject_order", func(ctx context.Context) error {
		return s.rejectOrder.Handle(ctx, cmd)
	})
}

// AdvanceStatus moves an order forward through its lifecycle on behalf of
// the given actor.
func (s *OrderLifecycleService) AdvanceStatus(
	ctx context.Context,
	orderID kernel.UUID,
	requested order.Status,
	role order.Role,
	actorID kernel.UUID,
) error {
	cmd, err := commands.NewAdvanceStatusCommand(orderID, requested, role, actorID)
	if err != nil {
		return err
	}
	return s.policy.Do(ctx, "advance_status", func(ctx context.Context) error {
		return s.advanceStatus.Handle(ctx, cmd)
	})
}

// RecordArrival marks the driver as arrived at the customer without moving
// the order.
func (s *OrderLifecycleService) RecordArrival(ctx context.Context, orderID, driverID kernel.UUID) error {
	cmd, err := commands.NewRecordArrivalCommand(orderID, driverID)
	if err != nil {
		return err
	}
	return s.policy.Do(ctx, "record_arrival", func(ctx context.Context) error {
		return s.recordArrival.Handle(ctx, cmd)
	})
}

// StreamOrdersFor subscribes to the ordered snapshot sequence for a filter.
func (s *OrderLifecycleService) StreamOrdersFor(
	ctx context.Context,
	filter queries.OrderFilter,
) (<-chan queries.OrderSnapshot, error) {
	q, err := queries.NewStreamOrdersQuery(filter)
	if err != nil {
		return nil, err
	}
	return s.streamOrders.Handle(ctx, q)
}

// OrderHistory returns one page of finished orders.
func (s *OrderLifecycleService) OrderHistory(
	ctx context.Context,
	filter queries.OrderFilter,
	limit, offset int,
	offline bool,
) (queries.GetOrderHistoryQueryResponse, error) {
	q, err := queries.NewGetOrderHistoryQuery(filter, limit, offset, offline)
	if err != nil {
		return queries.GetOrderHistoryQueryResponse{}, err
	}
	return s.orderHistory.Handle(ctx, q)
}

// DriverEarnings returns the driver's earnings summary for a period.
func (s *OrderLifecycleService) DriverEarnings(
	ctx context.Context,
	driverID kernel.UUID,
	from, to time.Time,
) (queries.GetDriverEarningsQueryResponse, error) {
	q, err := queries.NewGetDriverEarningsQuery(driverID, from, to)
	if err != nil {
		return queries.GetDriverEarningsQueryResponse{}, err
	}
	return s.driverEarnings.Handle(ctx, q)
}
