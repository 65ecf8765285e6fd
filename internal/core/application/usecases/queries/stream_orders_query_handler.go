package queries

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/retry"

	"gorm.io/gorm"
)

// StreamOrdersQueryHandler merges an initial filtered snapshot with the
// primary-key-scoped change feed into one ordered sequence of snapshots.
//
// The feed only says which ids changed, so every notification triggers a
// refetch of exactly those ids with the subscription's full filter re-applied
// on the store side. Ids that no longer match drop out of the held result
// set; matching rows replace their previous versions (last write wins per id
// within a batch). Consumers therefore always observe complete result sets,
// never deltas, with strictly increasing sequence numbers.
type StreamOrdersQueryHandler struct {
	db     *gorm.DB
	feed   ports.ChangeFeed
	policy *retry.Policy
	logger *slog.Logger
}

// NewStreamOrdersQueryHandler creates a handler for stream subscriptions.
func NewStreamOrdersQueryHandler(
	db *gorm.DB,
	feed ports.ChangeFeed,
	policy *retry.Policy,
	logger *slog.Logger,
) StreamOrdersQueryHandler {
	return StreamOrdersQueryHandler{
		db:     db,
		feed:   feed,
		policy: policy,
		logger: logger.With("component", "stream_orders_handler"),
	}
}

// Handle starts a subscription. The subscription to the change feed opens
// before the initial read so no change occurring during that read is lost.
// The returned channel closes when ctx ends; nothing is emitted afterwards.
func (h StreamOrdersQueryHandler) Handle(
	ctx context.Context,
	query StreamOrdersQuery,
) (<-chan OrderSnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	changes, err := h.feed.Subscribe(ctx, ports.OrdersChangedTopic)
	if err != nil {
		return nil, err
	}

	initial, err := retry.Value(ctx, h.policy, "orders_snapshot",
		func(ctx context.Context) ([]OrderProjection, error) {
			return h.fetch(ctx, query.Filter(), nil)
		})
	if err != nil {
		return nil, err
	}

	held := make(map[string]OrderProjection, len(initial))
	for _, p := range initial {
		held[p.OrderID.String()] = p
	}

	out := make(chan OrderSnapshot)
	go h.pump(ctx, query.Filter(), held, changes, out)
	return out, nil
}

// pump owns the held result set for one subscription and is its only writer.
func (h StreamOrdersQueryHandler) pump(
	ctx context.Context,
	filter OrderFilter,
	held map[string]OrderProjection,
	changes <-chan ports.Change,
	out chan<- OrderSnapshot,
) {
	defer close(out)

	seq := uint64(1)
	if !h.emit(ctx, out, seq, held) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}

			ids := dedupeIDs(change.IDs)
			if len(ids) == 0 && !change.Resync {
				continue
			}

			// A resync batch means the feed may have dropped notifications,
			// so the whole filtered result set is read again instead of
			// just the notified ids.
			fetchIDs := ids
			if change.Resync {
				fetchIDs = nil
			}

			refetched, err := h.fetch(ctx, filter, fetchIDs)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Keep serving the previous snapshot; the next
				// notification for these ids reconciles the view.
				h.logger.WarnContext(ctx, "refetch failed, snapshot unchanged",
					"ids", len(ids), "error", err)
				continue
			}
			if ctx.Err() != nil {
				// In-flight refetch raced teardown; discard it.
				return
			}

			// Every notified id is removed first: a row that fell out of
			// the filter, or was deleted, disappears from the result set.
			// A resync replaces the held set wholesale.
			if change.Resync {
				held = make(map[string]OrderProjection, len(refetched))
			} else {
				for _, id := range ids {
					delete(held, id.String())
				}
			}
			for _, p := range refetched {
				held[p.OrderID.String()] = p
			}

			seq++
			if !h.emit(ctx, out, seq, held) {
				return
			}
		}
	}
}

// emit sends one snapshot, reporting false when the subscription ended.
func (h StreamOrdersQueryHandler) emit(
	ctx context.Context,
	out chan<- OrderSnapshot,
	seq uint64,
	held map[string]OrderProjection,
) bool {
	orders := make([]OrderProjection, 0, len(held))
	for _, p := range held {
		orders = append(orders, p)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderID.String() < orders[j].OrderID.String()
	})

	select {
	case <-ctx.Done():
		return false
	case out <- OrderSnapshot{Seq: seq, Orders: orders}:
		return true
	}
}

// fetch reads the filtered projections, optionally restricted to an id batch.
// Corrupt rows are substituted per row; a fetch where every row is corrupt is
// indistinguishable from a broken store and fails as such.
func (h StreamOrdersQueryHandler) fetch(
	ctx context.Context,
	filter OrderFilter,
	ids []kernel.UUID,
) ([]OrderProjection, error) {
	tx := applyOrderFilter(h.db.WithContext(ctx).Table("orders"), filter)
	if len(ids) > 0 {
		tx = tx.Where("id IN ?", uuidStrings(ids))
	}

	rows := make([]orderRow, 0)
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errs.NewTransportError("orders_snapshot", err)
	}

	projections := make([]OrderProjection, 0, len(rows))
	corrupt := 0
	for _, row := range rows {
		p, err := projectionFromRow(row)
		if err != nil {
			h.logger.WarnContext(ctx, "undecodable order row skipped",
				"order_id", row.ID, "error", err)
			corrupt++
			continue
		}
		if p.AddressCorrupt {
			corrupt++
		}
		projections = append(projections, p)
	}

	if len(rows) > 0 && corrupt == len(rows) {
		return nil, errs.NewTransportError("orders_snapshot",
			fmt.Errorf("all %d rows in the batch are corrupt", len(rows)))
	}

	return projections, nil
}

// applyOrderFilter translates the filter into store-side predicates.
func applyOrderFilter(tx *gorm.DB, filter OrderFilter) *gorm.DB {
	if filter.DriverID != nil {
		tx = tx.Where("driver_id = ?", filter.DriverID.String())
	}
	if filter.VendorID != nil {
		tx = tx.Where("vendor_id = ?", filter.VendorID.String())
	}
	if filter.CustomerID != nil {
		tx = tx.Where("customer_id = ?", filter.CustomerID.String())
	}
	if len(filter.Statuses) > 0 {
		names := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			names = append(names, s.String())
		}
		tx = tx.Where("status IN ?", names)
	}
	return tx
}

// dedupeIDs coalesces repeated ids within one notification batch.
func dedupeIDs(ids []kernel.UUID) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(ids))
	unique := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func uuidStrings(ids []kernel.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
