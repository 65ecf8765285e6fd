package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/retry"

	"gorm.io/gorm"
)

// historyCacheTTL bounds how stale a cached history page may be served.
const historyCacheTTL = time.Hour

// GetOrderHistoryQueryHandler serves pages of finished orders. The live read
// is authoritative and refreshes the cache on every success. Two fallback
// paths exist:
//
//   - offline opt-in: the cache is read first and a hit skips the live read;
//   - live failure: the cache is read after the fact, like earnings.
type GetOrderHistoryQueryHandler struct {
	db     *gorm.DB
	cache  ports.OfflineCache
	policy *retry.Policy
	logger *slog.Logger
}

// NewGetOrderHistoryQueryHandler creates a handler for history queries.
func NewGetOrderHistoryQueryHandler(
	db *gorm.DB,
	cache ports.OfflineCache,
	policy *retry.Policy,
	logger *slog.Logger,
) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{
		db:     db,
		cache:  cache,
		policy: policy,
		logger: logger.With("component", "order_history_handler"),
	}
}

// Handle executes the history query.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) (GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}

	key := historyCacheKey(query)

	if query.Offline() {
		if page, ok := h.readCached(ctx, key); ok {
			return page, nil
		}
	}

	projections, err := retry.Value(ctx, h.policy, "order_history",
		func(ctx context.Context) ([]OrderProjection, error) {
			return h.readLive(ctx, query)
		})
	if err == nil {
		h.refreshCache(ctx, key, projections)
		return GetOrderHistoryQueryResponse{Orders: projections}, nil
	}

	if page, ok := h.readCached(ctx, key); ok {
		h.logger.InfoContext(ctx, "serving cached history after live read failure",
			"key", key, "error", err)
		return page, nil
	}

	return GetOrderHistoryQueryResponse{}, err
}

// readLive reads one page of finished orders, newest first. A filter with no
// explicit statuses is scoped to the terminal ones: history is what already
// ended, in-flight orders belong to the stream.
func (h GetOrderHistoryQueryHandler) readLive(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]OrderProjection, error) {
	filter := query.Filter()
	if len(filter.Statuses) == 0 {
		filter.Statuses = []order.Status{order.Delivered, order.Cancelled}
	}

	tx := applyOrderFilter(h.db.WithContext(ctx).Table("orders"), filter).
		Order("updated_at DESC").
		Limit(query.Limit()).
		Offset(query.Offset())

	rows := make([]orderRow, 0)
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errs.NewTransportError("order_history", err)
	}

	projections := make([]OrderProjection, 0, len(rows))
	for _, row := range rows {
		p, err := projectionFromRow(row)
		if err != nil {
			h.logger.WarnContext(ctx, "undecodable order row skipped",
				"order_id", row.ID, "error", err)
			continue
		}
		projections = append(projections, p)
	}

	return projections, nil
}

func (h GetOrderHistoryQueryHandler) refreshCache(
	ctx context.Context, key string, projections []OrderProjection,
) {
	value, err := json.Marshal(toCachedPage(projections))
	if err == nil {
		err = h.cache.Put(ctx, key, value, historyCacheTTL)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "history cache refresh failed", "key", key, "error", err)
	}
}

func (h GetOrderHistoryQueryHandler) readCached(
	ctx context.Context, key string,
) (GetOrderHistoryQueryResponse, bool) {
	value, ok := h.cache.Get(ctx, key)
	if !ok {
		return GetOrderHistoryQueryResponse{}, false
	}

	var page cachedOrderPage
	if err := json.Unmarshal(value, &page); err != nil {
		h.logger.WarnContext(ctx, "cached history page undecodable", "key", key, "error", err)
		return GetOrderHistoryQueryResponse{}, false
	}

	projections, err := page.projections()
	if err != nil {
		h.logger.WarnContext(ctx, "cached history page undecodable", "key", key, "error", err)
		return GetOrderHistoryQueryResponse{}, false
	}

	return GetOrderHistoryQueryResponse{Orders: projections, FromCache: true}, true
}

// historyCacheKey builds the (entityId, queryShape) key for one page. The
// entity is the narrowest actor the filter names.
func historyCacheKey(query GetOrderHistoryQuery) string {
	filter := query.Filter()

	entity := "all"
	switch {
	case filter.DriverID != nil:
		entity = filter.DriverID.String()
	case filter.VendorID != nil:
		entity = filter.VendorID.String()
	case filter.CustomerID != nil:
		entity = filter.CustomerID.String()
	}

	shape := fmt.Sprintf("history:%d:%d", query.Limit(), query.Offset())
	return ports.CacheKey(entity, shape)
}

// cachedOrderPage is the wire shape of a cached history page. The projection
// itself holds domain types that do not serialize, so cache entries store
// this flat equivalent.
type cachedOrderPage struct {
	Orders []cachedOrder `json:"orders"`
}

type cachedOrder struct {
	OrderID        string          `json:"order_id"`
	VendorID       string          `json:"vendor_id"`
	CustomerID     string          `json:"customer_id"`
	DriverID       *string         `json:"driver_id,omitempty"`
	Status         string          `json:"status"`
	TotalCents     int64           `json:"total_cents"`
	Currency       string          `json:"currency"`
	Address        DeliveryAddress `json:"address"`
	AddressCorrupt bool            `json:"address_corrupt,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toCachedPage(projections []OrderProjection) cachedOrderPage {
	orders := make([]cachedOrder, 0, len(projections))
	for _, p := range projections {
		c := cachedOrder{
			OrderID:        p.OrderID.String(),
			VendorID:       p.VendorID.String(),
			CustomerID:     p.CustomerID.String(),
			Status:         p.Status.String(),
			TotalCents:     p.TotalCents,
			Currency:       p.Currency,
			Address:        p.Address,
			AddressCorrupt: p.AddressCorrupt,
			UpdatedAt:      p.UpdatedAt,
		}
		if p.DriverID != nil {
			id := p.DriverID.String()
			c.DriverID = &id
		}
		orders = append(orders, c)
	}
	return cachedOrderPage{Orders: orders}
}

func (page cachedOrderPage) projections() ([]OrderProjection, error) {
	projections := make([]OrderProjection, 0, len(page.Orders))
	for _, c := range page.Orders {
		orderID, err := kernel.UUIDFromString(c.OrderID)
		if err != nil {
			return nil, err
		}
		vendorID, err := kernel.UUIDFromString(c.VendorID)
		if err != nil {
			return nil, err
		}
		customerID, err := kernel.UUIDFromString(c.CustomerID)
		if err != nil {
			return nil, err
		}
		status, err := order.StatusFromString(c.Status)
		if err != nil {
			return nil, err
		}

		p := OrderProjection{
			OrderID:        orderID,
			VendorID:       vendorID,
			CustomerID:     customerID,
			Status:         status,
			TotalCents:     c.TotalCents,
			Currency:       c.Currency,
			Address:        c.Address,
			AddressCorrupt: c.AddressCorrupt,
			UpdatedAt:      c.UpdatedAt,
		}
		if c.DriverID != nil {
			driverID, idErr := kernel.UUIDFromString(*c.DriverID)
			if idErr != nil {
				return nil, idErr
			}
			p.DriverID = &driverID
		}
		projections = append(projections, p)
	}
	return projections, nil
}
