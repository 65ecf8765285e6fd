package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/retry"

	"gorm.io/gorm"
)

// earningsCacheTTL bounds how stale a cached earnings summary may be served.
const earningsCacheTTL = time.Hour

// GetDriverEarningsQueryHandler serves earnings summaries remote-first with
// an offline fallback: the live aggregate is authoritative, and every
// successful read refreshes the cache. When the live read fails for any
// reason the freshest cached summary is served instead, marked as such.
// Only when the cache also misses does the original failure surface.
type GetDriverEarningsQueryHandler struct {
	db     *gorm.DB
	cache  ports.OfflineCache
	policy *retry.Policy
	logger *slog.Logger
}

// NewGetDriverEarningsQueryHandler creates a handler for earnings queries.
func NewGetDriverEarningsQueryHandler(
	db *gorm.DB,
	cache ports.OfflineCache,
	policy *retry.Policy,
	logger *slog.Logger,
) GetDriverEarningsQueryHandler {
	return GetDriverEarningsQueryHandler{
		db:     db,
		cache:  cache,
		policy: policy,
		logger: logger.With("component", "driver_earnings_handler"),
	}
}

// Handle executes the earnings query.
func (h GetDriverEarningsQueryHandler) Handle(
	ctx context.Context,
	query GetDriverEarningsQuery,
) (GetDriverEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDriverEarningsQueryResponse{}, err
	}

	key := earningsCacheKey(query)

	summary, err := retry.Value(ctx, h.policy, "driver_earnings",
		func(ctx context.Context) (GetDriverEarningsQueryResponse, error) {
			return h.readLive(ctx, query)
		})
	if err == nil {
		h.refreshCache(ctx, key, summary)
		return summary, nil
	}

	cached, ok := h.readCached(ctx, key, query)
	if !ok {
		return GetDriverEarningsQueryResponse{}, err
	}

	h.logger.InfoContext(ctx, "serving cached earnings after live read failure",
		"driver_id", query.DriverID().String(), "error", err)
	return cached, nil
}

// readLive sums the delivered orders held by the driver within the period.
// Delivered orders keep their driver link precisely so this aggregate can be
// computed without a separate ledger.
func (h GetDriverEarningsQueryHandler) readLive(
	ctx context.Context,
	query GetDriverEarningsQuery,
) (GetDriverEarningsQueryResponse, error) {
	var row struct {
		TotalCents     int64  `gorm:"column:total_cents"`
		DeliveredCount int64  `gorm:"column:delivered_count"`
		Currency       string `gorm:"column:currency"`
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total_cents), 0) AS total_cents,
			COUNT(*)                      AS delivered_count,
			COALESCE(MAX(currency), '')   AS currency
		FROM orders
		WHERE driver_id = ?
		  AND status = ?
		  AND updated_at >= ?
		  AND updated_at < ?
	`, query.DriverID().String(), order.Delivered.String(), query.From(), query.To()).
		Scan(&row).Error
	if err != nil {
		return GetDriverEarningsQueryResponse{}, errs.NewTransportError("driver_earnings", err)
	}

	return GetDriverEarningsQueryResponse{
		DriverID:       query.DriverID(),
		TotalCents:     row.TotalCents,
		Currency:       row.Currency,
		DeliveredCount: row.DeliveredCount,
		From:           query.From(),
		To:             query.To(),
	}, nil
}

func (h GetDriverEarningsQueryHandler) refreshCache(
	ctx context.Context, key string, summary GetDriverEarningsQueryResponse,
) {
	value, err := json.Marshal(summary)
	if err == nil {
		err = h.cache.Put(ctx, key, value, earningsCacheTTL)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "earnings cache refresh failed", "key", key, "error", err)
	}
}

func (h GetDriverEarningsQueryHandler) readCached(
	ctx context.Context, key string, query GetDriverEarningsQuery,
) (GetDriverEarningsQueryResponse, bool) {
	value, ok := h.cache.Get(ctx, key)
	if !ok {
		return GetDriverEarningsQueryResponse{}, false
	}

	var summary GetDriverEarningsQueryResponse
	if err := json.Unmarshal(value, &summary); err != nil {
		h.logger.WarnContext(ctx, "cached earnings entry undecodable", "key", key, "error", err)
		return GetDriverEarningsQueryResponse{}, false
	}

	summary.DriverID = query.DriverID()
	summary.FromCache = true
	return summary, true
}

// earningsCacheKey builds the (entityId, queryShape) key for one summary.
func earningsCacheKey(query GetDriverEarningsQuery) string {
	shape := fmt.Sprintf("earnings:%d:%d", query.From().Unix(), query.To().Unix())
	return ports.CacheKey(query.DriverID().String(), shape)
}
