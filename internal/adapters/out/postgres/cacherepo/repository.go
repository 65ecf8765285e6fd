package cacherepo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMaxEntries = 10_000

// GormOfflineCache implements ports.OfflineCache on a Postgres table.
type GormOfflineCache struct {
	db         *gorm.DB
	maxEntries int
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures the cache.
type Option func(*GormOfflineCache)

// WithMaxEntries bounds how many entries Sweep leaves behind.
func WithMaxEntries(n int) Option {
	return func(c *GormOfflineCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithClock replaces the time source used for expiry checks and sweep
// bookkeeping. Tests pin it to exercise TTL boundaries.
func WithClock(now func() time.Time) Option {
	return func(c *GormOfflineCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewGormOfflineCache creates a new Postgres-backed offline cache.
func NewGormOfflineCache(db *gorm.DB, logger *slog.Logger, opts ...Option) *GormOfflineCache {
	c := &GormOfflineCache{
		db:         db,
		maxEntries: defaultMaxEntries,
		now:        time.Now,
		logger:     logger.With("component", "offline-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value when the entry exists and has not expired.
// Read failures degrade to a miss so a broken cache behaves like an empty
// one.
func (c *GormOfflineCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var entry CacheEntryDTO
	err := c.db.WithContext(ctx).
		First(&entry, "key = ? AND expires_at > ?", key, c.now()).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Warn("cache read failed, treating as miss",
				"key", key, "error", err)
		}
		return nil, false
	}
	return entry.Value, true
}

// Put stores the value with the given time to live, replacing any previous
// entry for the key.
func (c *GormOfflineCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := c.now()
	entry := CacheEntryDTO{
		Key:       key,
		Value:     value,
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "cached_at", "expires_at"}),
		}).
		Create(&entry).Error
}

// Invalidate removes the entry for the key and every entry whose key starts
// with keyOrPrefix.
func (c *GormOfflineCache) Invalidate(ctx context.Context, keyOrPrefix string) error {
	return c.db.WithContext(ctx).
		Where("key = ? OR key LIKE ?", keyOrPrefix, keyOrPrefix+"%").
		Delete(&CacheEntryDTO{}).Error
}

// Sweep removes expired entries first, then the oldest-inserted entries
// while the table still exceeds the capacity bound. The cache_meta row is
// rewritten with the sweep time once the pass completed.
func (c *GormOfflineCache) Sweep(ctx context.Context) (int, error) {
	sweptAt := c.now()
	expired := c.db.WithContext(ctx).
		Where("expires_at <= ?", sweptAt).
		Delete(&CacheEntryDTO{})
	if expired.Error != nil {
		return 0, expired.Error
	}
	removed := int(expired.RowsAffected)

	var count int64
	if err := c.db.WithContext(ctx).Model(&CacheEntryDTO{}).Count(&count).Error; err != nil {
		return removed, err
	}
	excess := int(count) - c.maxEntries
	if excess <= 0 {
		return removed, c.recordSweep(ctx, sweptAt)
	}

	var oldestKeys []string
	err := c.db.WithContext(ctx).Model(&CacheEntryDTO{}).
		Order("cached_at ASC").
		Limit(excess).
		Pluck("key", &oldestKeys).Error
	if err != nil {
		return removed, err
	}

	evicted := c.db.WithContext(ctx).
		Where("key IN ?", oldestKeys).
		Delete(&CacheEntryDTO{})
	if evicted.Error != nil {
		return removed, evicted.Error
	}
	removed += int(evicted.RowsAffected)

	return removed, c.recordSweep(ctx, sweptAt)
}

const metaRowID = int16(1)

// recordSweep upserts the single cache_meta row with the last sweep time.
func (c *GormOfflineCache) recordSweep(ctx context.Context, at time.Time) error {
	meta := CacheMetaDTO{ID: metaRowID, LastSweepAt: at}
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_sweep_at"}),
		}).
		Create(&meta).Error
}
