// Package cacherepo stores read-model snapshots in a bounded, TTL-based
// cache table so queries can serve stale copies while the primary read
// path is unreachable.
package cacherepo

import "time"

// CacheEntryDTO is the database representation of a cached projection.
type CacheEntryDTO struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"type:jsonb;not null"`
	CachedAt  time.Time `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName overrides the default table name.
func (CacheEntryDTO) TableName() string {
	return "offline_cache"
}

// CacheMetaDTO is the single bookkeeping row for the cache table. Sweep
// rewrites it on every pass, so the row records when the table was last
// brought back under its TTL and capacity bounds.
type CacheMetaDTO struct {
	ID          int16     `gorm:"primaryKey"`
	LastSweepAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (CacheMetaDTO) TableName() string {
	return "cache_meta"
}
