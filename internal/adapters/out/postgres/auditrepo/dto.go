// Package auditrepo persists the append-only rejection audit trail.
package auditrepo

import (
	"time"

	"github.com/google/uuid"
)

// RejectionDTO is the database representation of a recorded rejection.
type RejectionDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	DriverID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Reason     string    `gorm:"type:varchar(255);not null"`
	RecordedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (RejectionDTO) TableName() string {
	return "rejection_audit"
}
