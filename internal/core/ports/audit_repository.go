package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// RejectionRecord is the audit entry written when a driver hands an order
// back. Audit rows are append-only.
type RejectionRecord struct {
	OrderID    kernel.UUID
	DriverID   kernel.UUID
	Reason     string
	RecordedAt time.Time
}

// AuditRepository persists assignment audit entries.
type AuditRepository interface {
	// RecordRejection appends a rejection audit entry.
	RecordRejection(ctx context.Context, record RejectionRecord) error
}
