package auditrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormAuditRepository implements ports.AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// RecordRejection appends a rejection record. Records are never updated or
// deleted afterwards.
func (r *GormAuditRepository) RecordRejection(ctx context.Context, record ports.RejectionRecord) error {
	if err := errors.Join(record.OrderID.Validate(), record.DriverID.Validate()); err != nil {
		return err
	}

	dto := RejectionDTO{
		OrderID:    record.OrderID.Bytes(),
		DriverID:   record.DriverID.Bytes(),
		Reason:     record.Reason,
		RecordedAt: record.RecordedAt,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
