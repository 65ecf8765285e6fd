package driverrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	now     func() time.Time
}

// aggregateTracker defines the interface for tracking modified aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDriverRepository creates a new GORM driver repository.
func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
		now:     time.Now,
	}
}

// Add saves a new driver delivery state to the database.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.DeliveryState) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.DriverID(), aggregate)
	return nil
}

// Get retrieves a driver's delivery state by driver ID.
func (r *GormDriverRepository) Get(ctx context.Context, driverID kernel.UUID) (*driver.DeliveryState, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto DriverStateDTO
	if err := r.db.WithContext(ctx).First(&dto, "driver_id = ?", driverID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save persists the aggregate unconditionally. Only the repair pass uses
// this; live writers go through the conditional flips below.
func (r *GormDriverRepository) Save(ctx context.Context, aggregate *driver.DeliveryState) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DriverStateDTO{}).
		Where("driver_id = ?", dto.DriverID).
		Select("current_order_id", "operating_status", "granular_status", "last_seen_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", aggregate.DriverID().String())
	}

	r.tracker.TrackAggregate(aggregate.DriverID(), aggregate)
	return nil
}

// SetOnDelivery conditionally flips the driver onto a delivery.
func (r *GormDriverRepository) SetOnDelivery(ctx context.Context, driverID, orderID kernel.UUID) error {
	if err := errors.Join(driverID.Validate(), orderID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&DriverStateDTO{}).
		Where("driver_id = ? AND operating_status = ?", driverID.Bytes(), driver.Available.String()).
		Updates(map[string]any{
			"current_order_id": orderID.Bytes(),
			"operating_status": driver.OnDelivery.String(),
			"granular_status":  driver.GranularAssigned.String(),
			"last_seen_at":     r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("driver", driverID.String(),
			"operating_status = Available")
	}
	return nil
}

// RestoreAvailable conditionally flips the driver back to Available with the
// delivery link cleared.
func (r *GormDriverRepository) RestoreAvailable(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&DriverStateDTO{}).
		Where("driver_id = ? AND operating_status = ?", driverID.Bytes(), driver.OnDelivery.String()).
		Updates(map[string]any{
			"current_order_id": nil,
			"operating_status": driver.Available.String(),
			"granular_status":  driver.GranularNone.String(),
			"last_seen_at":     r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("driver", driverID.String(),
			"operating_status = OnDelivery")
	}
	return nil
}

// GetAllOnDelivery retrieves every driver currently marked OnDelivery.
func (r *GormDriverRepository) GetAllOnDelivery(ctx context.Context) ([]*driver.DeliveryState, error) {
	var dtos []DriverStateDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "operating_status = ?", driver.OnDelivery.String()).Error
	if err != nil {
		return nil, err
	}

	states := make([]*driver.DeliveryState, 0, len(dtos))
	for _, dto := range dtos {
		d, dErr := toDomain(dto)
		if dErr != nil {
			return nil, dErr
		}
		states = append(states, d)
	}

	return states, nil
}
