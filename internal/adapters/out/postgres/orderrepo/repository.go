package orderrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	now     func() time.Time
}

// aggregateTracker defines the interface for tracking modified aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
		now:     time.Now,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// AssignDriver performs the conditional assignment write. The predicate is
// evaluated by the database in one statement; of two concurrent accepts
// exactly one matches the row.
func (r *GormOrderRepository) AssignDriver(ctx context.Context, orderID, driverID kernel.UUID) error {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id IS NULL", orderID.Bytes(), order.Ready.String()).
		Updates(map[string]any{
			"driver_id":  driverID.Bytes(),
			"status":     order.Assigned.String(),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", orderID.String(),
			"status = Ready AND driver_id IS NULL")
	}
	return nil
}

// ReleaseDriver conditionally unassigns the order back to Ready. The
// predicate pins the current holder, so a stale caller can never release an
// order that was meanwhile reassigned to somebody else.
func (r *GormOrderRepository) ReleaseDriver(ctx context.Context, orderID, driverID kernel.UUID) error {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND driver_id = ?", orderID.Bytes(), driverID.Bytes()).
		Updates(map[string]any{
			"driver_id":  nil,
			"status":     order.Ready.String(),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", orderID.String(),
			"driver_id = "+driverID.String())
	}
	return nil
}

// UpdateStatus conditionally moves the order between the two given statuses.
func (r *GormOrderRepository) UpdateStatus(
	ctx context.Context,
	orderID kernel.UUID,
	current, requested order.Status,
	clearDriver bool,
) error {
	if err := errors.Join(orderID.Validate(), current.Validate(), requested.Validate()); err != nil {
		return err
	}

	changes := map[string]any{
		"status":     requested.String(),
		"updated_at": r.now(),
	}
	if clearDriver {
		changes["driver_id"] = nil
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", orderID.Bytes(), current.String()).
		Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", orderID.String(),
			"status = "+current.String())
	}
	return nil
}

// GetAllDriverLinked retrieves every order in the in-flight driver statuses.
func (r *GormOrderRepository) GetAllDriverLinked(ctx context.Context) ([]*order.Order, error) {
	inFlight := []string{
		order.Assigned.String(),
		order.OnRouteToVendor.String(),
		order.ArrivedAtVendor.String(),
		order.PickedUp.String(),
		order.OutForDelivery.String(),
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "status IN ?", inFlight).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
