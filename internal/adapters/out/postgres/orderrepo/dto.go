// Package orderrepo persists order aggregates and implements the conditional
// writes the assignment protocol depends on. Every mutation is expressed as
// an UPDATE whose WHERE clause re-states the expected prior state; the
// database evaluates the predicate atomically, and zero matched rows is a
// conflict, never a silent overwrite.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database shape of an order aggregate. Status and method
// are stored by name: the change feed, the query handlers and the repair
// pass all read them as strings, and names survive enum reordering.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	VendorID       uuid.UUID  `gorm:"type:uuid;index"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;index"`
	DriverID       *uuid.UUID `gorm:"type:uuid;index"`
	Status         string     `gorm:"type:varchar(32);index"`
	DeliveryMethod string     `gorm:"type:varchar(32)"`
	TotalCents     int64
	Currency       string `gorm:"type:varchar(3)"`
	Address        []byte `gorm:"type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		VendorID:       aggregate.VendorID().Bytes(),
		CustomerID:     aggregate.CustomerID().Bytes(),
		DriverID:       driverID,
		Status:         aggregate.Status().String(),
		DeliveryMethod: aggregate.DeliveryMethod().String(),
		TotalCents:     aggregate.Total().Cents(),
		Currency:       aggregate.Total().Currency(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
	}
}

// toDomain reconstructs the aggregate from a DTO via RestoreOrder, which
// re-enforces the status/driver consistency invariant on the way in.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	method, err := order.DeliveryMethodFromString(dto.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, vendorID, customerID, method, status, driverID,
		total, dto.CreatedAt, dto.UpdatedAt)
}
