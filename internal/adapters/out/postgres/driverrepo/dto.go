// Package driverrepo persists driver delivery state. The two narrow
// conditional flips (Available→OnDelivery and back) mirror the order side of
// the assignment protocol: the WHERE clause restates the expected prior
// operating status and zero matched rows is a conflict.
package driverrepo

import (
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverStateDTO is the database shape of a driver's delivery state.
type DriverStateDTO struct {
	DriverID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CurrentOrderID  *uuid.UUID `gorm:"type:uuid;index"`
	OperatingStatus string     `gorm:"type:varchar(32);index"`
	GranularStatus  string     `gorm:"type:varchar(32)"`
	LastSeenAt      time.Time
}

// TableName overrides GORM's default naming to use "driver_states".
func (DriverStateDTO) TableName() string {
	return "driver_states"
}

func fromDomain(aggregate *driver.DeliveryState) DriverStateDTO {
	var currentOrderID *uuid.UUID
	if id := aggregate.CurrentOrder(); id != nil {
		raw := id.Bytes()
		currentOrderID = &raw
	}

	return DriverStateDTO{
		DriverID:        aggregate.DriverID().Bytes(),
		CurrentOrderID:  currentOrderID,
		OperatingStatus: aggregate.OperatingStatus().String(),
		GranularStatus:  aggregate.GranularStatus().String(),
		LastSeenAt:      aggregate.LastSeenAt(),
	}
}

func toDomain(dto DriverStateDTO) (*driver.DeliveryState, error) {
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	var currentOrderID *kernel.UUID
	if dto.CurrentOrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.CurrentOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		currentOrderID = &oID
	}

	operating, err := driver.OperatingStatusFromString(dto.OperatingStatus)
	if err != nil {
		return nil, err
	}

	granular, err := driver.GranularStatusFromString(dto.GranularStatus)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDeliveryState(driverID, currentOrderID, operating, granular, dto.LastSeenAt)
}
