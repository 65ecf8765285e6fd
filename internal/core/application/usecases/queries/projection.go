package queries

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"dispatch/internal/pkg/errs"
)

// DeliveryAddress is the decoded destination of an order. The column it comes
// from holds dynamic JSON that has changed shape over time, so decoding is
// versioned rather than strict-or-fail.
type DeliveryAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// OrderProjection is the read model served to stream and history consumers.
// It is flat and self-contained: one row, no lazy references.
type OrderProjection struct {
	OrderID    kernel.UUID
	VendorID   kernel.UUID
	CustomerID kernel.UUID
	DriverID   *kernel.UUID
	Status     order.Status
	TotalCents int64
	Currency   string
	Address    DeliveryAddress

	// AddressCorrupt marks a row whose address column could not be decoded
	// by any known schema. The projection itself stays structurally valid
	// with a zero address; one bad field never blacks out a whole list.
	AddressCorrupt bool

	UpdatedAt time.Time
}

// orderRow is the raw shape scanned from the orders table.
type orderRow struct {
	ID         string    `gorm:"column:id"`
	VendorID   string    `gorm:"column:vendor_id"`
	CustomerID string    `gorm:"column:customer_id"`
	DriverID   *string   `gorm:"column:driver_id"`
	Status     string    `gorm:"column:status"`
	TotalCents int64     `gorm:"column:total_cents"`
	Currency   string    `gorm:"column:currency"`
	Address    []byte    `gorm:"column:address"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// decodeDeliveryAddress decodes the dynamic address column, trying known
// schemas newest first:
//
//  1. the current object schema (unknown fields rejected, line1 required);
//  2. the legacy flat-string schema, mapped onto Line1.
//
// An absent column (NULL or empty) is a valid zero address, not corruption;
// anything present but matching no schema is corrupt data.
func decodeDeliveryAddress(raw []byte) (DeliveryAddress, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return DeliveryAddress{}, nil
	}

	var current DeliveryAddress
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&current); err == nil && current.Line1 != "" {
		return current, nil
	}

	var legacy string
	if err := json.Unmarshal(trimmed, &legacy); err == nil && legacy != "" {
		return DeliveryAddress{Line1: legacy}, nil
	}

	return DeliveryAddress{}, errs.NewCorruptDataError("address", "",
		fmt.Errorf("address %q matches no known schema", trimmed))
}

// projectionFromRow decodes one scanned row into the read model.
//
// A malformed address yields a valid projection with a zero address and the
// AddressCorrupt flag set. Malformed identity or status columns make the row
// itself undecodable and return CorruptDataError.
func projectionFromRow(r orderRow) (OrderProjection, error) {
	orderID, err := kernel.UUIDFromString(r.ID)
	if err != nil {
		return OrderProjection{}, errs.NewCorruptDataError("order", r.ID, err)
	}

	vendorID, err := kernel.UUIDFromString(r.VendorID)
	if err != nil {
		return OrderProjection{}, errs.NewCorruptDataError("order", r.ID, err)
	}

	customerID, err := kernel.UUIDFromString(r.CustomerID)
	if err != nil {
		return OrderProjection{}, errs.NewCorruptDataError("order", r.ID, err)
	}

	status, err := order.StatusFromString(r.Status)
	if err != nil {
		return OrderProjection{}, errs.NewCorruptDataError("order", r.ID, err)
	}

	p := OrderProjection{
		OrderID:    orderID,
		VendorID:   vendorID,
		CustomerID: customerID,
		Status:     status,
		TotalCents: r.TotalCents,
		Currency:   r.Currency,
		UpdatedAt:  r.UpdatedAt,
	}

	if r.DriverID != nil {
		driverID, idErr := kernel.UUIDFromString(*r.DriverID)
		if idErr != nil {
			return OrderProjection{}, errs.NewCorruptDataError("order", r.ID, idErr)
		}
		p.DriverID = &driverID
	}

	address, addrErr := decodeDeliveryAddress(r.Address)
	if addrErr != nil {
		p.AddressCorrupt = true
	} else {
		p.Address = address
	}

	return p, nil
}
