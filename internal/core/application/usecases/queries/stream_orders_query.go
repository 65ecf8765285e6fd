package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrStreamOrdersQueryIsNotConstructed = errors.New(
	"StreamOrdersQuery must be created via NewStreamOrdersQuery constructor",
)

// OrderFilter scopes a stream or history read. The zero value matches
// everything; each set field narrows the result. The filter is applied in
// full on the store side for both the initial snapshot and every refetch:
// the change feed itself cannot express it.
type OrderFilter struct {
	DriverID   *kernel.UUID
	VendorID   *kernel.UUID
	CustomerID *kernel.UUID
	Statuses   []order.Status
}

// Validate checks that every set field carries a usable value.
func (f OrderFilter) Validate() error {
	for _, id := range []*kernel.UUID{f.DriverID, f.VendorID, f.CustomerID} {
		if id != nil {
			if err := id.Validate(); err != nil {
				return err
			}
		}
	}
	for _, s := range f.Statuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// OrderSnapshot is one emission of the stream: the complete current result
// set for the filter, replacing whatever the consumer held before. Seq is
// strictly increasing within one subscription.
type OrderSnapshot struct {
	Seq    uint64
	Orders []OrderProjection
}

// StreamOrdersQuery subscribes a consumer to a continuously updated, ordered
// sequence of result-set snapshots for a filtered order view.
//
// Example:
//
//	q, err := NewStreamOrdersQuery(OrderFilter{DriverID: &driverID})
//	if err != nil {
//	    return err
//	}
//	snapshots, err := handler.Handle(ctx, q)
//	if err != nil {
//	    return err
//	}
//	for snap := range snapshots {
//	    render(snap.Orders)
//	}
type StreamOrdersQuery struct {
	filter OrderFilter

	guard guard.ConstructorGuard
}

// NewStreamOrdersQuery creates a validated stream subscription request.
func NewStreamOrdersQuery(filter OrderFilter) (StreamOrdersQuery, error) {
	if err := filter.Validate(); err != nil {
		return StreamOrdersQuery{}, err
	}
	return StreamOrdersQuery{
		filter: filter,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q StreamOrdersQuery) Validate() error {
	return q.guard.Validate(ErrStreamOrdersQueryIsNotConstructed)
}

// Filter returns the result-set scope of this subscription.
func (q StreamOrdersQuery) Filter() OrderFilter {
	return q.filter
}
