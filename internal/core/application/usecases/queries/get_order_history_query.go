package queries

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// GetOrderHistoryQuery retrieves a paged list of finished orders for a scope.
// With Offline set the cache is consulted first and a hit short-circuits the
// live read entirely; this is the opt-in path for callers that already know
// connectivity is bad.
type GetOrderHistoryQuery struct { //nolint:recvcheck //using for validation
	filter  OrderFilter
	limit   int
	offset  int
	offline bool

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a validated history request. A zero limit
// falls back to the default page size.
func NewGetOrderHistoryQuery(filter OrderFilter, limit, offset int, offline bool) (GetOrderHistoryQuery, error) {
	if err := filter.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}
	if limit < 0 || limit > maxHistoryLimit || offset < 0 {
		return GetOrderHistoryQuery{}, errs.NewValueIsInvalidError("page")
	}
	if limit == 0 {
		limit = defaultHistoryLimit
	}

	return GetOrderHistoryQuery{
		filter:  filter,
		limit:   limit,
		offset:  offset,
		offline: offline,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// Filter returns the scope of the history read.
func (q GetOrderHistoryQuery) Filter() OrderFilter {
	return q.filter
}

// Limit returns the page size.
func (q GetOrderHistoryQuery) Limit() int {
	return q.limit
}

// Offset returns the page offset.
func (q GetOrderHistoryQuery) Offset() int {
	return q.offset
}

// Offline reports whether the caller opted into cache-first reading.
func (q GetOrderHistoryQuery) Offline() bool {
	return q.offline
}

// GetOrderHistoryQueryResponse is one page of finished orders. FromCache
// marks a page served from the offline cache; it may be stale.
type GetOrderHistoryQueryResponse struct {
	Orders    []OrderProjection
	FromCache bool
}
