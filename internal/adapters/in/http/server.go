// Package http adapts the REST API to the application façade. It owns no
// business rules: requests are translated into commands and queries, errors
// are translated back into status codes.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dispatch/internal/core/application"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Server implements the generated ServerInterface on top of the lifecycle
// service.
type Server struct {
	lifecycle *application.OrderLifecycleService
}

// NewServer creates a new HTTP server around the lifecycle service.
func NewServer(lifecycle *application.OrderLifecycleService) *Server {
	return &Server{lifecycle: lifecycle}
}

// UpdateOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.UpdateOrderStatusJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernelUUID(orderId)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	actorID, err := kernelUUID(body.ActorId)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}
	requested, err := order.StatusFromString(body.Status)
	if err != nil {
		return badRequest(ctx, "Unknown status: "+body.Status)
	}
	role, err := order.RoleFromString(body.Role)
	if err != nil {
		return badRequest(ctx, "Unknown role: "+body.Role)
	}

	if err := s.lifecycle.AdvanceStatus(ctx.Request().Context(), orderID, requested, role, actorID); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AcceptOrder handles POST /api/v1/orders/{orderId}/accept.
func (s *Server) AcceptOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.AcceptOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernelUUID(orderId)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	driverID, err := kernelUUID(body.DriverId)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	if err := s.lifecycle.AcceptOrder(ctx.Request().Context(), orderID, driverID); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectOrder handles POST /api/v1/orders/{orderId}/reject.
func (s *Server) RejectOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.RejectOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernelUUID(orderId)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	driverID, err := kernelUUID(body.DriverId)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	if err := s.lifecycle.RejectOrder(ctx.Request().Context(), orderID, driverID, body.Reason); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecordArrival handles POST /api/v1/orders/{orderId}/arrival.
func (s *Server) RecordArrival(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.RecordArrivalJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernelUUID(orderId)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	driverID, err := kernelUUID(body.DriverId)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	if err := s.lifecycle.RecordArrival(ctx.Request().Context(), orderID, driverID); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StreamOrders handles GET /api/v1/orders/stream as a server-sent event
// stream: one event per snapshot, the first carrying the current state.
func (s *Server) StreamOrders(ctx echo.Context, params servers.StreamOrdersParams) error {
	filter, err := filterFromStreamParams(params)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	reqCtx := ctx.Request().Context()
	snapshots, err := s.lifecycle.StreamOrdersFor(reqCtx, filter)
	if err != nil {
		return writeError(ctx, err)
	}

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-store")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case snapshot, open := <-snapshots:
			if !open {
				return nil
			}
			payload, marshalErr := json.Marshal(snapshotResponse(snapshot))
			if marshalErr != nil {
				return marshalErr
			}
			if _, writeErr := fmt.Fprintf(resp, "id: %d\ndata: %s\n\n", snapshot.Seq, payload); writeErr != nil {
				return nil
			}
			resp.Flush()
		}
	}
}

// GetOrderHistory handles GET /api/v1/orders/history.
func (s *Server) GetOrderHistory(ctx echo.Context, params servers.GetOrderHistoryParams) error {
	filter := queries.OrderFilter{}
	if err := applyIDFilters(&filter, params.DriverId, params.VendorId, params.CustomerId); err != nil {
		return badRequest(ctx, err.Error())
	}

	limit, offset := 0, 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}
	offline := params.Offline != nil && *params.Offline

	page, err := s.lifecycle.OrderHistory(ctx.Request().Context(), filter, limit, offset, offline)
	if err != nil {
		return writeError(ctx, err)
	}

	response := servers.OrderPage{
		Orders:    make([]servers.Order, len(page.Orders)),
		FromCache: page.FromCache,
	}
	for i, projection := range page.Orders {
		response.Orders[i] = orderResponse(projection)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetDriverEarnings handles GET /api/v1/drivers/{driverId}/earnings.
func (s *Server) GetDriverEarnings(
	ctx echo.Context, driverId openapi_types.UUID, params servers.GetDriverEarningsParams,
) error {
	driverID, err := kernelUUID(driverId)
	if err != nil {
		return badRequest(ctx, "Invalid driver id")
	}

	earnings, err := s.lifecycle.DriverEarnings(ctx.Request().Context(), driverID, params.From, params.To)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Earnings{
		TotalCents:     earnings.TotalCents,
		Currency:       earnings.Currency,
		DeliveredCount: earnings.DeliveredCount,
		From:           earnings.From,
		To:             earnings.To,
		FromCache:      earnings.FromCache,
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

func filterFromStreamParams(params servers.StreamOrdersParams) (queries.OrderFilter, error) {
	filter := queries.OrderFilter{}
	if err := applyIDFilters(&filter, params.DriverId, params.VendorId, params.CustomerId); err != nil {
		return queries.OrderFilter{}, err
	}

	if params.Status != nil {
		for _, name := range *params.Status {
			status, err := order.StatusFromString(name)
			if err != nil {
				return queries.OrderFilter{}, fmt.Errorf("unknown status: %s", name)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	return filter, nil
}

func applyIDFilters(filter *queries.OrderFilter, driverId, vendorId, customerId *openapi_types.UUID) error {
	if driverId != nil {
		id, err := kernelUUID(*driverId)
		if err != nil {
			return fmt.Errorf("invalid driver id")
		}
		filter.DriverID = &id
	}
	if vendorId != nil {
		id, err := kernelUUID(*vendorId)
		if err != nil {
			return fmt.Errorf("invalid vendor id")
		}
		filter.VendorID = &id
	}
	if customerId != nil {
		id, err := kernelUUID(*customerId)
		if err != nil {
			return fmt.Errorf("invalid customer id")
		}
		filter.CustomerID = &id
	}
	return nil
}

func snapshotResponse(snapshot queries.OrderSnapshot) servers.OrderPage {
	page := servers.OrderPage{Orders: make([]servers.Order, len(snapshot.Orders))}
	for i, projection := range snapshot.Orders {
		page.Orders[i] = orderResponse(projection)
	}
	return page
}

func orderResponse(projection queries.OrderProjection) servers.Order {
	response := servers.Order{
		OrderId:    projection.OrderID.Bytes(),
		VendorId:   projection.VendorID.Bytes(),
		CustomerId: projection.CustomerID.Bytes(),
		Status:     projection.Status.String(),
		TotalCents: projection.TotalCents,
		Currency:   projection.Currency,
		UpdatedAt:  projection.UpdatedAt,
	}
	if projection.DriverID != nil {
		id := projection.DriverID.Bytes()
		response.DriverId = &id
	}
	if projection.AddressCorrupt {
		corrupt := true
		response.AddressCorrupt = &corrupt
	} else {
		response.Address = addressResponse(projection.Address)
	}
	return response
}

func addressResponse(address queries.DeliveryAddress) *servers.Address {
	if address == (queries.DeliveryAddress{}) {
		return nil
	}
	response := &servers.Address{}
	if address.Line1 != "" {
		response.Line1 = &address.Line1
	}
	if address.Line2 != "" {
		response.Line2 = &address.Line2
	}
	if address.City != "" {
		response.City = &address.City
	}
	if address.PostalCode != "" {
		response.PostalCode = &address.PostalCode
	}
	return response
}

func kernelUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromString(id.String())
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps the error taxonomy onto status codes. Validation failures
// are the caller's fault, conflicts mean a concurrent update won, transport
// failures surface as a bad gateway.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrAuth):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrTransport):
		status = http.StatusBadGateway
	}

	return ctx.JSON(status, servers.Error{
		Code:    status,
		Message: err.Error(),
	})
}
