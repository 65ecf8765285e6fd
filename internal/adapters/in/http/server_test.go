package http_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/application"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/retry"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAcceptOrderHandler struct {
	mock.Mock
}

func (m *MockAcceptOrderHandler) Handle(ctx context.Context, command commands.AcceptOrderCommand) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

type MockRejectOrderHandler struct {
	mock.Mock
}

func (m *MockRejectOrderHandler) Handle(ctx context.Context, command commands.RejectOrderCommand) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

type MockAdvanceStatusHandler struct {
	mock.Mock
}

func (m *MockAdvanceStatusHandler) Handle(ctx context.Context, command commands.AdvanceStatusCommand) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

type MockRecordArrivalHandler struct {
	mock.Mock
}

func (m *MockRecordArrivalHandler) Handle(ctx context.Context, command commands.RecordArrivalCommand) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

type MockStreamOrdersHandler struct {
	mock.Mock
}

func (m *MockStreamOrdersHandler) Handle(
	ctx context.Context, query queries.StreamOrdersQuery,
) (<-chan queries.OrderSnapshot, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queries.OrderSnapshot), args.Error(1)
}

type MockOrderHistoryHandler struct {
	mock.Mock
}

func (m *MockOrderHistoryHandler) Handle(
	ctx context.Context, query queries.GetOrderHistoryQuery,
) (queries.GetOrderHistoryQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderHistoryQueryResponse), args.Error(1)
}

type MockDriverEarningsHandler struct {
	mock.Mock
}

func (m *MockDriverEarningsHandler) Handle(
	ctx context.Context, query queries.GetDriverEarningsQuery,
) (queries.GetDriverEarningsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetDriverEarningsQueryResponse), args.Error(1)
}

type serverMocks struct {
	accept   *MockAcceptOrderHandler
	reject   *MockRejectOrderHandler
	advance  *MockAdvanceStatusHandler
	arrival  *MockRecordArrivalHandler
	stream   *MockStreamOrdersHandler
	history  *MockOrderHistoryHandler
	earnings *MockDriverEarningsHandler
}

func newTestServer(t *testing.T) (*echo.Echo, *serverMocks) {
	t.Helper()

	mocks := &serverMocks{
		accept:   new(MockAcceptOrderHandler),
		reject:   new(MockRejectOrderHandler),
		advance:  new(MockAdvanceStatusHandler),
		arrival:  new(MockRecordArrivalHandler),
		stream:   new(MockStreamOrdersHandler),
		history:  new(MockOrderHistoryHandler),
		earnings: new(MockDriverEarningsHandler),
	}

	policy := retry.NewPolicy(slog.New(slog.DiscardHandler),
		retry.WithMaxAttempts(1))
	lifecycle := application.NewOrderLifecycleService(
		mocks.accept, mocks.reject, mocks.advance, mocks.arrival,
		mocks.stream, mocks.history, mocks.earnings, policy,
	)

	e := echo.New()
	servers.RegisterHandlers(e, httpadapter.NewServer(lifecycle))
	return e, mocks
}

func TestAcceptOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		e, mocks := newTestServer(t)
		mocks.accept.On("Handle", mock.Anything, mock.AnythingOfType("commands.AcceptOrderCommand")).
			Return(nil).Once()

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/accept", kernel.NewUUID()),
			fmt.Sprintf(`{"driverId":%q}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mocks.accept.AssertExpectations(t)
	})

	t.Run("LostRaceMapsToConflict", func(t *testing.T) {
		e, mocks := newTestServer(t)
		mocks.accept.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewConflictError("order", "x", "status = Ready AND driver_id IS NULL")).Once()

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/accept", kernel.NewUUID()),
			fmt.Sprintf(`{"driverId":%q}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("MalformedOrderIdRejected", func(t *testing.T) {
		e, mocks := newTestServer(t)

		rec := doJSON(e, http.MethodPost, "/api/v1/orders/not-a-uuid/accept",
			fmt.Sprintf(`{"driverId":%q}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mocks.accept.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestRejectOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		e, mocks := newTestServer(t)
		mocks.reject.On("Handle", mock.Anything, mock.AnythingOfType("commands.RejectOrderCommand")).
			Return(nil).Once()

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/reject", kernel.NewUUID()),
			fmt.Sprintf(`{"driverId":%q,"reason":"vehicle breakdown"}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mocks.reject.AssertExpectations(t)
	})

	t.Run("MissingReasonRejected", func(t *testing.T) {
		e, _ := newTestServer(t)

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/reject", kernel.NewUUID()),
			fmt.Sprintf(`{"driverId":%q,"reason":""}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		e, mocks := newTestServer(t)
		mocks.advance.On("Handle", mock.Anything, mock.AnythingOfType("commands.AdvanceStatusCommand")).
			Return(nil).Once()

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/status", kernel.NewUUID()),
			fmt.Sprintf(`{"status":"Confirmed","role":"Vendor","actorId":%q}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mocks.advance.AssertExpectations(t)
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		e, mocks := newTestServer(t)

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/status", kernel.NewUUID()),
			fmt.Sprintf(`{"status":"Teleported","role":"Vendor","actorId":%q}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mocks.advance.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("NotFoundMapsTo404", func(t *testing.T) {
		e, mocks := newTestServer(t)
		mocks.advance.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewObjectNotFoundError("order", "x")).Once()

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/status", kernel.NewUUID()),
			fmt.Sprintf(`{"status":"Confirmed","role":"Vendor","actorId":%q}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("TransportFailureMapsToBadGateway", func(t *testing.T) {
		e, mocks := newTestServer(t)
		mocks.advance.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewTransportError("orders", fmt.Errorf("connection refused")))

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/status", kernel.NewUUID()),
			fmt.Sprintf(`{"status":"Confirmed","role":"Vendor","actorId":%q}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestRecordArrival(t *testing.T) {
	t.Run("ForeignDriverMapsToForbidden", func(t *testing.T) {
		e, mocks := newTestServer(t)
		mocks.arrival.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewAuthError("arrival")).Once()

		rec := doJSON(e, http.MethodPost,
			fmt.Sprintf("/api/v1/orders/%s/arrival", kernel.NewUUID()),
			fmt.Sprintf(`{"driverId":%q}`, kernel.NewUUID()))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGetOrderHistory(t *testing.T) {
	t.Run("ReturnsPage", func(t *testing.T) {
		e, mocks := newTestServer(t)
		driverID := kernel.NewUUID()
		mocks.history.On("Handle", mock.Anything, mock.AnythingOfType("queries.GetOrderHistoryQuery")).
			Return(queries.GetOrderHistoryQueryResponse{
				Orders: []queries.OrderProjection{{
					OrderID:    kernel.NewUUID(),
					VendorID:   kernel.NewUUID(),
					CustomerID: kernel.NewUUID(),
					DriverID:   &driverID,
					TotalCents: 2599,
					Currency:   "USD",
					UpdatedAt:  time.Now().UTC(),
				}},
				FromCache: true,
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/history?limit=10", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"fromCache":true`)
		assert.Contains(t, rec.Body.String(), `"totalCents":2599`)
	})

	t.Run("NegativeLimitRejected", func(t *testing.T) {
		e, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/history?limit=-1", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetDriverEarnings(t *testing.T) {
	t.Run("ReturnsSummary", func(t *testing.T) {
		e, mocks := newTestServer(t)
		from := time.Now().UTC().Add(-24 * time.Hour)
		to := time.Now().UTC()
		mocks.earnings.On("Handle", mock.Anything, mock.AnythingOfType("queries.GetDriverEarningsQuery")).
			Return(queries.GetDriverEarningsQueryResponse{
				TotalCents:     4000,
				Currency:       "USD",
				DeliveredCount: 2,
				From:           from,
				To:             to,
			}, nil).Once()

		url := fmt.Sprintf("/api/v1/drivers/%s/earnings?from=%s&to=%s",
			kernel.NewUUID(),
			from.Format(time.RFC3339), to.Format(time.RFC3339))
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalCents":4000`)
		assert.Contains(t, rec.Body.String(), `"deliveredCount":2`)
	})

	t.Run("MissingPeriodRejected", func(t *testing.T) {
		e, _ := newTestServer(t)

		url := fmt.Sprintf("/api/v1/drivers/%s/earnings", kernel.NewUUID())
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetHealth(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func doJSON(e *echo.Echo, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
