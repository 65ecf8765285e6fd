package driverrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// DriverRepositoryIntegrationTestSuite verifies the conditional flips of the
// driver availability row against a real PostgreSQL container.
type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *driverrepo.GormDriverRepository
	tracker    *MockAggregateTracker
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&driverrepo.DriverStateDTO{}))
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE driver_states").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = driverrepo.NewGormDriverRepository(suite.db, suite.tracker)
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrips() {
	ctx := context.Background()

	state := suite.newAvailableDriver()
	suite.tracker.On("TrackAggregate", state.DriverID(), state).Once()
	suite.Require().NoError(suite.repository.Add(ctx, state))

	retrieved, err := suite.repository.Get(ctx, state.DriverID())
	suite.Require().NoError(err)

	suite.Equal(state.DriverID(), retrieved.DriverID())
	suite.Equal(driver.Available, retrieved.OperatingStatus())
	suite.Equal(driver.GranularNone, retrieved.GranularStatus())
	suite.Nil(retrieved.CurrentOrder())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_UnknownDriver_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestSetOnDelivery_AvailableDriver_Flips() {
	ctx := context.Background()

	state := suite.addAvailableDriver()
	orderID := kernel.NewUUID()

	err := suite.repository.SetOnDelivery(ctx, state.DriverID(), orderID)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, state.DriverID())
	suite.Require().NoError(err)
	suite.Equal(driver.OnDelivery, retrieved.OperatingStatus())
	suite.Equal(driver.GranularAssigned, retrieved.GranularStatus())
	suite.Require().NotNil(retrieved.CurrentOrder())
	suite.True(retrieved.CurrentOrder().IsEqual(orderID))
}

func (suite *DriverRepositoryIntegrationTestSuite) TestSetOnDelivery_AlreadyOnDelivery_Conflicts() {
	ctx := context.Background()

	state := suite.addAvailableDriver()
	firstOrder := kernel.NewUUID()
	secondOrder := kernel.NewUUID()

	suite.Require().NoError(suite.repository.SetOnDelivery(ctx, state.DriverID(), firstOrder))

	err := suite.repository.SetOnDelivery(ctx, state.DriverID(), secondOrder)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	// The first delivery link stands.
	retrieved, err := suite.repository.Get(ctx, state.DriverID())
	suite.Require().NoError(err)
	suite.True(retrieved.CurrentOrder().IsEqual(firstOrder))
}

func (suite *DriverRepositoryIntegrationTestSuite) TestRestoreAvailable_OnDeliveryDriver_Flips() {
	ctx := context.Background()

	state := suite.addAvailableDriver()
	suite.Require().NoError(suite.repository.SetOnDelivery(ctx, state.DriverID(), kernel.NewUUID()))

	err := suite.repository.RestoreAvailable(ctx, state.DriverID())
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, state.DriverID())
	suite.Require().NoError(err)
	suite.Equal(driver.Available, retrieved.OperatingStatus())
	suite.Equal(driver.GranularNone, retrieved.GranularStatus())
	suite.Nil(retrieved.CurrentOrder())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestRestoreAvailable_AlreadyAvailable_Conflicts() {
	ctx := context.Background()

	state := suite.addAvailableDriver()

	err := suite.repository.RestoreAvailable(ctx, state.DriverID())
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestSave_RewritesWholeState() {
	ctx := context.Background()

	state := suite.addAvailableDriver()
	orderID := kernel.NewUUID()

	suite.Require().NoError(state.BeginDelivery(orderID, time.Now().UTC()))

	suite.tracker.On("TrackAggregate", state.DriverID(), state).Once()
	suite.Require().NoError(suite.repository.Save(ctx, state))

	retrieved, err := suite.repository.Get(ctx, state.DriverID())
	suite.Require().NoError(err)
	suite.Equal(driver.OnDelivery, retrieved.OperatingStatus())
	suite.True(retrieved.CurrentOrder().IsEqual(orderID))

	// And back again, clearing the order link.
	state.FinishDelivery(time.Now().UTC())
	suite.tracker.On("TrackAggregate", state.DriverID(), state).Once()
	suite.Require().NoError(suite.repository.Save(ctx, state))

	retrieved, err = suite.repository.Get(ctx, state.DriverID())
	suite.Require().NoError(err)
	suite.Equal(driver.Available, retrieved.OperatingStatus())
	suite.Nil(retrieved.CurrentOrder())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestSave_UnknownDriver_ReturnsNotFoundError() {
	ctx := context.Background()

	state := suite.newAvailableDriver()

	err := suite.repository.Save(ctx, state)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetAllOnDelivery_ReturnsOnlyBusyDrivers() {
	ctx := context.Background()

	busy := suite.addAvailableDriver()
	suite.addAvailableDriver()
	suite.Require().NoError(suite.repository.SetOnDelivery(ctx, busy.DriverID(), kernel.NewUUID()))

	states, err := suite.repository.GetAllOnDelivery(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(states, 1)
	suite.Equal(busy.DriverID(), states[0].DriverID())
}

func (suite *DriverRepositoryIntegrationTestSuite) newAvailableDriver() *driver.DeliveryState {
	state, err := driver.NewDeliveryState(kernel.NewUUID(), time.Now().UTC())
	suite.Require().NoError(err)
	return state
}

func (suite *DriverRepositoryIntegrationTestSuite) addAvailableDriver() *driver.DeliveryState {
	state := suite.newAvailableDriver()
	suite.tracker.On("TrackAggregate", state.DriverID(), state).Once()
	suite.Require().NoError(suite.repository.Add(context.Background(), state))
	return state
}

func (suite *DriverRepositoryIntegrationTestSuite) TestConcurrentAssignments_OneWinner() {
	ctx := context.Background()

	state := suite.addAvailableDriver()

	results := make(chan error, 3)
	for range 3 {
		go func() {
			results <- suite.repository.SetOnDelivery(ctx, state.DriverID(), kernel.NewUUID())
		}()
	}

	var wins, conflicts int
	for range 3 {
		if err := <-results; err == nil {
			wins++
		} else {
			suite.Require().ErrorIs(err, errs.ErrConflict)
			conflicts++
		}
	}
	suite.Equal(1, wins)
	suite.Equal(2, conflicts)
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
