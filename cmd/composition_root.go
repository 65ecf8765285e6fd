package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/cacherepo"
	"dispatch/internal/adapters/out/postgres/changefeed"
	"dispatch/internal/core/application"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/retry"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	cache      ports.OfflineCache
	feed       ports.ChangeFeed
	policy     *retry.Policy
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		cache:      cacherepo.NewGormOfflineCache(gormDB, logger),
		feed:       changefeed.NewPqChangeFeed(configs.PostgresDSN(), logger),
		policy:     retry.NewPolicy(logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.createUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.createUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateAdvanceStatusCommandHandler() commands.AdvanceStatusCommandHandler {
	return commands.NewAdvanceStatusCommandHandler(c.createUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateRecordArrivalCommandHandler() commands.RecordArrivalCommandHandler {
	return commands.NewRecordArrivalCommandHandler(c.createUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateRepairAssignmentsCommandHandler() commands.RepairAssignmentsCommandHandler {
	return commands.NewRepairAssignmentsCommandHandler(c.createUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateStreamOrdersQueryHandler() queries.StreamOrdersQueryHandler {
	return queries.NewStreamOrdersQueryHandler(c.gormDB, c.feed, c.policy, c.logger)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB, c.cache, c.policy, c.logger)
}

func (c *CompositionRoot) CreateGetDriverEarningsQueryHandler() queries.GetDriverEarningsQueryHandler {
	return queries.NewGetDriverEarningsQueryHandler(c.gormDB, c.cache, c.policy, c.logger)
}

func (c *CompositionRoot) CreateOrderLifecycleService() *application.OrderLifecycleService {
	return application.NewOrderLifecycleService(
		c.CreateAcceptOrderCommandHandler(),
		c.CreateRejectOrderCommandHandler(),
		c.CreateAdvanceStatusCommandHandler(),
		c.CreateRecordArrivalCommandHandler(),
		c.CreateStreamOrdersQueryHandler(),
		c.CreateGetOrderHistoryQueryHandler(),
		c.CreateGetDriverEarningsQueryHandler(),
		c.policy,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRepairAssignmentsCommandHandler(),
		c.cache,
		c.logger,
	)
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
