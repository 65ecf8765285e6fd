package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AssignmentRepairJob periodically reconciles order rows against driver
// availability rows. The order row is authoritative; the job replays missing
// driver flips and frees drivers whose order has moved on without them.
type AssignmentRepairJob struct {
	handler commands.RepairAssignmentsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAssignmentRepairJob creates a job running the repair pass every minute.
func NewAssignmentRepairJob(handler commands.RepairAssignmentsCommandHandler, logger *slog.Logger) *AssignmentRepairJob {
	return &AssignmentRepairJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "assignment_repair_job"),
	}
}

// Start begins the repair job.
func (j *AssignmentRepairJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd, cmdErr := commands.NewRepairAssignmentsCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Repair command construction failed", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Assignment repair pass failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment repair job started (running every minute)")
	return nil
}

// Stop stops the repair job.
func (j *AssignmentRepairJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment repair job stopped")
}
