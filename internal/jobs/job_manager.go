package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	assignmentRepairJob *AssignmentRepairJob
	cacheSweepJob       *CacheSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	repairHandler commands.RepairAssignmentsCommandHandler,
	cache ports.OfflineCache,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		assignmentRepairJob: NewAssignmentRepairJob(repairHandler, logger),
		cacheSweepJob:       NewCacheSweepJob(cache, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.assignmentRepairJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment repair job: %w", err)
	}

	if err := jm.cacheSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.assignmentRepairJob.Stop()
		return fmt.Errorf("failed to start cache sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.assignmentRepairJob.Stop()
	jm.cacheSweepJob.Stop()
}
