// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS split.
// All commands follow a consistent shape: validation, transaction management,
// conditional persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Narrow per-command interfaces keep handlers testable against
// exactly the repositories they use.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DriverRepoFactory provides access to the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// AuditRepoFactory provides access to the audit repository within a transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// OrderUoW manages transactions touching only order aggregates.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// DriverUoW manages transactions touching only driver aggregates.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	// UoW manages transactions across order, driver and audit collections.
	UoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
		AuditRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
