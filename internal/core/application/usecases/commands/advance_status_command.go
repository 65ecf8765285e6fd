package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceStatusCommandIsNotConstructed = errors.New(
	"AdvanceStatusCommand must be created via NewAdvanceStatusCommand constructor",
)

// AdvanceStatusCommand represents an actor's request to move an order to a
// new lifecycle status. The actor's identity is carried along so ownership
// of the order can be established against the order row itself.
type AdvanceStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	requested order.Status
	role      order.Role
	actorID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewAdvanceStatusCommand creates a validated status advance request.
func NewAdvanceStatusCommand(
	orderID kernel.UUID,
	requested order.Status,
	role order.Role,
	actorID kernel.UUID,
) (AdvanceStatusCommand, error) {
	cmd := AdvanceStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRequested(requested),
		cmd.setRole(role),
		cmd.setActorID(actorID),
	); err != nil {
		return AdvanceStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusCommandIsNotConstructed)
}

// OrderID returns the order whose status is being advanced.
func (c AdvanceStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Requested returns the target status.
func (c AdvanceStatusCommand) Requested() order.Status {
	return c.requested
}

// Role returns the kind of actor requesting the transition.
func (c AdvanceStatusCommand) Role() order.Role {
	return c.role
}

// ActorID returns the requesting actor's identity.
func (c AdvanceStatusCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *AdvanceStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *AdvanceStatusCommand) setRequested(s order.Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.requested = s
	return nil
}

func (c *AdvanceStatusCommand) setRole(r order.Role) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c.role = r
	return nil
}

func (c *AdvanceStatusCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.actorID = id
	return nil
}
