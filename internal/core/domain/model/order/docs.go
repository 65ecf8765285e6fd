// Package order contains the Order aggregate and its status state machine.
//
// The state machine is defined once, as data: the forward delivery sequence
// lives in the Status enum ordering, and role permissions live in the edge
// tables in transition.go. Every status write in the module funnels through
// CheckTransition, so there is exactly one authority on what moves are legal.
package order
