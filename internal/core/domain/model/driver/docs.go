// Package driver contains the per-driver DeliveryState aggregate and the
// granular delivery status that tracks sub-steps finer than the order's own
// status. The order row remains the authority on assignment; this aggregate
// is the best-effort mirror the repair pass reconciles against it.
package driver
