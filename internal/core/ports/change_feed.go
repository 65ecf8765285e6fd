package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// OrdersChangedTopic is the primary-key-scoped notification channel for the
// orders collection.
const OrdersChangedTopic = "orders_changed"

// Change is one notification batch from the change feed. The feed is scoped
// by primary key only: it delivers the ids of rows that were inserted,
// updated or deleted, never filtered rows. Consumers re-fetch the full rows
// for exactly these ids. A batch with Resync set means notifications may
// have been lost; consumers must re-fetch their entire result set instead.
type Change struct {
	IDs    []kernel.UUID
	Resync bool
}

// ChangeFeed is the remote store's native change-notification capability.
type ChangeFeed interface {
	// Subscribe starts listening on a topic. Batches arrive on the returned
	// channel until ctx is cancelled; the channel is closed on teardown and
	// nothing is delivered afterwards.
	Subscribe(ctx context.Context, topic string) (<-chan Change, error)
}
