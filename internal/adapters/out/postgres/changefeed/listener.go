// Package changefeed delivers row-level change notifications over Postgres
// LISTEN/NOTIFY. The notification payload is the id of the changed row;
// payloads arriving close together are coalesced into one batch.
package changefeed

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = time.Second
	maxReconnectInterval = 30 * time.Second
	coalesceWindow       = 100 * time.Millisecond
)

// PqChangeFeed implements ports.ChangeFeed on top of pq.Listener.
type PqChangeFeed struct {
	dsn    string
	logger *slog.Logger
}

// NewPqChangeFeed creates a change feed backed by the given connection
// string.
func NewPqChangeFeed(dsn string, logger *slog.Logger) *PqChangeFeed {
	return &PqChangeFeed{
		dsn:    dsn,
		logger: logger.With("component", "change-feed"),
	}
}

// Subscribe starts a LISTEN on the topic. Notifications are coalesced per
// batch and delivered until ctx is cancelled; the channel closes on
// teardown.
func (f *PqChangeFeed) Subscribe(ctx context.Context, topic string) (<-chan ports.Change, error) {
	listener := pq.NewListener(f.dsn, minReconnectInterval, maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				f.logger.Warn("listener event", "event", int(event), "error", err)
			}
		})

	if err := listener.Listen(topic); err != nil {
		_ = listener.Close()
		return nil, errs.NewTransportError("listen "+topic, err)
	}

	changes := make(chan ports.Change)
	go f.pump(ctx, listener, topic, changes)

	return changes, nil
}

func (f *PqChangeFeed) pump(ctx context.Context, listener *pq.Listener, topic string, changes chan<- ports.Change) {
	defer close(changes)
	defer func() {
		if err := listener.Close(); err != nil {
			f.logger.Warn("listener close failed", "topic", topic, "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case notification := <-listener.Notify:
			batch := f.collectBatch(ctx, listener.Notify, notification)
			if len(batch.IDs) == 0 && !batch.Resync {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case changes <- batch:
			}
		case <-time.After(time.Minute):
			// Liveness probe. A silent connection and a dead one look
			// identical from here; Ping forces a reconnect event.
			go func() {
				if err := listener.Ping(); err != nil {
					f.logger.Warn("listener ping failed", "topic", topic, "error", err)
				}
			}()
		}
	}
}

// collectBatch drains notifications arriving within the coalescing window
// into a single change batch.
func (f *PqChangeFeed) collectBatch(ctx context.Context, notify <-chan *pq.Notification, first *pq.Notification) ports.Change {
	seen := make(map[string]struct{})
	batch := ports.Change{}

	appendPayload := func(n *pq.Notification) {
		if n == nil {
			// nil notification marks a reconnect: notifications may have
			// been lost, so the batch tells consumers to re-fetch
			// everything.
			batch.Resync = true
			return
		}
		if _, dup := seen[n.Extra]; dup {
			return
		}
		id, err := kernel.UUIDFromString(n.Extra)
		if err != nil {
			f.logger.Warn("discarding malformed notification payload",
				"payload", n.Extra, "error", err)
			return
		}
		seen[n.Extra] = struct{}{}
		batch.IDs = append(batch.IDs, id)
	}

	appendPayload(first)

	window := time.NewTimer(coalesceWindow)
	defer window.Stop()
	for {
		select {
		case <-ctx.Done():
			return batch
		case n := <-notify:
			appendPayload(n)
		case <-window.C:
			return batch
		}
	}
}
