package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	retryBackoff  = 5 * time.Minute
	dispatchBatch = 100
)

// Store is the queue persistence the dispatcher drains.
type Store interface {
	FindDue(ctx context.Context, now time.Time, limit int) ([]Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	RecordFailure(ctx context.Context, id uuid.UUID, nextRetry time.Time) error
}

// Dispatcher delivers due notifications through per-channel senders. Failures
// are retried with a fixed backoff up to the notification's max_retries and
// then marked failed; one notification's failure never blocks the rest of the
// batch.
type Dispatcher struct {
	store   Store
	senders Senders
	now     func() time.Time
	log     zerolog.Logger
}

func NewDispatcher(store Store, senders Senders, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		senders: senders,
		now:     time.Now,
		log:     log.With().Str("component", "notification-dispatcher").Logger(),
	}
}

// DispatchDue processes one batch of due notifications.
func (d *Dispatcher) DispatchDue(ctx context.Context) error {
	now := d.now().UTC()

	due, err := d.store.FindDue(ctx, now, dispatchBatch)
	if err != nil {
		return fmt.Errorf("find due notifications: %w", err)
	}

	for _, n := range due {
		d.deliver(ctx, n, now)
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, n Notification, now time.Time) {
	sender, ok := d.senders[n.Channel]
	if !ok {
		d.log.Error().
			Str("notification_id", n.ID.String()).
			Str("channel", string(n.Channel)).
			Msg("no sender for channel")
		d.recordFailure(ctx, n, now)
		return
	}

	if err := sender.Send(ctx, n); err != nil {
		d.log.Warn().
			Err(err).
			Str("notification_id", n.ID.String()).
			Int("retry_count", n.RetryCount).
			Msg("notification send failed")
		d.recordFailure(ctx, n, now)
		return
	}

	if err := d.store.MarkSent(ctx, n.ID, now); err != nil {
		d.log.Error().
			Err(err).
			Str("notification_id", n.ID.String()).
			Msg("mark sent failed")
	}
}

func (d *Dispatcher) recordFailure(ctx context.Context, n Notification, now time.Time) {
	if err := d.store.RecordFailure(ctx, n.ID, now.Add(retryBackoff)); err != nil {
		d.log.Error().
			Err(err).
			Str("notification_id", n.ID.String()).
			Msg("record failure failed")
	}
}
