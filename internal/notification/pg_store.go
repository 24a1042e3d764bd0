package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotificationNotFound = errors.New("notification not found")

// PgStore persists the notification queue. It is the Sink the scheduling
// subsystem hands payloads to, and the store the dispatcher drains.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const notificationColumns = `
	id, user_id, type, channel, priority, category, subject, message,
	status, scheduled_at, sent_at, retry_count, max_retries, next_retry_at,
	metadata, created_at, updated_at
`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	var subject *string
	var metadata []byte

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Channel,
		&n.Priority,
		&n.Category,
		&subject,
		&n.Message,
		&n.Status,
		&n.ScheduledAt,
		&n.SentAt,
		&n.RetryCount,
		&n.MaxRetries,
		&n.NextRetryAt,
		&metadata,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	n.Subject = subject
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("decode notification metadata: %w", err)
		}
	}
	return &n, nil
}

func (s *PgStore) Schedule(ctx context.Context, n Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}
	if n.MaxRetries == 0 {
		n.MaxRetries = DefaultMaxRetries
	}
	if n.ScheduledAt.IsZero() {
		n.ScheduledAt = time.Now().UTC()
	}

	var metadata []byte
	if len(n.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("encode notification metadata: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (
			id, user_id, type, channel, priority, category, subject, message,
			status, scheduled_at, retry_count, max_retries, metadata,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9, 0, $10, $11, now(), now())
	`, n.ID, n.UserID, n.Type, n.Channel, n.Priority, n.Category, n.Subject,
		n.Message, n.ScheduledAt, n.MaxRetries, metadata)
	if err != nil {
		return fmt.Errorf("schedule notification: %w", err)
	}
	return nil
}

// FindDue returns pending notifications whose scheduled time (or retry time)
// has arrived.
func (s *PgStore) FindDue(ctx context.Context, now time.Time, limit int) ([]Notification, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE status = 'pending'
		  AND scheduled_at <= $1
		  AND (next_retry_at IS NULL OR next_retry_at <= $1)
		ORDER BY priority = 'high' DESC, scheduled_at
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

func (s *PgStore) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET status = 'sent', sent_at = $2, updated_at = now()
		WHERE id = $1
	`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// RecordFailure bumps the retry counter; once retries are exhausted the
// notification goes terminal failed, otherwise it is re-queued for nextRetry.
func (s *PgStore) RecordFailure(ctx context.Context, id uuid.UUID, nextRetry time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET retry_count = retry_count + 1,
		    status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
		    next_retry_at = CASE WHEN retry_count + 1 >= max_retries THEN NULL ELSE $2 END,
		    updated_at = now()
		WHERE id = $1
	`, id, nextRetry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
