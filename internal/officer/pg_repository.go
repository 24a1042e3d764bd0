package officer

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

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const officerColumns = `
	id, name, department, email, status,
	workload_current, workload_maximum, availability,
	avg_processing_mins, rating_avg, rating_count, completed_count,
	created_at, updated_at
`

func scanOfficer(row pgx.Row) (*Officer, error) {
	var o Officer
	var email *string
	var availability []byte

	err := row.Scan(
		&o.ID,
		&o.Name,
		&o.Department,
		&email,
		&o.Status,
		&o.Workload.Current,
		&o.Workload.Maximum,
		&availability,
		&o.AvgProcessingMins,
		&o.RatingAvg,
		&o.RatingCount,
		&o.CompletedCount,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfficerNotFound
		}
		return nil, err
	}

	o.Email = email
	o.Availability = WeekAvailability{}
	if len(availability) > 0 {
		if err := json.Unmarshal(availability, &o.Availability); err != nil {
			return nil, fmt.Errorf("decode officer availability: %w", err)
		}
	}
	return &o, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Officer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+officerColumns+`
		FROM officers
		WHERE id = $1
	`, id)
	return scanOfficer(row)
}

func (r *PgRepository) ListActive(ctx context.Context) ([]Officer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+officerColumns+`
		FROM officers
		WHERE status = 'active'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Officer
	for rows.Next() {
		o, err := scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) AdjustWorkload(ctx context.Context, id uuid.UUID, delta int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE officers
		SET workload_current = GREATEST(workload_current + $2, 0),
		    updated_at = now()
		WHERE id = $1
	`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust workload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOfficerNotFound
	}
	return nil
}

func (r *PgRepository) RecordCompletion(ctx context.Context, id uuid.UUID, processing time.Duration, rating *int) error {
	mins := processing.Minutes()

	tag, err := r.pool.Exec(ctx, `
		UPDATE officers
		SET avg_processing_mins = (avg_processing_mins * completed_count + $2) / (completed_count + 1),
		    completed_count = completed_count + 1,
		    rating_avg = CASE
		        WHEN $3::int IS NULL THEN rating_avg
		        ELSE (rating_avg * rating_count + $3) / (rating_count + 1)
		    END,
		    rating_count = CASE
		        WHEN $3::int IS NULL THEN rating_count
		        ELSE rating_count + 1
		    END,
		    updated_at = now()
		WHERE id = $1
	`, id, mins, rating)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOfficerNotFound
	}
	return nil
}
