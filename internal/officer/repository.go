package officer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrOfficerNotFound = errors.New("officer not found")

// Repository is the external officer port. Lookups feed the availability
// resolver; AdjustWorkload and RecordCompletion are the only writes this
// subsystem performs against officer records.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Officer, error)
	ListActive(ctx context.Context) ([]Officer, error)

	// AdjustWorkload moves workload.current by delta, clamped at zero.
	AdjustWorkload(ctx context.Context, id uuid.UUID, delta int) error

	// RecordCompletion folds one finished appointment into the officer's
	// running averages.
	RecordCompletion(ctx context.Context, id uuid.UUID, processing time.Duration, rating *int) error
}
