package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrBookingConflict     = errors.New("slot already has an active booking")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// Repository contains all booking-ledger DB interactions needed by the
// service and the reminder sweep.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// GetActiveForSlot is the conflict check: the non-terminal appointment
	// holding (officerID, date, slot), if any. excludeID (uuid.Nil for none)
	// skips the caller's own appointment during reschedule.
	GetActiveForSlot(ctx context.Context, officerID uuid.UUID, date time.Time, slot string, excludeID uuid.UUID) (*Appointment, error)

	// ListActiveSlots returns the booked slot starts for an officer's day.
	ListActiveSlots(ctx context.Context, officerID uuid.UUID, date time.Time) ([]string, error)

	// Reschedule moves the appointment, appends the audit entry, sets status
	// to rescheduled and resets all reminder flags, atomically.
	Reschedule(ctx context.Context, id uuid.UUID, newDate time.Time, newSlot string, entry RescheduleEntry) (*Appointment, error)

	Cancel(ctx context.Context, id uuid.UUID, reason, cancelledBy string) (*Appointment, error)
	CheckIn(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Complete(ctx context.Context, id uuid.UUID, fb *Feedback) (*Appointment, error)

	// Reminder sweep
	FindDueForReminder(ctx context.Context, tier ReminderTier, from, to time.Time) ([]Appointment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, tier ReminderTier) error

	// Overdue sweep
	FindOverdue(ctx context.Context, startedBefore time.Time) ([]Appointment, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*Appointment, error)
}
