package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `
	id, application_id, application_type,
	applicant_name, applicant_email, applicant_phone, applicant_nic,
	officer_id, officer_name, officer_department,
	appointment_date, time_slot, duration_mins,
	venue_name, venue_address, venue_room,
	status, reminder_24h_sent, reminder_2h_sent, reminder_30m_sent,
	check_in_time, check_out_time, feedback_rating, feedback_comment,
	cancellation_reason, cancelled_by, cancelled_at,
	created_at, updated_at
`

// tierColumns maps reminder tiers to their flag columns. Only these vetted
// names are ever interpolated into SQL.
var tierColumns = map[ReminderTier]string{
	Reminder24Hour:   "reminder_24h_sent",
	Reminder2Hour:    "reminder_2h_sent",
	Reminder30Minute: "reminder_30m_sent",
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var nic, venueRoom, cancelReason, cancelledBy, fbComment *string
	var fbRating *int

	err := row.Scan(
		&a.ID,
		&a.ApplicationID,
		&a.ApplicationType,
		&a.Applicant.Name,
		&a.Applicant.Email,
		&a.Applicant.Phone,
		&nic,
		&a.Officer.ID,
		&a.Officer.Name,
		&a.Officer.Department,
		&a.Details.Date,
		&a.Details.TimeSlot,
		&a.Details.Duration,
		&a.Details.Venue.Name,
		&a.Details.Venue.Address,
		&venueRoom,
		&a.Status,
		&a.Reminders.TwentyFourHour,
		&a.Reminders.TwoHour,
		&a.Reminders.ThirtyMinute,
		&a.CheckInTime,
		&a.CheckOutTime,
		&fbRating,
		&fbComment,
		&cancelReason,
		&cancelledBy,
		&a.CancelledAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Applicant.NICNumber = nic
	a.Details.Venue.Room = venueRoom
	a.CancellationReason = cancelReason
	a.CancelledBy = cancelledBy
	if fbRating != nil {
		a.Feedback = &Feedback{Rating: *fbRating}
		if fbComment != nil {
			a.Feedback.Comment = *fbComment
		}
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PgRepository) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			id, application_id, application_type,
			applicant_name, applicant_email, applicant_phone, applicant_nic,
			officer_id, officer_name, officer_department,
			appointment_date, time_slot, duration_mins,
			venue_name, venue_address, venue_room,
			status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, 'scheduled', now(), now())
		RETURNING `+appointmentColumns+`
	`,
		a.ID, a.ApplicationID, a.ApplicationType,
		a.Applicant.Name, a.Applicant.Email, a.Applicant.Phone, a.Applicant.NICNumber,
		a.Officer.ID, a.Officer.Name, a.Officer.Department,
		a.Details.Date, a.Details.TimeSlot, a.Details.Duration,
		a.Details.Venue.Name, a.Details.Venue.Address, a.Details.Venue.Room,
	)

	created, err := scanAppointment(row)
	if err != nil {
		// The partial unique index over non-terminal statuses is the
		// authoritative double-booking guard; the pre-check only makes the
		// common case fail early.
		if isUniqueViolation(err) {
			return ErrBookingConflict
		}
		return err
	}

	*a = *created
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row)
	if err != nil {
		return nil, err
	}

	history, err := r.listReschedules(ctx, id)
	if err != nil {
		return nil, err
	}
	a.RescheduleHistory = history
	return a, nil
}

func (r *PgRepository) listReschedules(ctx context.Context, id uuid.UUID) ([]RescheduleEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT previous_date, previous_time_slot, reason, rescheduled_by, rescheduled_at
		FROM appointment_reschedules
		WHERE appointment_id = $1
		ORDER BY rescheduled_at, id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []RescheduleEntry
	for rows.Next() {
		var e RescheduleEntry
		if err := rows.Scan(&e.PreviousDate, &e.PreviousTimeSlot, &e.Reason, &e.RescheduledBy, &e.RescheduledAt); err != nil {
			return nil, err
		}
		history = append(history, e)
	}
	return history, rows.Err()
}

func (r *PgRepository) GetActiveForSlot(ctx context.Context, officerID uuid.UUID, date time.Time, slot string, excludeID uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE officer_id = $1
		  AND appointment_date = $2
		  AND time_slot = $3
		  AND status IN ('scheduled', 'confirmed', 'rescheduled', 'in_progress')
		  AND id <> $4
		LIMIT 1
	`, officerID, date, slot, excludeID)
	return scanAppointment(row)
}

func (r *PgRepository) ListActiveSlots(ctx context.Context, officerID uuid.UUID, date time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT time_slot
		FROM appointments
		WHERE officer_id = $1
		  AND appointment_date = $2
		  AND status IN ('scheduled', 'confirmed', 'rescheduled', 'in_progress')
	`, officerID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PgRepository) Reschedule(ctx context.Context, id uuid.UUID, newDate time.Time, newSlot string, entry RescheduleEntry) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE appointments
		SET appointment_date = $2,
		    time_slot = $3,
		    status = 'rescheduled',
		    reminder_24h_sent = false,
		    reminder_2h_sent = false,
		    reminder_30m_sent = false,
		    updated_at = now()
		WHERE id = $1
		  AND status IN ('scheduled', 'confirmed', 'rescheduled')
		RETURNING `+appointmentColumns+`
	`, id, newDate, newSlot)

	updated, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBookingConflict
		}
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, r.disambiguate(ctx, id)
		}
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO appointment_reschedules
			(appointment_id, previous_date, previous_time_slot, reason, rescheduled_by, rescheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, entry.PreviousDate, entry.PreviousTimeSlot, entry.Reason, entry.RescheduledBy, entry.RescheduledAt)
	if err != nil {
		return nil, fmt.Errorf("append reschedule history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	updated.RescheduleHistory, err = r.listReschedules(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PgRepository) Cancel(ctx context.Context, id uuid.UUID, reason, cancelledBy string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'cancelled',
		    cancellation_reason = $2,
		    cancelled_by = $3,
		    cancelled_at = now(),
		    updated_at = now()
		WHERE id = $1
		  AND status IN ('scheduled', 'confirmed', 'rescheduled', 'in_progress')
		RETURNING `+appointmentColumns+`
	`, id, reason, cancelledBy)

	cancelled, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, r.disambiguate(ctx, id)
		}
		return nil, err
	}
	return cancelled, nil
}

func (r *PgRepository) CheckIn(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'in_progress',
		    check_in_time = now(),
		    updated_at = now()
		WHERE id = $1
		  AND status IN ('scheduled', 'confirmed', 'rescheduled')
		RETURNING `+appointmentColumns+`
	`, id)

	checked, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, r.disambiguate(ctx, id)
		}
		return nil, err
	}
	return checked, nil
}

func (r *PgRepository) Complete(ctx context.Context, id uuid.UUID, fb *Feedback) (*Appointment, error) {
	var rating *int
	var comment *string
	if fb != nil {
		rating = &fb.Rating
		if fb.Comment != "" {
			comment = &fb.Comment
		}
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'completed',
		    check_out_time = now(),
		    feedback_rating = $2,
		    feedback_comment = $3,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'in_progress'
		RETURNING `+appointmentColumns+`
	`, id, rating, comment)

	done, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, r.disambiguate(ctx, id)
		}
		return nil, err
	}
	return done, nil
}

func (r *PgRepository) FindDueForReminder(ctx context.Context, tier ReminderTier, from, to time.Time) ([]Appointment, error) {
	col, ok := tierColumns[tier]
	if !ok {
		return nil, fmt.Errorf("unknown reminder tier %q", tier)
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status IN ('scheduled', 'confirmed', 'rescheduled', 'in_progress')
		  AND %s = false
		  AND (appointment_date + time_slot::time) AT TIME ZONE 'UTC' >= $1
		  AND (appointment_date + time_slot::time) AT TIME ZONE 'UTC' <= $2
	`, col), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, tier ReminderTier) error {
	col, ok := tierColumns[tier]
	if !ok {
		return fmt.Errorf("unknown reminder tier %q", tier)
	}

	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE appointments
		SET %s = true,
		    updated_at = now()
		WHERE id = $1
	`, col), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) FindOverdue(ctx context.Context, startedBefore time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status IN ('scheduled', 'confirmed')
		  AND (appointment_date + time_slot::time) AT TIME ZONE 'UTC' < $1
	`, startedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) MarkNoShow(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'no_show',
		    updated_at = now()
		WHERE id = $1
		  AND status IN ('scheduled', 'confirmed')
		RETURNING `+appointmentColumns+`
	`, id)

	marked, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, r.disambiguate(ctx, id)
		}
		return nil, err
	}
	return marked, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// disambiguate turns a zero-row conditional update into the right sentinel:
// not-found when the row is missing, invalid-transition when it exists in a
// state the update's precondition rejects.
func (r *PgRepository) disambiguate(ctx context.Context, id uuid.UUID) error {
	var status Status
	err := r.pool.QueryRow(ctx, `SELECT status FROM appointments WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, status)
}
