package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/notification"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/officer"
	redisclient "github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/redis"
)

var (
	ErrOfficerUnavailable = errors.New("officer is not available")
	ErrSlotBeingBooked    = errors.New("slot is currently being booked, please retry")
)

// ReminderRegistrar registers the tiered reminder set for an appointment.
// Implemented by the reminder scheduler; an interface here keeps the booking
// service free of the reminder package.
type ReminderRegistrar interface {
	Register(ctx context.Context, appt *Appointment) error
}

// BookingInput is the request to reserve a slot.
type BookingInput struct {
	ApplicationID   string
	ApplicationType ApplicationType
	Applicant       ApplicantInfo
	OfficerID       uuid.UUID
	Date            time.Time
	TimeSlot        string
	Duration        int // minutes; zero means the configured default
	Venue           Venue
}

// Service is the booking ledger. All collaborators are constructor-injected;
// there are no package-level singletons.
type Service struct {
	repo         Repository
	officers     officer.Repository
	locker       redisclient.Locker
	sink         notification.Sink
	reminders    ReminderRegistrar
	slotDuration time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

func NewService(
	repo Repository,
	officers officer.Repository,
	locker redisclient.Locker,
	sink notification.Sink,
	reminders ReminderRegistrar,
	slotDuration time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		officers:     officers,
		locker:       locker,
		sink:         sink,
		reminders:    reminders,
		slotDuration: slotDuration,
		now:          time.Now,
		log:          log.With().Str("component", "booking").Logger(),
	}
}

func bookingLockKey(officerID uuid.UUID, date time.Time, slot string) string {
	return fmt.Sprintf("booking:%s:%s:%s", officerID, date.Format("2006-01-02"), slot)
}

// AvailableSlots returns each selected officer's free slots for the day.
// Officers that are inactive or off that weekday are excluded; a selected
// officer with a fully booked day still appears with an empty slice. No
// available officers is an empty map, not an error.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time, officerID *uuid.UUID, duration time.Duration) (map[uuid.UUID][]string, error) {
	if duration <= 0 {
		duration = s.slotDuration
	}

	var candidates []officer.Officer
	if officerID != nil {
		o, err := s.officers.GetByID(ctx, *officerID)
		if err != nil {
			if errors.Is(err, officer.ErrOfficerNotFound) {
				return map[uuid.UUID][]string{}, nil
			}
			return nil, fmt.Errorf("load officer: %w", err)
		}
		if o.Status == officer.StatusActive {
			candidates = append(candidates, *o)
		}
	} else {
		all, err := s.officers.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("list officers: %w", err)
		}
		candidates = all
	}

	weekday := WeekdayName(date)
	result := make(map[uuid.UUID][]string)

	for _, o := range candidates {
		day, ok := o.AvailableOn(weekday)
		if !ok {
			continue
		}

		slots, err := GenerateSlots(day.Start, day.End, duration)
		if err != nil {
			return nil, fmt.Errorf("generate slots for officer %s: %w", o.ID, err)
		}

		booked, err := s.repo.ListActiveSlots(ctx, o.ID, date)
		if err != nil {
			return nil, fmt.Errorf("list booked slots for officer %s: %w", o.ID, err)
		}

		result[o.ID] = FreeSlots(slots, booked)
	}

	return result, nil
}

// Book reserves (officer, date, slot) for an applicant. The conflict check
// and insert run under a per-slot lock; the storage layer's partial unique
// index backstops the check when the lock is unavailable.
func (s *Service) Book(ctx context.Context, input BookingInput) (*Appointment, error) {
	o, err := s.officers.GetByID(ctx, input.OfficerID)
	if err != nil {
		if errors.Is(err, officer.ErrOfficerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load officer: %w", err)
	}
	if o.Status != officer.StatusActive {
		return nil, ErrOfficerUnavailable
	}

	duration := input.Duration
	if duration <= 0 {
		duration = int(s.slotDuration.Minutes())
	}

	appt := &Appointment{
		ApplicationID:   input.ApplicationID,
		ApplicationType: input.ApplicationType,
		Applicant:       input.Applicant,
		Officer: OfficerInfo{
			ID:         o.ID,
			Name:       o.Name,
			Department: o.Department,
		},
		Details: Details{
			Date:     input.Date,
			TimeSlot: input.TimeSlot,
			Duration: duration,
			Venue:    input.Venue,
		},
	}

	key := bookingLockKey(input.OfficerID, input.Date, input.TimeSlot)
	err = s.locker.WithLock(ctx, key, func(lockCtx context.Context) error {
		existing, err := s.repo.GetActiveForSlot(lockCtx, input.OfficerID, input.Date, input.TimeSlot, uuid.Nil)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("conflict check: %w", err)
		}
		if existing != nil {
			return ErrBookingConflict
		}
		return s.repo.Create(lockCtx, appt)
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.afterBooking(ctx, appt)
	return appt, nil
}

// afterBooking runs the post-persist side effects: workload, reminders and
// the confirmation message. None of them can fail the booking; each is
// logged and left for reconciliation instead.
func (s *Service) afterBooking(ctx context.Context, appt *Appointment) {
	if err := s.officers.AdjustWorkload(ctx, appt.Officer.ID, 1); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Str("officer_id", appt.Officer.ID.String()).
			Msg("workload increment failed")
	}

	if err := s.reminders.Register(ctx, appt); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Msg("reminder registration failed")
	}

	subject := "Appointment confirmed"
	s.notify(ctx, appt, notification.Notification{
		UserID:   appt.Applicant.Email,
		Type:     "appointment_confirmation",
		Channel:  notification.ChannelEmail,
		Priority: notification.PriorityNormal,
		Category: "appointment",
		Subject:  &subject,
		Message: fmt.Sprintf("Your %s appointment is confirmed for %s at %s, %s.",
			appt.ApplicationType,
			appt.Details.Date.Format("2006-01-02"),
			appt.Details.TimeSlot,
			appt.Details.Venue.Name),
	})
}

// Reschedule moves an appointment to a new slot, appending the audit entry
// and resetting the reminder flags so the full reminder set re-fires.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newDate time.Time, newSlot, reason, rescheduledBy string) (*Appointment, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := RescheduleEntry{
		PreviousDate:     current.Details.Date,
		PreviousTimeSlot: current.Details.TimeSlot,
		Reason:           reason,
		RescheduledBy:    rescheduledBy,
		RescheduledAt:    s.now().UTC(),
	}

	var updated *Appointment
	key := bookingLockKey(current.Officer.ID, newDate, newSlot)
	err = s.locker.WithLock(ctx, key, func(lockCtx context.Context) error {
		existing, err := s.repo.GetActiveForSlot(lockCtx, current.Officer.ID, newDate, newSlot, id)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("conflict check: %w", err)
		}
		if existing != nil {
			return ErrBookingConflict
		}

		updated, err = s.repo.Reschedule(lockCtx, id, newDate, newSlot, entry)
		return err
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	if err := s.reminders.Register(ctx, updated); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", id.String()).
			Msg("reminder re-registration failed")
	}

	subject := "Appointment rescheduled"
	s.notify(ctx, updated, notification.Notification{
		UserID:   updated.Applicant.Email,
		Type:     "appointment_rescheduled",
		Channel:  notification.ChannelEmail,
		Priority: notification.PriorityNormal,
		Category: "appointment",
		Subject:  &subject,
		Message: fmt.Sprintf("Your appointment has been moved to %s at %s.",
			newDate.Format("2006-01-02"), newSlot),
	})

	return updated, nil
}

// Cancel marks the appointment cancelled and releases the officer's workload.
// The slot frees up immediately; reminder sweeps skip terminal statuses so no
// de-registration is needed.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason, cancelledBy string) (*Appointment, error) {
	cancelled, err := s.repo.Cancel(ctx, id, reason, cancelledBy)
	if err != nil {
		return nil, err
	}

	if err := s.officers.AdjustWorkload(ctx, cancelled.Officer.ID, -1); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", id.String()).
			Str("officer_id", cancelled.Officer.ID.String()).
			Msg("workload decrement failed")
	}

	subject := "Appointment cancelled"
	s.notify(ctx, cancelled, notification.Notification{
		UserID:   cancelled.Applicant.Email,
		Type:     "appointment_cancelled",
		Channel:  notification.ChannelEmail,
		Priority: notification.PriorityNormal,
		Category: "appointment",
		Subject:  &subject,
		Message: fmt.Sprintf("Your appointment on %s at %s has been cancelled. Reason: %s",
			cancelled.Details.Date.Format("2006-01-02"),
			cancelled.Details.TimeSlot,
			reason),
	})

	return cancelled, nil
}

// CheckIn moves a scheduled appointment into progress.
func (s *Service) CheckIn(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.CheckIn(ctx, id)
}

// CheckOut completes an in-progress appointment, releases workload and folds
// the visit into the officer's performance metrics.
func (s *Service) CheckOut(ctx context.Context, id uuid.UUID, fb *Feedback) (*Appointment, error) {
	if fb != nil && (fb.Rating < 1 || fb.Rating > 5) {
		return nil, fmt.Errorf("feedback rating must be between 1 and 5, got %d", fb.Rating)
	}

	done, err := s.repo.Complete(ctx, id, fb)
	if err != nil {
		return nil, err
	}

	if err := s.officers.AdjustWorkload(ctx, done.Officer.ID, -1); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", id.String()).
			Str("officer_id", done.Officer.ID.String()).
			Msg("workload decrement failed")
	}

	if done.CheckInTime != nil && done.CheckOutTime != nil {
		processing := done.CheckOutTime.Sub(*done.CheckInTime)
		var rating *int
		if done.Feedback != nil {
			rating = &done.Feedback.Rating
		}
		if err := s.officers.RecordCompletion(ctx, done.Officer.ID, processing, rating); err != nil {
			s.log.Error().Err(err).
				Str("officer_id", done.Officer.ID.String()).
				Msg("record completion failed")
		}
	}

	return done, nil
}

// Get retrieves an appointment with its reschedule history.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) notify(ctx context.Context, appt *Appointment, n notification.Notification) {
	if n.Metadata == nil {
		n.Metadata = map[string]string{}
	}
	n.Metadata["appointmentId"] = appt.ID.String()
	n.Metadata["source"] = "appointment_service"

	if err := s.sink.Schedule(ctx, n); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Str("type", n.Type).
			Msg("schedule notification failed")
	}
}
