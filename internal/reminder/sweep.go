package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/appointment"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/notification"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/officer"
)

// Sweeper is the periodic job scanning the booking ledger for due reminders
// and overdue appointments. Each appointment is handled independently: a
// failure is logged with its id and the rest of the pass continues, and a
// reminder whose send failed keeps its flag false so the next tick retries.
type Sweeper struct {
	repo         appointment.Repository
	officers     officer.Repository
	sink         notification.Sink
	overdueGrace time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

func NewSweeper(
	repo appointment.Repository,
	officers officer.Repository,
	sink notification.Sink,
	overdueGrace time.Duration,
	log zerolog.Logger,
) *Sweeper {
	return &Sweeper{
		repo:         repo,
		officers:     officers,
		sink:         sink,
		overdueGrace: overdueGrace,
		now:          time.Now,
		log:          log.With().Str("component", "reminder-sweep").Logger(),
	}
}

// Run executes one full sweep: every reminder tier, then the overdue pass.
func (s *Sweeper) Run(ctx context.Context) error {
	var firstErr error
	if err := s.SweepReminders(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.SweepOverdue(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// SweepReminders matches non-terminal appointments whose start falls inside
// each tier's window around now+lead and whose tier flag is still false,
// emits the tier's notification and marks the flag.
func (s *Sweeper) SweepReminders(ctx context.Context) error {
	now := s.now().UTC()

	var firstErr error
	for _, tier := range Tiers {
		target := now.Add(tier.Lead)
		due, err := s.repo.FindDueForReminder(ctx, tier.Name, target.Add(-tier.Tolerance), target.Add(tier.Tolerance))
		if err != nil {
			s.log.Error().Err(err).
				Str("tier", string(tier.Name)).
				Msg("find due reminders failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("find due %s reminders: %w", tier.Name, err)
			}
			continue
		}

		sent := 0
		for i := range due {
			if s.sendReminder(ctx, &due[i], tier) {
				sent++
			}
		}

		if len(due) > 0 {
			s.log.Info().
				Str("tier", string(tier.Name)).
				Int("matched", len(due)).
				Int("sent", sent).
				Msg("reminder tier swept")
		}
	}
	return firstErr
}

// sendReminder emits one reminder and marks its flag. The flag is only set
// after the emit succeeds; a failed emit leaves it false for the next tick.
func (s *Sweeper) sendReminder(ctx context.Context, appt *appointment.Appointment, tier Tier) bool {
	n := buildReminder(appt, tier, "reminder_sweep")

	if err := s.sink.Schedule(ctx, n); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Str("tier", string(tier.Name)).
			Msg("emit reminder failed")
		return false
	}

	if err := s.repo.MarkReminderSent(ctx, appt.ID, tier.Name); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Str("tier", string(tier.Name)).
			Msg("mark reminder sent failed")
		return false
	}
	return true
}

// SweepOverdue finds scheduled/confirmed appointments whose start passed more
// than the grace period ago, transitions them to no_show, releases the
// officer's workload and alerts the officer.
func (s *Sweeper) SweepOverdue(ctx context.Context) error {
	now := s.now().UTC()
	cutoff := now.Add(-s.overdueGrace)

	overdue, err := s.repo.FindOverdue(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("find overdue appointments: %w", err)
	}

	for i := range overdue {
		s.markNoShow(ctx, &overdue[i])
	}

	if len(overdue) > 0 {
		s.log.Info().Int("matched", len(overdue)).Msg("overdue pass complete")
	}
	return nil
}

func (s *Sweeper) markNoShow(ctx context.Context, appt *appointment.Appointment) {
	marked, err := s.repo.MarkNoShow(ctx, appt.ID)
	if err != nil {
		// Another actor (cancel, check-in, a concurrent sweep) may have
		// already moved it; that is not a failure of this pass.
		if errors.Is(err, appointment.ErrInvalidTransition) || errors.Is(err, appointment.ErrAppointmentNotFound) {
			return
		}
		s.log.Error().Err(err).
			Str("appointment_id", appt.ID.String()).
			Msg("mark no-show failed")
		return
	}

	if err := s.officers.AdjustWorkload(ctx, marked.Officer.ID, -1); err != nil {
		s.log.Error().Err(err).
			Str("officer_id", marked.Officer.ID.String()).
			Msg("workload decrement failed")
	}

	subject := "Applicant did not arrive"
	n := notification.Notification{
		UserID:   marked.Officer.ID.String(),
		Type:     "appointment_no_show",
		Channel:  notification.ChannelPush,
		Priority: notification.PriorityNormal,
		Category: "appointment",
		Subject:  &subject,
		Message: fmt.Sprintf("Appointment %s (%s at %s) was marked no-show.",
			marked.ID,
			marked.Details.Date.Format("2006-01-02"),
			marked.Details.TimeSlot),
		Metadata: map[string]string{
			"appointmentId": marked.ID.String(),
			"source":        "reminder_sweep",
		},
	}
	if err := s.sink.Schedule(ctx, n); err != nil {
		s.log.Error().Err(err).
			Str("appointment_id", marked.ID.String()).
			Msg("no-show alert failed")
	}
}
