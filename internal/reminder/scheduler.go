package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/appointment"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/notification"
)

// Tier is one reminder lead-time ahead of an appointment's start.
type Tier struct {
	Name    appointment.ReminderTier
	Lead    time.Duration
	Channel notification.Channel

	// Tolerance is the half-width of the sweep's match window. The sweep
	// runs every half hour while fire-times are computed to the minute, so
	// the infrequent tiers match within half the sweep period; the final
	// tier keeps a tighter window to avoid double-firing across adjacent
	// runs.
	Tolerance time.Duration

	Label string
}

// Tiers is the fixed reminder cadence: email a day out, SMS two hours out,
// push half an hour out.
var Tiers = []Tier{
	{Name: appointment.Reminder24Hour, Lead: 24 * time.Hour, Channel: notification.ChannelEmail, Tolerance: 15 * time.Minute, Label: "24 hours"},
	{Name: appointment.Reminder2Hour, Lead: 2 * time.Hour, Channel: notification.ChannelSMS, Tolerance: 15 * time.Minute, Label: "2 hours"},
	{Name: appointment.Reminder30Minute, Lead: 30 * time.Minute, Channel: notification.ChannelPush, Tolerance: 5 * time.Minute, Label: "30 minutes"},
}

// Scheduler registers the three-tier reminder set against the notification
// queue. It does not deduplicate by time window; re-registration after a
// reschedule relies on the reminder flags having been reset.
type Scheduler struct {
	sink notification.Sink
	log  zerolog.Logger
}

func NewScheduler(sink notification.Sink, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		sink: sink,
		log:  log.With().Str("component", "reminder-scheduler").Logger(),
	}
}

// Register queues one notification per tier at the appointment's fire-times.
func (s *Scheduler) Register(ctx context.Context, appt *appointment.Appointment) error {
	start, err := appt.StartTime()
	if err != nil {
		return err
	}

	for _, tier := range Tiers {
		n := buildReminder(appt, tier, "reminder_scheduler")
		n.ScheduledAt = start.Add(-tier.Lead)

		if err := s.sink.Schedule(ctx, n); err != nil {
			return fmt.Errorf("register %s reminder: %w", tier.Name, err)
		}
	}

	s.log.Debug().
		Str("appointment_id", appt.ID.String()).
		Time("start", start).
		Msg("reminders registered")
	return nil
}

func buildReminder(appt *appointment.Appointment, tier Tier, source string) notification.Notification {
	subject := "Appointment reminder"

	return notification.Notification{
		UserID:   recipientFor(appt, tier.Channel),
		Type:     "appointment_reminder",
		Channel:  tier.Channel,
		Priority: notification.PriorityHigh,
		Category: "appointment",
		Subject:  &subject,
		Message: fmt.Sprintf("Your %s appointment at %s is in %s (%s at %s).",
			appt.ApplicationType,
			appt.Details.Venue.Name,
			tier.Label,
			appt.Details.Date.Format("2006-01-02"),
			appt.Details.TimeSlot),
		Metadata: map[string]string{
			"appointmentId": appt.ID.String(),
			"reminderType":  string(tier.Name),
			"source":        source,
		},
	}
}

func recipientFor(appt *appointment.Appointment, ch notification.Channel) string {
	if ch == notification.ChannelSMS {
		return appt.Applicant.Phone
	}
	return appt.Applicant.Email
}
