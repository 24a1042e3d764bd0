package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/appointment"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/notification"
)

func TestRegister_QueuesAllTiers(t *testing.T) {
	appt := apptStartingIn(48 * time.Hour)
	sink := &recordingSink{}
	scheduler := NewScheduler(sink, zerolog.Nop())

	require.NoError(t, scheduler.Register(context.Background(), appt))

	queued := sink.all()
	require.Len(t, queued, 3)

	start, err := appt.StartTime()
	require.NoError(t, err)

	byTier := map[string]notification.Notification{}
	for _, n := range queued {
		byTier[n.Metadata["reminderType"]] = n
	}

	email := byTier[string(appointment.Reminder24Hour)]
	assert.Equal(t, notification.ChannelEmail, email.Channel)
	assert.Equal(t, appt.Applicant.Email, email.UserID)
	assert.True(t, email.ScheduledAt.Equal(start.Add(-24*time.Hour)))

	sms := byTier[string(appointment.Reminder2Hour)]
	assert.Equal(t, notification.ChannelSMS, sms.Channel)
	assert.Equal(t, appt.Applicant.Phone, sms.UserID)
	assert.True(t, sms.ScheduledAt.Equal(start.Add(-2*time.Hour)))

	push := byTier[string(appointment.Reminder30Minute)]
	assert.Equal(t, notification.ChannelPush, push.Channel)
	assert.True(t, push.ScheduledAt.Equal(start.Add(-30*time.Minute)))

	for _, n := range queued {
		assert.Equal(t, notification.PriorityHigh, n.Priority)
		assert.Equal(t, appt.ID.String(), n.Metadata["appointmentId"])
		assert.Equal(t, "reminder_scheduler", n.Metadata["source"])
	}
}

func TestRegister_InvalidSlot(t *testing.T) {
	appt := apptStartingIn(48 * time.Hour)
	appt.Details.TimeSlot = "half past nine"
	sink := &recordingSink{}
	scheduler := NewScheduler(sink, zerolog.Nop())

	assert.Error(t, scheduler.Register(context.Background(), appt))
	assert.Empty(t, sink.all())
}

func TestRegister_SinkFailurePropagates(t *testing.T) {
	appt := apptStartingIn(48 * time.Hour)
	sink := &recordingSink{fail: true}
	scheduler := NewScheduler(sink, zerolog.Nop())

	assert.Error(t, scheduler.Register(context.Background(), appt))
}
