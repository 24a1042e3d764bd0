package appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusConfirmed   Status = "confirmed"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
	StatusNoShow      Status = "no_show"
)

// NonTerminalStatuses are the statuses that occupy a slot and count as open
// workload. completed, cancelled and no_show are terminal.
var NonTerminalStatuses = []Status{
	StatusScheduled,
	StatusConfirmed,
	StatusRescheduled,
	StatusInProgress,
}

func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type ApplicationType string

const (
	ApplicationNIC      ApplicationType = "nic"
	ApplicationPassport ApplicationType = "passport"
	ApplicationOther    ApplicationType = "other"
)

// ReminderTier names one of the three reminder lead-times.
type ReminderTier string

const (
	Reminder24Hour   ReminderTier = "twenty_four_hour"
	Reminder2Hour    ReminderTier = "two_hour"
	Reminder30Minute ReminderTier = "thirty_minute"
)

// ApplicantInfo is a denormalized snapshot of the citizen taken at booking
// time. It only changes through the reschedule/cancel flows.
type ApplicantInfo struct {
	Name      string
	Email     string
	Phone     string
	NICNumber *string
}

// OfficerInfo is a denormalized snapshot of the assigned officer at booking
// time.
type OfficerInfo struct {
	ID         uuid.UUID
	Name       string
	Department string
}

type Venue struct {
	Name    string
	Address string
	Room    *string
}

// Details carries when and where the appointment happens. Date is the
// calendar day (midnight UTC); TimeSlot is the "HH:MM" slot start.
type Details struct {
	Date     time.Time
	TimeSlot string
	Duration int // minutes
	Venue    Venue
}

// RemindersSent tracks which reminder tiers have fired. All three reset to
// false on reschedule.
type RemindersSent struct {
	TwentyFourHour bool
	TwoHour        bool
	ThirtyMinute   bool
}

func (r RemindersSent) Sent(tier ReminderTier) bool {
	switch tier {
	case Reminder24Hour:
		return r.TwentyFourHour
	case Reminder2Hour:
		return r.TwoHour
	case Reminder30Minute:
		return r.ThirtyMinute
	}
	return false
}

// RescheduleEntry is one record in the append-only reschedule audit trail.
type RescheduleEntry struct {
	PreviousDate     time.Time
	PreviousTimeSlot string
	Reason           string
	RescheduledBy    string
	RescheduledAt    time.Time
}

type Feedback struct {
	Rating  int // 1-5
	Comment string
}

type Appointment struct {
	ID                 uuid.UUID
	ApplicationID      string
	ApplicationType    ApplicationType
	Applicant          ApplicantInfo
	Officer            OfficerInfo
	Details            Details
	Status             Status
	Reminders          RemindersSent
	RescheduleHistory  []RescheduleEntry
	CheckInTime        *time.Time
	CheckOutTime       *time.Time
	Feedback           *Feedback
	CancellationReason *string
	CancelledBy        *string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// StartTime resolves the appointment's absolute start instant from its date
// and slot, in UTC.
func (a *Appointment) StartTime() (time.Time, error) {
	return SlotInstant(a.Details.Date, a.Details.TimeSlot)
}

// SlotInstant combines a calendar day with an "HH:MM" slot start.
func SlotInstant(date time.Time, slot string) (time.Time, error) {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time slot %q: %w", slot, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
