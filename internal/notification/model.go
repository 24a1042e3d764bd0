package notification

import (
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

const DefaultMaxRetries = 3

// Notification is one queued message. UserID identifies the recipient in
// channel terms: an email address, a phone number, or an officer/device id
// for push.
type Notification struct {
	ID          uuid.UUID
	UserID      string
	Type        string // appointment_confirmation, appointment_reminder, ...
	Channel     Channel
	Priority    Priority
	Category    string // appointment, system
	Subject     *string
	Message     string
	Status      Status
	ScheduledAt time.Time // when delivery becomes due; zero means immediately
	SentAt      *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
	Metadata    map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
