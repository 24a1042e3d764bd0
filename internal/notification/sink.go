package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// Sink accepts notifications for later delivery. Scheduling is fire-and-forget
// persistence; actual delivery, retries and failure accounting belong to the
// dispatcher draining the queue.
type Sink interface {
	Schedule(ctx context.Context, n Notification) error
}

// Sender delivers one notification over a single channel.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender is the development transport: it logs the message instead of
// handing it to a provider. Real email/SMS/push providers sit behind the same
// interface.
type LogSender struct {
	channel Channel
	log     zerolog.Logger
}

func NewLogSender(channel Channel, log zerolog.Logger) *LogSender {
	return &LogSender{channel: channel, log: log.With().Str("channel", string(channel)).Logger()}
}

func (s *LogSender) Send(_ context.Context, n Notification) error {
	evt := s.log.Info().
		Str("notification_id", n.ID.String()).
		Str("to", n.UserID).
		Str("type", n.Type)
	if n.Subject != nil {
		evt = evt.Str("subject", *n.Subject)
	}
	evt.Str("message", n.Message).Msg("notification delivered")
	return nil
}

// Senders wires one sender per channel for the dispatcher.
type Senders map[Channel]Sender

// NewLogSenders builds log-backed transports for every channel.
func NewLogSenders(log zerolog.Logger) Senders {
	return Senders{
		ChannelEmail: NewLogSender(ChannelEmail, log),
		ChannelSMS:   NewLogSender(ChannelSMS, log),
		ChannelPush:  NewLogSender(ChannelPush, log),
	}
}
