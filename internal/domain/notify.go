package domain

import "context"

// Mailer delivers a single message. Implementations may use AWS SES, a
// console printer for development, or a no-op.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// Notifier tells a host about RSVP activity on one of their events. Calls are
// best-effort side channels: implementations log failures and callers never
// fail the enclosing request over them.
type Notifier interface {
	RSVPCreated(ctx context.Context, event *Event, host *Host, attendee *Attendee) error
	RSVPModified(ctx context.Context, event *Event, host *Host, attendee *Attendee) error
	RSVPCancelled(ctx context.Context, event *Event, host *Host, attendee *Attendee, reason string) error
}
