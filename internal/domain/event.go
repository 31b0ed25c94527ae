package domain

import (
	"context"
	"time"
)

// Event represents a single gathering owned by a host. Guests reach it through
// the public slug. Times are kept as "HH:MM" strings; EventDate carries only
// the calendar date.
// swagger:model Event
type Event struct {
	ID                 string    `json:"id"`
	HostID             string    `json:"host_id"`
	Slug               string    `json:"slug"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	EventDate          time.Time `json:"event_date"`
	StartTime          string    `json:"start_time"`
	EndTime            *string   `json:"end_time,omitempty"`
	AddressCEP         string    `json:"address_cep,omitempty"`
	AddressFull        string    `json:"address_full"`
	Latitude           *float64  `json:"latitude"`
	Longitude          *float64  `json:"longitude"`
	AllowModifications bool      `json:"allow_modifications"`
	AllowCancellations bool      `json:"allow_cancellations"`
	CreatedAt          time.Time `json:"created_at"`
}

// EventSummary is an event annotated with attendee aggregates. All three
// counts cover confirmed attendees only; cancelled RSVPs are excluded.
type EventSummary struct {
	Event
	AttendeeCount int `json:"attendee_count"`
	TotalAdults   int `json:"total_adults"`
	TotalChildren int `json:"total_children"`
}

// EventInput carries the fields a host submits when creating an event.
// Date and times arrive unparsed; the service validates them.
type EventInput struct {
	Title              string
	Description        string
	EventDate          string // "2006-01-02"
	StartTime          string // "15:04"
	EndTime            string // optional
	AddressCEP         string
	AddressFull        string
	AllowModifications *bool // nil means default (true)
	AllowCancellations *bool
}

// EventUpdate carries a partial update: nil fields are left untouched.
type EventUpdate struct {
	Title              *string
	Description        *string
	EventDate          *string
	StartTime          *string
	EndTime            *string
	AddressCEP         *string
	AddressFull        *string
	AllowModifications *bool
	AllowCancellations *bool
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// ListByHostID returns the host's events ordered by event date descending,
	// each with aggregates over confirmed attendees.
	ListByHostID(ctx context.Context, hostID string) ([]*EventSummary, error)
	Update(ctx context.Context, event *Event) error
	// DeleteWithAttendees removes the event's attendees and then the event
	// itself inside one transaction.
	DeleteWithAttendees(ctx context.Context, id string) error
}

// EventService defines host-scoped event management plus the public
// get-by-slug lookup.
type EventService interface {
	Create(ctx context.Context, hostID string, in EventInput) (*Event, error)
	ListMyEvents(ctx context.Context, hostID string) ([]*EventSummary, error)
	// GetBySlug is public; it also returns the owning host so callers can
	// expose the host's display name and contact number.
	GetBySlug(ctx context.Context, slug string) (*Event, *Host, error)
	Update(ctx context.Context, eventID, hostID string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, eventID, hostID string) error
	Duplicate(ctx context.Context, eventID, hostID string) (*Event, error)
	ListAttendees(ctx context.Context, eventID, hostID string) ([]*Attendee, error)
	// ExportAttendeesCSV returns the serialized CSV and the download filename.
	ExportAttendeesCSV(ctx context.Context, eventID, hostID string) ([]byte, string, error)
	UpdateAttendee(ctx context.Context, eventID, attendeeID, hostID string, upd AttendeeUpdate) (*Attendee, error)
	DeleteAttendee(ctx context.Context, eventID, attendeeID, hostID string) error
}

// InvitePath returns the shareable invite path for a slug.
func InvitePath(slug string) string {
	return "/invite/" + slug
}
