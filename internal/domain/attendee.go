package domain

import (
	"context"
	"time"
)

// AttendeeStatus is the RSVP state of an attendee row. Cancelling keeps the
// row (and its uniqueness slot) and flips the status.
type AttendeeStatus string

const (
	StatusConfirmed AttendeeStatus = "confirmed"
	StatusCancelled AttendeeStatus = "cancelled"
)

// Attendee is a guest's RSVP record for one event. A guest is identified
// within an event by their WhatsApp number; at most one row exists per
// (event, whatsapp_number) pair.
// swagger:model Attendee
type Attendee struct {
	ID                string         `json:"id"`
	EventID           string         `json:"event_id"`
	WhatsAppNumber    string         `json:"whatsapp_number"`
	Name              string         `json:"name"`
	FamilyMemberNames []string       `json:"family_member_names"`
	NumAdults         int            `json:"num_adults"`
	NumChildren       int            `json:"num_children"`
	Comments          string         `json:"comments,omitempty"`
	Status            AttendeeStatus `json:"status"`
	RSVPDate          time.Time      `json:"rsvp_date"`
	LastModified      time.Time      `json:"last_modified"`
}

// AttendeeUpdate carries a partial update: nil fields are left untouched.
// Status is not updatable through here; it changes via cancel/reactivate.
type AttendeeUpdate struct {
	Name              *string
	FamilyMemberNames *[]string
	NumAdults         *int
	NumChildren       *int
	Comments          *string
}

// RSVPInput carries a guest's initial RSVP submission.
type RSVPInput struct {
	EventSlug         string
	WhatsAppNumber    string
	Name              string
	FamilyMemberNames []string
	NumAdults         int
	NumChildren       int
	Comments          string
}

// AttendeeRepository defines the interface for attendee storage
type AttendeeRepository interface {
	// Create persists a new attendee. A unique-constraint violation on
	// (event_id, whatsapp_number) is returned as ErrDuplicateRSVP.
	Create(ctx context.Context, attendee *Attendee) error
	GetByID(ctx context.Context, id string) (*Attendee, error)
	GetByEventAndNumber(ctx context.Context, eventID, whatsappNumber string) (*Attendee, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Attendee, error)
	Update(ctx context.Context, attendee *Attendee) error
	Delete(ctx context.Context, id string) error
}

// RSVPService defines the guest self-service RSVP workflow.
type RSVPService interface {
	Create(ctx context.Context, in RSVPInput) (*Attendee, error)
	Find(ctx context.Context, eventSlug, whatsappNumber string) (*Attendee, error)
	// Modify applies a partial update. Modifying a cancelled RSVP reactivates
	// it to confirmed.
	Modify(ctx context.Context, eventSlug, whatsappNumber string, upd AttendeeUpdate) (*Attendee, error)
	Cancel(ctx context.Context, eventSlug, whatsappNumber, reason string) error
}
