package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"venha/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// slugAttempts bounds retries when a freshly generated slug collides.
	slugAttempts = 5
)

type eventService struct {
	eventRepo    domain.EventRepository
	attendeeRepo domain.AttendeeRepository
	hostRepo     domain.HostRepository
	resolver     domain.AddressResolver
}

// NewEventService creates an EventService with the given repositories and the
// configured address resolver.
func NewEventService(
	eventRepo domain.EventRepository,
	attendeeRepo domain.AttendeeRepository,
	hostRepo domain.HostRepository,
	resolver domain.AddressResolver,
) domain.EventService {
	return &eventService{
		eventRepo:    eventRepo,
		attendeeRepo: attendeeRepo,
		hostRepo:     hostRepo,
		resolver:     resolver,
	}
}

func parseEventDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid event_date, expected YYYY-MM-DD", domain.ErrValidation)
	}
	return d, nil
}

func parseEventTime(s string) (string, error) {
	if _, err := time.Parse(timeLayout, s); err != nil {
		return "", fmt.Errorf("%w: invalid time, expected HH:MM", domain.ErrValidation)
	}
	return s, nil
}

func (s *eventService) Create(ctx context.Context, hostID string, in domain.EventInput) (*domain.Event, error) {
	if strings.TrimSpace(in.Title) == "" || in.EventDate == "" || in.StartTime == "" ||
		(strings.TrimSpace(in.AddressFull) == "" && strings.TrimSpace(in.AddressCEP) == "") {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}

	eventDate, err := parseEventDate(in.EventDate)
	if err != nil {
		return nil, err
	}
	startTime, err := parseEventTime(in.StartTime)
	if err != nil {
		return nil, err
	}
	var endTime *string
	if in.EndTime != "" {
		t, err := parseEventTime(in.EndTime)
		if err != nil {
			return nil, err
		}
		endTime = &t
	}

	addressFull, lat, lng := s.enrichAddress(ctx, in.AddressCEP, in.AddressFull)
	if addressFull == "" {
		// The CEP was the only address input and the lookup failed.
		return nil, fmt.Errorf("%w: address could not be resolved", domain.ErrValidation)
	}

	event := &domain.Event{
		HostID:             hostID,
		Title:              strings.TrimSpace(in.Title),
		Description:        in.Description,
		EventDate:          eventDate,
		StartTime:          startTime,
		EndTime:            endTime,
		AddressCEP:         strings.TrimSpace(in.AddressCEP),
		AddressFull:        addressFull,
		Latitude:           lat,
		Longitude:          lng,
		AllowModifications: in.AllowModifications == nil || *in.AllowModifications,
		AllowCancellations: in.AllowCancellations == nil || *in.AllowCancellations,
		CreatedAt:          time.Now(),
	}
	if err := s.createWithSlug(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// createWithSlug persists the event under a fresh slug, regenerating on the
// off chance two events draw the same one.
func (s *eventService) createWithSlug(ctx context.Context, event *domain.Event) error {
	for range slugAttempts {
		slug, err := newSlug()
		if err != nil {
			return err
		}
		event.Slug = slug
		err = s.eventRepo.Create(ctx, event)
		if errors.Is(err, domain.ErrDuplicateSlug) {
			continue
		}
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	}
	return fmt.Errorf("create event: could not generate a unique slug")
}

// enrichAddress runs the configured best-effort resolver. Missing coordinates
// never block the caller; a missing address text does, but that decision
// belongs to the caller.
func (s *eventService) enrichAddress(ctx context.Context, cep, addressFull string) (string, *float64, *float64) {
	resolved, err := s.resolver.Resolve(ctx, strings.TrimSpace(cep), strings.TrimSpace(addressFull))
	if err != nil || resolved == nil {
		return strings.TrimSpace(addressFull), nil, nil
	}
	address := strings.TrimSpace(addressFull)
	if address == "" {
		address = resolved.FullAddress
	}
	return address, resolved.Latitude, resolved.Longitude
}

func (s *eventService) ListMyEvents(ctx context.Context, hostID string) ([]*domain.EventSummary, error) {
	summaries, err := s.eventRepo.ListByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return summaries, nil
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*domain.Event, *domain.Host, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event by slug: %w", err)
	}
	host, err := s.hostRepo.GetByID(ctx, event.HostID)
	if err != nil {
		return nil, nil, fmt.Errorf("get event host: %w", err)
	}
	return event, host, nil
}

// ownedEvent loads the event and enforces that hostID owns it.
func (s *eventService) ownedEvent(ctx context.Context, eventID, hostID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, eventID, hostID string, upd domain.EventUpdate) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, eventID, hostID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		event.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.EventDate != nil {
		d, err := parseEventDate(*upd.EventDate)
		if err != nil {
			return nil, err
		}
		event.EventDate = d
	}
	if upd.StartTime != nil {
		t, err := parseEventTime(*upd.StartTime)
		if err != nil {
			return nil, err
		}
		event.StartTime = t
	}
	if upd.EndTime != nil {
		if *upd.EndTime == "" {
			event.EndTime = nil
		} else {
			t, err := parseEventTime(*upd.EndTime)
			if err != nil {
				return nil, err
			}
			event.EndTime = &t
		}
	}
	if upd.AllowModifications != nil {
		event.AllowModifications = *upd.AllowModifications
	}
	if upd.AllowCancellations != nil {
		event.AllowCancellations = *upd.AllowCancellations
	}

	addressChanged := false
	if upd.AddressCEP != nil && strings.TrimSpace(*upd.AddressCEP) != event.AddressCEP {
		event.AddressCEP = strings.TrimSpace(*upd.AddressCEP)
		addressChanged = true
	}
	if upd.AddressFull != nil && strings.TrimSpace(*upd.AddressFull) != event.AddressFull {
		event.AddressFull = strings.TrimSpace(*upd.AddressFull)
		addressChanged = true
	}
	if addressChanged {
		// Stale coordinates are worse than none, so re-enrich and accept
		// whatever the resolver finds.
		address, lat, lng := s.enrichAddress(ctx, event.AddressCEP, event.AddressFull)
		if address == "" {
			return nil, fmt.Errorf("%w: address could not be resolved", domain.ErrValidation)
		}
		event.AddressFull = address
		event.Latitude = lat
		event.Longitude = lng
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, eventID, hostID string) error {
	if _, err := s.ownedEvent(ctx, eventID, hostID); err != nil {
		return err
	}
	if err := s.eventRepo.DeleteWithAttendees(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) Duplicate(ctx context.Context, eventID, hostID string) (*domain.Event, error) {
	original, err := s.ownedEvent(ctx, eventID, hostID)
	if err != nil {
		return nil, err
	}

	dup := *original
	dup.ID = ""
	dup.Slug = ""
	dup.Title = original.Title + " (Copy)"
	dup.CreatedAt = time.Now()
	if err := s.createWithSlug(ctx, &dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

func (s *eventService) ListAttendees(ctx context.Context, eventID, hostID string) ([]*domain.Attendee, error) {
	if _, err := s.ownedEvent(ctx, eventID, hostID); err != nil {
		return nil, err
	}
	attendees, err := s.attendeeRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}

// csvHeader is the fixed column order of the attendee export.
var csvHeader = []string{"Name", "WhatsApp", "Adults", "Children", "Family Members", "Comments", "Status", "RSVP Date"}

func (s *eventService) ExportAttendeesCSV(ctx context.Context, eventID, hostID string) ([]byte, string, error) {
	attendees, err := s.ListAttendees(ctx, eventID, hostID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}
	for _, a := range attendees {
		record := []string{
			a.Name,
			a.WhatsAppNumber,
			fmt.Sprintf("%d", a.NumAdults),
			fmt.Sprintf("%d", a.NumChildren),
			strings.Join(a.FamilyMemberNames, ", "),
			a.Comments,
			string(a.Status),
			a.RSVPDate.Format("2006-01-02 15:04"),
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}

	filename := fmt.Sprintf("event_%s_attendees.csv", eventID)
	return buf.Bytes(), filename, nil
}

func (s *eventService) UpdateAttendee(ctx context.Context, eventID, attendeeID, hostID string, upd domain.AttendeeUpdate) (*domain.Attendee, error) {
	if _, err := s.ownedEvent(ctx, eventID, hostID); err != nil {
		return nil, err
	}
	attendee, err := s.attendeeRepo.GetByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	if attendee.EventID != eventID {
		return nil, domain.ErrNotFound
	}

	applyAttendeeUpdate(attendee, upd)
	attendee.LastModified = time.Now()
	if err := s.attendeeRepo.Update(ctx, attendee); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update attendee: %w", err)
	}
	return attendee, nil
}

func (s *eventService) DeleteAttendee(ctx context.Context, eventID, attendeeID, hostID string) error {
	if _, err := s.ownedEvent(ctx, eventID, hostID); err != nil {
		return err
	}
	attendee, err := s.attendeeRepo.GetByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get attendee: %w", err)
	}
	if attendee.EventID != eventID {
		return domain.ErrNotFound
	}
	if err := s.attendeeRepo.Delete(ctx, attendeeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete attendee: %w", err)
	}
	return nil
}

// applyAttendeeUpdate copies only the fields present in the update.
func applyAttendeeUpdate(a *domain.Attendee, upd domain.AttendeeUpdate) {
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.FamilyMemberNames != nil {
		a.FamilyMemberNames = *upd.FamilyMemberNames
	}
	if upd.NumAdults != nil {
		a.NumAdults = *upd.NumAdults
	}
	if upd.NumChildren != nil {
		a.NumChildren = *upd.NumChildren
	}
	if upd.Comments != nil {
		a.Comments = *upd.Comments
	}
}
