package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"venha/internal/domain"
)

type rsvpService struct {
	eventRepo    domain.EventRepository
	attendeeRepo domain.AttendeeRepository
	hostRepo     domain.HostRepository
	notifier     domain.Notifier
	logger       *slog.Logger
}

// NewRSVPService creates the guest-facing RSVP service. The notifier is a
// best-effort side channel; its failures are logged and swallowed.
func NewRSVPService(
	eventRepo domain.EventRepository,
	attendeeRepo domain.AttendeeRepository,
	hostRepo domain.HostRepository,
	notifier domain.Notifier,
	logger *slog.Logger,
) domain.RSVPService {
	return &rsvpService{
		eventRepo:    eventRepo,
		attendeeRepo: attendeeRepo,
		hostRepo:     hostRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *rsvpService) Create(ctx context.Context, in domain.RSVPInput) (*domain.Attendee, error) {
	if in.EventSlug == "" || strings.TrimSpace(in.WhatsAppNumber) == "" ||
		strings.TrimSpace(in.Name) == "" || in.NumAdults < 1 {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}

	event, err := s.eventRepo.GetBySlug(ctx, in.EventSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}

	number := strings.TrimSpace(in.WhatsAppNumber)

	// Pre-check for a friendlier error; the unique constraint catches races.
	if _, err := s.attendeeRepo.GetByEventAndNumber(ctx, event.ID, number); err == nil {
		return nil, domain.ErrDuplicateRSVP
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing rsvp: %w", err)
	}

	family := in.FamilyMemberNames
	if family == nil {
		family = []string{}
	}
	now := time.Now()
	attendee := &domain.Attendee{
		EventID:           event.ID,
		WhatsAppNumber:    number,
		Name:              strings.TrimSpace(in.Name),
		FamilyMemberNames: family,
		NumAdults:         in.NumAdults,
		NumChildren:       in.NumChildren,
		Comments:          in.Comments,
		Status:            domain.StatusConfirmed,
		RSVPDate:          now,
		LastModified:      now,
	}
	if err := s.attendeeRepo.Create(ctx, attendee); err != nil {
		if errors.Is(err, domain.ErrDuplicateRSVP) {
			return nil, domain.ErrDuplicateRSVP
		}
		return nil, fmt.Errorf("create attendee: %w", err)
	}

	s.notify(ctx, event, func(host *domain.Host) error {
		return s.notifier.RSVPCreated(ctx, event, host, attendee)
	})
	return attendee, nil
}

func (s *rsvpService) Find(ctx context.Context, eventSlug, whatsappNumber string) (*domain.Attendee, error) {
	_, attendee, err := s.lookup(ctx, eventSlug, whatsappNumber)
	return attendee, err
}

func (s *rsvpService) Modify(ctx context.Context, eventSlug, whatsappNumber string, upd domain.AttendeeUpdate) (*domain.Attendee, error) {
	event, attendee, err := s.lookup(ctx, eventSlug, whatsappNumber)
	if err != nil {
		return nil, err
	}
	if !event.AllowModifications {
		return nil, domain.ErrModificationsClosed
	}

	applyAttendeeUpdate(attendee, upd)
	// Editing a cancelled RSVP reactivates it: a guest coming back to change
	// details is coming back.
	attendee.Status = domain.StatusConfirmed
	attendee.LastModified = time.Now()

	if err := s.attendeeRepo.Update(ctx, attendee); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update attendee: %w", err)
	}

	s.notify(ctx, event, func(host *domain.Host) error {
		return s.notifier.RSVPModified(ctx, event, host, attendee)
	})
	return attendee, nil
}

func (s *rsvpService) Cancel(ctx context.Context, eventSlug, whatsappNumber, reason string) error {
	event, attendee, err := s.lookup(ctx, eventSlug, whatsappNumber)
	if err != nil {
		return err
	}
	if !event.AllowCancellations {
		return domain.ErrCancellationsClosed
	}

	attendee.Status = domain.StatusCancelled
	attendee.LastModified = time.Now()
	if err := s.attendeeRepo.Update(ctx, attendee); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update attendee: %w", err)
	}

	s.notify(ctx, event, func(host *domain.Host) error {
		return s.notifier.RSVPCancelled(ctx, event, host, attendee, reason)
	})
	return nil
}

// lookup resolves an event by slug and the guest's attendee row within it.
func (s *rsvpService) lookup(ctx context.Context, eventSlug, whatsappNumber string) (*domain.Event, *domain.Attendee, error) {
	event, err := s.eventRepo.GetBySlug(ctx, eventSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event by slug: %w", err)
	}
	attendee, err := s.attendeeRepo.GetByEventAndNumber(ctx, event.ID, strings.TrimSpace(whatsappNumber))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get attendee: %w", err)
	}
	return event, attendee, nil
}

// notify looks up the host and runs fn, logging failures instead of
// propagating them.
func (s *rsvpService) notify(ctx context.Context, event *domain.Event, fn func(*domain.Host) error) {
	host, err := s.hostRepo.GetByID(ctx, event.HostID)
	if err != nil {
		s.logger.WarnContext(ctx, "notification skipped: host lookup failed", "event_id", event.ID, "err", err)
		return
	}
	if err := fn(host); err != nil {
		s.logger.WarnContext(ctx, "notification failed", "event_id", event.ID, "err", err)
	}
}
