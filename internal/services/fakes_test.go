package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"venha/internal/domain"
)

// In-memory fakes shared by the service tests.

type fakeHostRepo struct {
	byID      map[string]*domain.Host
	nextID    int
	createErr error
}

func newFakeHostRepo() *fakeHostRepo {
	return &fakeHostRepo{byID: make(map[string]*domain.Host), nextID: 1}
}

func (f *fakeHostRepo) Create(ctx context.Context, h *domain.Host) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == h.Email {
			return domain.ErrDuplicateEmail
		}
	}
	h.ID = fmt.Sprintf("host-%d", f.nextID)
	f.nextID++
	f.byID[h.ID] = h
	return nil
}

func (f *fakeHostRepo) GetByEmail(ctx context.Context, email string) (*domain.Host, error) {
	for _, h := range f.byID {
		if h.Email == email {
			return h, nil
		}
	}
	return nil, domain.ErrHostNotFound
}

func (f *fakeHostRepo) GetByID(ctx context.Context, id string) (*domain.Host, error) {
	if h, ok := f.byID[id]; ok {
		return h, nil
	}
	return nil, domain.ErrHostNotFound
}

func (f *fakeHostRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrHostNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeSessionRepo struct {
	byID   map[string]*domain.Session
	nextID int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byID: make(map[string]*domain.Session), nextID: 1}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	f.nextID++
	copied := *s
	f.byID[s.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakeEventRepo struct {
	byID         map[string]*domain.Event
	nextID       int
	dupSlugTimes int // Create returns ErrDuplicateSlug this many times first
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.dupSlugTimes > 0 {
		f.dupSlugTimes--
		return domain.ErrDuplicateSlug
	}
	for _, existing := range f.byID {
		if existing.Slug == e.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	copied := *e
	f.byID[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	for _, e := range f.byID {
		if e.Slug == slug {
			copied := *e
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByHostID(ctx context.Context, hostID string) ([]*domain.EventSummary, error) {
	out := []*domain.EventSummary{}
	for _, e := range f.byID {
		if e.HostID == hostID {
			out = append(out, &domain.EventSummary{Event: *e})
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *e
	f.byID[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) DeleteWithAttendees(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeAttendeeRepo struct {
	byID   map[string]*domain.Attendee
	nextID int
}

func newFakeAttendeeRepo() *fakeAttendeeRepo {
	return &fakeAttendeeRepo{byID: make(map[string]*domain.Attendee), nextID: 1}
}

func (f *fakeAttendeeRepo) Create(ctx context.Context, a *domain.Attendee) error {
	for _, existing := range f.byID {
		if existing.EventID == a.EventID && existing.WhatsAppNumber == a.WhatsAppNumber {
			return domain.ErrDuplicateRSVP
		}
	}
	a.ID = fmt.Sprintf("att-%d", f.nextID)
	f.nextID++
	copied := *a
	f.byID[a.ID] = &copied
	return nil
}

func (f *fakeAttendeeRepo) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	if a, ok := f.byID[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttendeeRepo) GetByEventAndNumber(ctx context.Context, eventID, whatsappNumber string) (*domain.Attendee, error) {
	for _, a := range f.byID {
		if a.EventID == eventID && a.WhatsAppNumber == whatsappNumber {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttendeeRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	out := []*domain.Attendee{}
	for _, a := range f.byID {
		if a.EventID == eventID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAttendeeRepo) Update(ctx context.Context, a *domain.Attendee) error {
	if _, ok := f.byID[a.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *a
	f.byID[a.ID] = &copied
	return nil
}

func (f *fakeAttendeeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

// fakeTokens encodes session and host IDs directly into the token string.
type fakeTokens struct{}

func (fakeTokens) Issue(sessionID, hostID string, expiresAt time.Time) (string, error) {
	return "tok|" + sessionID + "|" + hostID, nil
}

func (fakeTokens) Verify(token string) (string, string, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 || parts[0] != "tok" {
		return "", "", fmt.Errorf("malformed token")
	}
	return parts[1], parts[2], nil
}

type fakeResolver struct {
	resolved *domain.ResolvedAddress
	err      error
	calls    int
}

func (f *fakeResolver) Resolve(ctx context.Context, cep, fullAddress string) (*domain.ResolvedAddress, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.resolved != nil {
		return f.resolved, nil
	}
	return &domain.ResolvedAddress{FullAddress: fullAddress}, nil
}

type notifierCall struct {
	kind   string
	reason string
	host   *domain.Host
}

type fakeNotifier struct {
	calls []notifierCall
	err   error
}

func (f *fakeNotifier) RSVPCreated(ctx context.Context, event *domain.Event, host *domain.Host, attendee *domain.Attendee) error {
	f.calls = append(f.calls, notifierCall{kind: "created", host: host})
	return f.err
}

func (f *fakeNotifier) RSVPModified(ctx context.Context, event *domain.Event, host *domain.Host, attendee *domain.Attendee) error {
	f.calls = append(f.calls, notifierCall{kind: "modified", host: host})
	return f.err
}

func (f *fakeNotifier) RSVPCancelled(ctx context.Context, event *domain.Event, host *domain.Host, attendee *domain.Attendee, reason string) error {
	f.calls = append(f.calls, notifierCall{kind: "cancelled", reason: reason, host: host})
	return f.err
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
