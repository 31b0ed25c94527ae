package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"venha/internal/delivery/http/helpers"
	"venha/internal/delivery/http/middleware"
	"venha/internal/domain"
)

// CreateEventRequest is the request body for POST /events
type CreateEventRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	EventDate          string `json:"event_date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	AddressCEP         string `json:"address_cep"`
	AddressFull        string `json:"address_full"`
	AllowModifications *bool  `json:"allow_modifications"`
	AllowCancellations *bool  `json:"allow_cancellations"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.EventDate) == "" {
		errs = append(errs, "event_date is required")
	}
	if strings.TrimSpace(c.StartTime) == "" {
		errs = append(errs, "start_time is required")
	}
	if strings.TrimSpace(c.AddressFull) == "" && strings.TrimSpace(c.AddressCEP) == "" {
		errs = append(errs, "address_full or address_cep is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// Absent fields are left untouched.
type UpdateEventRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	EventDate          *string `json:"event_date"`
	StartTime          *string `json:"start_time"`
	EndTime            *string `json:"end_time"`
	AddressCEP         *string `json:"address_cep"`
	AddressFull        *string `json:"address_full"`
	AllowModifications *bool   `json:"allow_modifications"`
	AllowCancellations *bool   `json:"allow_cancellations"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.EventDate != nil && strings.TrimSpace(*u.EventDate) == "" {
		errs = append(errs, "event_date cannot be empty")
	}
	if u.StartTime != nil && strings.TrimSpace(*u.StartTime) == "" {
		errs = append(errs, "start_time cannot be empty")
	}
	return errs
}

// UpdateAttendeeRequest is the request body for the host-side attendee edit.
// Absent fields are left untouched.
type UpdateAttendeeRequest struct {
	Name              *string   `json:"name"`
	FamilyMemberNames *[]string `json:"family_member_names"`
	NumAdults         *int      `json:"num_adults"`
	NumChildren       *int      `json:"num_children"`
	Comments          *string   `json:"comments"`
}

// Validate implements Validator.
func (u UpdateAttendeeRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.NumAdults != nil && *u.NumAdults < 1 {
		errs = append(errs, "num_adults must be at least 1")
	}
	if u.NumChildren != nil && *u.NumChildren < 0 {
		errs = append(errs, "num_children cannot be negative")
	}
	return errs
}

// EventResponse wraps an event with its shareable invite path.
type EventResponse struct {
	*domain.Event
	InvitePath string `json:"invite_path"`
}

// PublicEventResponse is what guests see when opening an invite link.
type PublicEventResponse struct {
	*domain.Event
	HostName     string `json:"host_name"`
	HostWhatsApp string `json:"host_whatsapp"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *EventController) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, msg)
}

// writeOwnershipError maps the shared not-found/forbidden/validation outcomes
// of host-scoped event operations. Returns false if err was not handled.
func (c *EventController) writeOwnershipError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "event belongs to another host")
	case errors.Is(err, domain.ErrValidation):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		return false
	}
	return true
}

// Create godoc
// @Summary Create an event
// @Description Creates an event for the authenticated host. The address is resolved and geocoded best-effort; a unique invite slug is generated.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the event and its invite_path"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), hostID, domain.EventInput{
		Title:              req.Title,
		Description:        req.Description,
		EventDate:          req.EventDate,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		AddressCEP:         req.AddressCEP,
		AddressFull:        req.AddressFull,
		AllowModifications: req.AllowModifications,
		AllowCancellations: req.AllowCancellations,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.internalError(w, r, err, "could not create event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, EventResponse{Event: event, InvitePath: domain.InvitePath(event.Slug)})
}

// MyEvents godoc
// @Summary List my events
// @Description Lists the authenticated host's events, newest event date first, with confirmed-attendee aggregates.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of events with aggregates"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/my-events [get]
func (c *EventController) MyEvents(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), hostID)
	if err != nil {
		c.internalError(w, r, err, "could not list events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetBySlug godoc
// @Summary Get an event by invite slug
// @Description Public invite lookup. Returns the event together with the host's display name and WhatsApp number.
// @Tags events
// @Produce json
// @Param slug path string true "Invite slug"
// @Success 200 {object} helpers.APIResponse "data contains the event plus host_name and host_whatsapp"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug} [get]
func (c *EventController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	event, host, err := c.Service.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.internalError(w, r, err, "could not load event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PublicEventResponse{
		Event:        event,
		HostName:     host.Name,
		HostWhatsApp: host.WhatsAppNumber,
	})
}

// Update godoc
// @Summary Update an event
// @Description Partially updates one of the authenticated host's events. Changing the address re-resolves and re-geocodes it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Update(r.Context(), r.PathValue("eventID"), hostID, domain.EventUpdate{
		Title:              req.Title,
		Description:        req.Description,
		EventDate:          req.EventDate,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		AddressCEP:         req.AddressCEP,
		AddressFull:        req.AddressFull,
		AllowModifications: req.AllowModifications,
		AllowCancellations: req.AllowCancellations,
	})
	if err != nil {
		if !c.writeOwnershipError(w, err) {
			c.internalError(w, r, err, "could not update event")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes one of the authenticated host's events along with all of its attendees.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	if err := c.Service.Delete(r.Context(), r.PathValue("eventID"), hostID); err != nil {
		if !c.writeOwnershipError(w, err) {
			c.internalError(w, r, err, "could not delete event")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// Duplicate godoc
// @Summary Duplicate an event
// @Description Copies one of the authenticated host's events under a fresh slug with no attendees. The copy's title gets a " (Copy)" suffix.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains the new event and its invite_path"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/duplicate [post]
func (c *EventController) Duplicate(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	event, err := c.Service.Duplicate(r.Context(), r.PathValue("eventID"), hostID)
	if err != nil {
		if !c.writeOwnershipError(w, err) {
			c.internalError(w, r, err, "could not duplicate event")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, EventResponse{Event: event, InvitePath: domain.InvitePath(event.Slug)})
}

// ListAttendees godoc
// @Summary List an event's attendees
// @Description Lists every RSVP (confirmed and cancelled) for one of the authenticated host's events.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data is an array of attendees"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees [get]
func (c *EventController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	attendees, err := c.Service.ListAttendees(r.Context(), r.PathValue("eventID"), hostID)
	if err != nil {
		if !c.writeOwnershipError(w, err) {
			c.internalError(w, r, err, "could not list attendees")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendees)
}

// ExportAttendees godoc
// @Summary Export an event's attendees as CSV
// @Description Downloads the attendee list of one of the authenticated host's events as a CSV file.
// @Tags events
// @Produce text/csv
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees/export [get]
func (c *EventController) ExportAttendees(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	data, filename, err := c.Service.ExportAttendeesCSV(r.Context(), r.PathValue("eventID"), hostID)
	if err != nil {
		if !c.writeOwnershipError(w, err) {
			c.internalError(w, r, err, "could not export attendees")
		}
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// UpdateAttendee godoc
// @Summary Edit an attendee
// @Description Lets the host edit a guest's RSVP details on one of their events.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param attendeeID path string true "Attendee ID"
// @Param body body UpdateAttendeeRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated attendee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees/{attendeeID} [put]
func (c *EventController) UpdateAttendee(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	var req UpdateAttendeeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	attendee, err := c.Service.UpdateAttendee(r.Context(), r.PathValue("eventID"), r.PathValue("attendeeID"), hostID, domain.AttendeeUpdate{
		Name:              req.Name,
		FamilyMemberNames: req.FamilyMemberNames,
		NumAdults:         req.NumAdults,
		NumChildren:       req.NumChildren,
		Comments:          req.Comments,
	})
	if err != nil {
		if !c.writeOwnershipError(w, err) {
			c.internalError(w, r, err, "could not update attendee")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// DeleteAttendee godoc
// @Summary Remove an attendee
// @Description Removes a guest's RSVP from one of the authenticated host's events, freeing their WhatsApp number to RSVP again.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param attendeeID path string true "Attendee ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees/{attendeeID} [delete]
func (c *EventController) DeleteAttendee(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.HostIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return
	}
	if err := c.Service.DeleteAttendee(r.Context(), r.PathValue("eventID"), r.PathValue("attendeeID"), hostID); err != nil {
		if !c.writeOwnershipError(w, err) {
			c.internalError(w, r, err, "could not delete attendee")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "attendee deleted"})
}
