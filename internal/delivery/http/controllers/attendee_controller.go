package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"venha/internal/delivery/http/helpers"
	"venha/internal/domain"
)

// RSVPRequest is the request body for POST /attendees/rsvp
type RSVPRequest struct {
	EventSlug         string   `json:"event_slug"`
	WhatsAppNumber    string   `json:"whatsapp_number"`
	Name              string   `json:"name"`
	FamilyMemberNames []string `json:"family_member_names"`
	NumAdults         int      `json:"num_adults"`
	NumChildren       int      `json:"num_children"`
	Comments          string   `json:"comments"`
}

// Validate implements Validator.
func (r RSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.EventSlug) == "" {
		errs = append(errs, "event_slug is required")
	}
	if strings.TrimSpace(r.WhatsAppNumber) == "" {
		errs = append(errs, "whatsapp_number is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.NumAdults < 1 {
		errs = append(errs, "num_adults must be at least 1")
	}
	if r.NumChildren < 0 {
		errs = append(errs, "num_children cannot be negative")
	}
	return errs
}

// ModifyRSVPRequest is the request body for PUT /attendees/modify.
// The slug and number identify the RSVP; absent fields are left untouched.
type ModifyRSVPRequest struct {
	EventSlug         string    `json:"event_slug"`
	WhatsAppNumber    string    `json:"whatsapp_number"`
	Name              *string   `json:"name"`
	FamilyMemberNames *[]string `json:"family_member_names"`
	NumAdults         *int      `json:"num_adults"`
	NumChildren       *int      `json:"num_children"`
	Comments          *string   `json:"comments"`
}

// Validate implements Validator.
func (m ModifyRSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(m.EventSlug) == "" {
		errs = append(errs, "event_slug is required")
	}
	if strings.TrimSpace(m.WhatsAppNumber) == "" {
		errs = append(errs, "whatsapp_number is required")
	}
	if m.Name != nil && strings.TrimSpace(*m.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if m.NumAdults != nil && *m.NumAdults < 1 {
		errs = append(errs, "num_adults must be at least 1")
	}
	if m.NumChildren != nil && *m.NumChildren < 0 {
		errs = append(errs, "num_children cannot be negative")
	}
	return errs
}

// CancelRSVPRequest is the request body for POST /attendees/cancel
type CancelRSVPRequest struct {
	EventSlug      string `json:"event_slug"`
	WhatsAppNumber string `json:"whatsapp_number"`
	Reason         string `json:"reason"`
}

// Validate implements Validator.
func (c CancelRSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.EventSlug) == "" {
		errs = append(errs, "event_slug is required")
	}
	if strings.TrimSpace(c.WhatsAppNumber) == "" {
		errs = append(errs, "whatsapp_number is required")
	}
	return errs
}

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewAttendeeController(logger *slog.Logger, svc domain.RSVPService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *AttendeeController) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, msg)
}

// RSVP godoc
// @Summary Submit an RSVP
// @Description Registers a guest for an event identified by its invite slug. One RSVP per WhatsApp number per event.
// @Tags attendees
// @Accept json
// @Produce json
// @Param body body RSVPRequest true "RSVP data"
// @Success 201 {object} helpers.APIResponse "data contains the attendee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (including an already registered number)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown slug)"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/rsvp [post]
func (c *AttendeeController) RSVP(w http.ResponseWriter, r *http.Request) {
	var req RSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	attendee, err := c.Service.Create(r.Context(), domain.RSVPInput{
		EventSlug:         req.EventSlug,
		WhatsAppNumber:    req.WhatsAppNumber,
		Name:              req.Name,
		FamilyMemberNames: req.FamilyMemberNames,
		NumAdults:         req.NumAdults,
		NumChildren:       req.NumChildren,
		Comments:          req.Comments,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRSVP):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "this WhatsApp number has already RSVP'd to this event")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrValidation):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.internalError(w, r, err, "could not register RSVP")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, attendee)
}

// Find godoc
// @Summary Look up an RSVP
// @Description Finds a guest's RSVP by invite slug and WhatsApp number so they can review it before modifying or cancelling.
// @Tags attendees
// @Produce json
// @Param event_slug query string true "Invite slug"
// @Param whatsapp_number query string true "WhatsApp number used to RSVP"
// @Success 200 {object} helpers.APIResponse "data contains the attendee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/find [get]
func (c *AttendeeController) Find(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("event_slug"))
	number := strings.TrimSpace(r.URL.Query().Get("whatsapp_number"))
	if slug == "" || number == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event_slug and whatsapp_number are required")
		return
	}
	attendee, err := c.Service.Find(r.Context(), slug, number)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no RSVP found for this number")
			return
		}
		c.internalError(w, r, err, "could not look up RSVP")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// Modify godoc
// @Summary Modify an RSVP
// @Description Lets a guest change their RSVP details. Modifying a cancelled RSVP reactivates it. Rejected when the event has modifications disabled.
// @Tags attendees
// @Accept json
// @Produce json
// @Param body body ModifyRSVPRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated attendee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (modifications disabled)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/modify [put]
func (c *AttendeeController) Modify(w http.ResponseWriter, r *http.Request) {
	var req ModifyRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	attendee, err := c.Service.Modify(r.Context(), req.EventSlug, req.WhatsAppNumber, domain.AttendeeUpdate{
		Name:              req.Name,
		FamilyMemberNames: req.FamilyMemberNames,
		NumAdults:         req.NumAdults,
		NumChildren:       req.NumChildren,
		Comments:          req.Comments,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrModificationsClosed):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "this event does not allow RSVP modifications")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no RSVP found for this number")
		case errors.Is(err, domain.ErrValidation):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.internalError(w, r, err, "could not modify RSVP")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// Cancel godoc
// @Summary Cancel an RSVP
// @Description Marks a guest's RSVP as cancelled, keeping the record. Rejected when the event has cancellations disabled.
// @Tags attendees
// @Accept json
// @Produce json
// @Param body body CancelRSVPRequest true "Cancellation data"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (cancellations disabled)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/cancel [post]
func (c *AttendeeController) Cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Cancel(r.Context(), req.EventSlug, req.WhatsAppNumber, req.Reason); err != nil {
		switch {
		case errors.Is(err, domain.ErrCancellationsClosed):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "this event does not allow RSVP cancellations")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no RSVP found for this number")
		default:
			c.internalError(w, r, err, "could not cancel RSVP")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "RSVP cancelled"})
}
