package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"venha/internal/delivery/http/controllers"
	"venha/internal/delivery/http/middleware"
	"venha/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	attendeeController *controllers.AttendeeController,
	sessions domain.SessionVerifier,
	rsvpLimiter *middleware.RateLimiter,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireSession := middleware.RequireSession(sessions)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/logout", authController.Logout)
	mux.HandleFunc("GET /auth/me", requireSession(authController.Me))

	// Events (host-scoped, except the public invite lookup)
	mux.HandleFunc("POST /events", requireSession(eventController.Create))
	mux.HandleFunc("GET /events/my-events", requireSession(eventController.MyEvents))
	mux.HandleFunc("GET /events/{slug}", eventController.GetBySlug)
	mux.HandleFunc("PATCH /events/{eventID}", requireSession(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", requireSession(eventController.Delete))
	mux.HandleFunc("POST /events/{eventID}/duplicate", requireSession(eventController.Duplicate))
	mux.HandleFunc("GET /events/{eventID}/attendees", requireSession(eventController.ListAttendees))
	mux.HandleFunc("GET /events/{eventID}/attendees/export", requireSession(eventController.ExportAttendees))
	mux.HandleFunc("PUT /events/{eventID}/attendees/{attendeeID}", requireSession(eventController.UpdateAttendee))
	mux.HandleFunc("DELETE /events/{eventID}/attendees/{attendeeID}", requireSession(eventController.DeleteAttendee))

	// Guest RSVP self-service
	mux.HandleFunc("POST /attendees/rsvp", rsvpLimiter.Wrap(attendeeController.RSVP))
	mux.HandleFunc("GET /attendees/find", attendeeController.Find)
	mux.HandleFunc("PUT /attendees/modify", attendeeController.Modify)
	mux.HandleFunc("POST /attendees/cancel", attendeeController.Cancel)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
