package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venha/config"
	_ "venha/docs"
	"venha/internal/adapters/auth"
	"venha/internal/adapters/geocode"
	"venha/internal/adapters/notify"
	delivery "venha/internal/delivery/http"
	"venha/internal/delivery/http/controllers"
	"venha/internal/delivery/http/middleware"
	"venha/internal/domain"
	"venha/internal/repository/postgres"
	"venha/internal/services"
)

// @title Venha API
// @version 1.0
// @description Event invitation and RSVP management backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	logger.Info("Starting venha API server", "environment", cfg.Environment)

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("Failed to apply database schema", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Repositories
	hostRepo := postgres.NewHostRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	attendeeRepo := postgres.NewAttendeeRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewJWTCodec(cfg.SessionSecret)
	resolver := newResolver(cfg, logger)
	mailer, err := notify.NewMailer(notify.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: notify.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("Failed to configure mailer", "error", err)
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(hostRepo, sessionRepo, hasher, tokens, tokens, cfg.SessionTTL)
	eventService := services.NewEventService(eventRepo, attendeeRepo, hostRepo, resolver)
	rsvpService := services.NewRSVPService(eventRepo, attendeeRepo, hostRepo, services.NewRSVPNotifier(mailer), logger)

	// Controllers and router
	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, eventService)
	attendeeController := controllers.NewAttendeeController(logger, rsvpService)
	rsvpLimiter := middleware.NewRateLimiter(cfg.RSVPRateLimit, cfg.RSVPRateBurst)

	router := delivery.NewRouter(authController, eventController, attendeeController, authService, rsvpLimiter)
	handler := middleware.Logging(logger, middleware.CORS(cfg.AllowedOrigins, router))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func newResolver(cfg *config.Config, logger *slog.Logger) domain.AddressResolver {
	client := &http.Client{Timeout: 10 * time.Second}
	switch cfg.GeocoderProvider {
	case "viacep":
		return geocode.NewViaCEPResolver(client, cfg.GeocoderBaseURL, logger)
	case "noop":
		return geocode.NewNoopResolver()
	default:
		return geocode.NewNominatimResolver(client, cfg.GeocoderBaseURL, logger)
	}
}
