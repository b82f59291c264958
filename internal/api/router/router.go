package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studiobela/booking-api/internal/booking"
	httpmiddleware "github.com/studiobela/booking-api/internal/http/middleware"
	"github.com/studiobela/booking-api/internal/notify"
	"github.com/studiobela/booking-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	BookingHandler      *booking.Handler
	NotificationHandler *notify.Handler
	PaymentWebhook      *booking.WebhookHandler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.BookingHandler.HealthCheck)

	// Booking form surface
	r.Post("/bookings", cfg.BookingHandler.CreateBooking)
	r.Get("/services", cfg.BookingHandler.ListServices)
	r.Get("/times", cfg.BookingHandler.ListTimes)

	if cfg.NotificationHandler != nil {
		r.Post("/notifications/email", cfg.NotificationHandler.SendEmail)
	}

	if cfg.PaymentWebhook != nil {
		r.Post("/webhooks/mercadopago", cfg.PaymentWebhook.HandlePayment)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
