package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studiobela/booking-api/internal/api/router"
	"github.com/studiobela/booking-api/internal/booking"
	"github.com/studiobela/booking-api/internal/catalog"
	appconfig "github.com/studiobela/booking-api/internal/config"
	"github.com/studiobela/booking-api/internal/mercadopago"
	"github.com/studiobela/booking-api/internal/notify"
	"github.com/studiobela/booking-api/internal/observability/metrics"
	"github.com/studiobela/booking-api/internal/schedule"
	"github.com/studiobela/booking-api/internal/sheets"
	"github.com/studiobela/booking-api/pkg/logging"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"payment_enabled", cfg.PaymentEnabled,
	)

	cat := catalog.Default()
	slots := schedule.NewSlotProvider(cfg.AvailableTimes)
	bookingMetrics := metrics.NewBookingMetrics(nil)

	sheetsClient := sheets.NewClient(cfg.SheetsWebAppURL, logger)

	var paymentGateway booking.PaymentGateway
	var mpClient *mercadopago.Client
	if cfg.PaymentEnabled {
		mpClient = mercadopago.NewClient(mercadopago.Config{
			AccessToken:      cfg.MercadoPagoAccessToken,
			BaseURL:          cfg.MercadoPagoBaseURL,
			CurrencyID:       cfg.CurrencyID,
			SuccessURL:       cfg.CheckoutSuccessURL,
			FailureURL:       cfg.CheckoutFailureURL,
			PendingURL:       cfg.CheckoutPendingURL,
			NotificationURL:  cfg.PaymentNotificationURL,
			PayerEmailDomain: cfg.PayerEmailDomain,
		}, logger)
		paymentGateway = mpClient
	}

	bookingService := booking.NewService(cat, sheetsClient, paymentGateway, booking.Options{
		PaymentEnabled: cfg.PaymentEnabled,
		GatewayTimeout: cfg.GatewayTimeout,
	}, bookingMetrics, logger)

	notifyService := notify.NewService(buildEmailSender(cfg, logger), cfg.NotificationEmail, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		BookingHandler:      booking.NewHandler(bookingService, cat, slots, logger),
		NotificationHandler: notify.NewHandler(notifyService, logger),
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	if mpClient != nil {
		routerCfg.PaymentWebhook = booking.NewWebhookHandler(mpClient, sheetsClient, logger)
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender picks the notification transport from config. A stub
// sender keeps the endpoint functional when no provider is configured.
func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but not configured, falling back to stub sender")
	case "ses":
		client, err := buildSESClient(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			break
		}
		if sender := notify.NewSESSender(client, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}

// buildSESClient centralizes AWS SDK initialization for the SES sender.
func buildSESClient(ctx context.Context, cfg *appconfig.Config) (*sesv2.Client, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}

	var opts []func(*sesv2.Options)
	if endpoint := cfg.AWSEndpointOverride; endpoint != "" {
		opts = append(opts, func(o *sesv2.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	return sesv2.NewFromConfig(awsCfg, opts...), nil
}
