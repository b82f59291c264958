package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Google Apps Script web app that logs bookings to the spreadsheet.
	SheetsWebAppURL string

	// Mercado Pago checkout configuration.
	MercadoPagoAccessToken string
	MercadoPagoBaseURL     string
	PaymentEnabled         bool
	CurrencyID             string
	CheckoutSuccessURL     string
	CheckoutFailureURL     string
	CheckoutPendingURL     string
	PaymentNotificationURL string

	// Placeholder domain for the synthesized payer email when the customer
	// did not provide a real address.
	PayerEmailDomain string

	// Per-call deadline for outbound gateway requests.
	GatewayTimeout time.Duration

	// Bookable time slots; overrides the built-in list when set.
	AvailableTimes []string

	// Email notification configuration.
	EmailProvider     string // "sendgrid", "ses" or "stub"
	NotificationEmail string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// AWS SES Configuration
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	SESFromEmail        string
	SESFromName         string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		SheetsWebAppURL: getEnv("SHEETS_WEBAPP_URL", ""),

		MercadoPagoAccessToken: getEnv("MERCADO_PAGO_ACCESS_TOKEN", ""),
		MercadoPagoBaseURL:     getEnv("MERCADO_PAGO_BASE_URL", ""),
		PaymentEnabled:         getEnvAsBool("PAYMENT_ENABLED", true),
		CurrencyID:             getEnv("CURRENCY_ID", "BRL"),
		CheckoutSuccessURL:     getEnv("CHECKOUT_SUCCESS_URL", ""),
		CheckoutFailureURL:     getEnv("CHECKOUT_FAILURE_URL", ""),
		CheckoutPendingURL:     getEnv("CHECKOUT_PENDING_URL", ""),
		PaymentNotificationURL: getEnv("PAYMENT_NOTIFICATION_URL", ""),

		PayerEmailDomain: getEnv("PAYER_EMAIL_DOMAIN", "email.com"),

		GatewayTimeout: getEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second),

		AvailableTimes: getEnvAsSlice("AVAILABLE_TIMES", nil),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Studio Bela"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		SESFromEmail:        getEnv("SES_FROM_EMAIL", ""),
		SESFromName:         getEnv("SES_FROM_NAME", "Studio Bela"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable as a slice.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
