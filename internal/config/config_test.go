package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.CurrencyID != "BRL" {
		t.Errorf("expected default currency BRL, got %s", cfg.CurrencyID)
	}
	if !cfg.PaymentEnabled {
		t.Error("expected payment enabled by default")
	}
	if cfg.PayerEmailDomain != "email.com" {
		t.Errorf("expected default payer email domain, got %s", cfg.PayerEmailDomain)
	}
	if cfg.GatewayTimeout != 15*time.Second {
		t.Errorf("expected default gateway timeout 15s, got %s", cfg.GatewayTimeout)
	}
	if cfg.EmailProvider != "stub" {
		t.Errorf("expected default email provider stub, got %s", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PAYMENT_ENABLED", "false")
	t.Setenv("GATEWAY_TIMEOUT", "5s")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("AVAILABLE_TIMES", "08:00, 08:30 ,09:00")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://studiobela.com.br")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.PaymentEnabled {
		t.Error("expected payment disabled")
	}
	if cfg.GatewayTimeout != 5*time.Second {
		t.Errorf("expected gateway timeout 5s, got %s", cfg.GatewayTimeout)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Errorf("expected normalized provider sendgrid, got %s", cfg.EmailProvider)
	}
	if len(cfg.AvailableTimes) != 3 || cfg.AvailableTimes[1] != "08:30" {
		t.Errorf("unexpected available times: %v", cfg.AvailableTimes)
	}
	if len(cfg.CORSAllowedOrigins) != 1 {
		t.Errorf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetEnvAsBoolInvalid(t *testing.T) {
	t.Setenv("PAYMENT_ENABLED", "sim")
	cfg := Load()
	if !cfg.PaymentEnabled {
		t.Error("expected fallback to default on unparseable bool")
	}
}
