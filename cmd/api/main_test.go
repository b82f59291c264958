package main

import (
	"testing"

	appconfig "github.com/studiobela/booking-api/internal/config"
	"github.com/studiobela/booking-api/internal/notify"
	"github.com/studiobela/booking-api/pkg/logging"
)

func TestBuildEmailSenderDefaultsToStub(t *testing.T) {
	logger := logging.New("error", "")
	cfg := &appconfig.Config{EmailProvider: "stub"}

	sender := buildEmailSender(cfg, logger)
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub sender, got %T", sender)
	}
}

func TestBuildEmailSenderSendGridWithoutKeyFallsBack(t *testing.T) {
	logger := logging.New("error", "")
	cfg := &appconfig.Config{EmailProvider: "sendgrid"}

	sender := buildEmailSender(cfg, logger)
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected fallback to stub without API key, got %T", sender)
	}
}

func TestBuildEmailSenderSendGridConfigured(t *testing.T) {
	logger := logging.New("error", "")
	cfg := &appconfig.Config{
		EmailProvider:     "sendgrid",
		SendGridAPIKey:    "SG.test",
		SendGridFromEmail: "noreply@studiobela.example",
	}

	sender := buildEmailSender(cfg, logger)
	if _, ok := sender.(*notify.SendGridSender); !ok {
		t.Fatalf("expected sendgrid sender, got %T", sender)
	}
}
