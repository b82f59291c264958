// Package mercadopago creates hosted checkout preferences and looks up
// payment outcomes through the Mercado Pago REST API.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/studiobela/booking-api/internal/booking"
	"github.com/studiobela/booking-api/pkg/logging"
)

var mpTracer = otel.Tracer("salon.internal.mercadopago")

// Client talks to the Mercado Pago checkout-preferences API.
type Client struct {
	accessToken     string
	baseURL         string
	currencyID      string
	successURL      string
	failureURL      string
	pendingURL      string
	notificationURL string
	emailDomain     string
	httpClient      *http.Client
	logger          *logging.Logger
}

// Config holds the checkout configuration.
type Config struct {
	AccessToken string
	// BaseURL overrides the production API endpoint (for testing).
	BaseURL         string
	CurrencyID      string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
	NotificationURL string
	// PayerEmailDomain is the domain of the synthesized payer email used
	// when the customer did not provide a real address.
	PayerEmailDomain string
}

// NewClient creates a Mercado Pago client.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	currency := cfg.CurrencyID
	if currency == "" {
		currency = "BRL"
	}
	emailDomain := cfg.PayerEmailDomain
	if emailDomain == "" {
		emailDomain = "email.com"
	}
	return &Client{
		accessToken:     cfg.AccessToken,
		baseURL:         strings.TrimRight(baseURL, "/"),
		currencyID:      currency,
		successURL:      cfg.SuccessURL,
		failureURL:      cfg.FailureURL,
		pendingURL:      cfg.PendingURL,
		notificationURL: cfg.NotificationURL,
		emailDomain:     emailDomain,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		logger:          logger,
	}
}

// WithHTTPClient overrides the HTTP client (for testing).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type preferencePayer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone struct {
		Number string `json:"number"`
	} `json:"phone"`
}

type preferencePaymentMethods struct {
	ExcludedPaymentMethods []string `json:"excluded_payment_methods"`
	ExcludedPaymentTypes   []string `json:"excluded_payment_types"`
	Installments           int      `json:"installments"`
}

type preferenceBackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type preferenceRequest struct {
	Items           []preferenceItem         `json:"items"`
	Payer           preferencePayer          `json:"payer"`
	PaymentMethods  preferencePaymentMethods `json:"payment_methods"`
	Metadata        map[string]string        `json:"metadata"`
	BackURLs        preferenceBackURLs       `json:"back_urls"`
	NotificationURL string                   `json:"notification_url,omitempty"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type apiError struct {
	Message string `json:"message"`
}

// CreatePreference creates a checkout preference and returns its redirect
// URL. Any non-success response surfaces as a PaymentError carrying the
// processor's message when present.
func (c *Client) CreatePreference(ctx context.Context, params booking.CheckoutParams) (*booking.Checkout, error) {
	ctx, span := mpTracer.Start(ctx, "mercadopago.create_preference")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.booking_id", params.BookingID.String()),
		attribute.Int64("salon.unit_price_cents", params.UnitPriceCents),
	)

	payer := preferencePayer{
		Name:  params.PayerName,
		Email: payerEmail(params.PayerEmail, params.PayerPhone, c.emailDomain),
	}
	payer.Phone.Number = params.PayerPhone

	payload := preferenceRequest{
		Items: []preferenceItem{{
			Title:      params.Title,
			Quantity:   1,
			CurrencyID: c.currencyID,
			UnitPrice:  float64(params.UnitPriceCents) / 100,
		}},
		Payer: payer,
		PaymentMethods: preferencePaymentMethods{
			ExcludedPaymentMethods: []string{},
			ExcludedPaymentTypes:   []string{},
			Installments:           1,
		},
		Metadata: map[string]string{
			"client_name":  params.PayerName,
			"client_phone": params.PayerPhone,
			"date":         params.BookingDate,
			"time":         params.BookingTime,
			"service":      params.Title,
			"booking_id":   params.BookingID.String(),
		},
		BackURLs: preferenceBackURLs{
			Success: c.successURL,
			Failure: c.failureURL,
			Pending: c.pendingURL,
		},
		NotificationURL: c.notificationURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &booking.PaymentError{Err: fmt.Errorf("mercadopago: encode preference: %w", err)}
	}

	apiURL := c.baseURL + "/checkout/preferences"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &booking.PaymentError{Err: fmt.Errorf("mercadopago: build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &booking.PaymentError{Err: errors.Join(booking.ErrTimeout, err)}
		}
		return nil, &booking.PaymentError{Err: fmt.Errorf("mercadopago: http: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &booking.PaymentError{Err: fmt.Errorf("mercadopago: read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		perr := &booking.PaymentError{Err: fmt.Errorf("mercadopago: api status %d: %s", resp.StatusCode, string(raw))}
		var parsed apiError
		if json.Unmarshal(raw, &parsed) == nil {
			perr.Message = parsed.Message
		}
		span.RecordError(perr)
		return nil, perr
	}

	var parsed preferenceResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &booking.PaymentError{Err: fmt.Errorf("mercadopago: decode response: %w", err)}
	}
	if parsed.InitPoint == "" {
		return nil, &booking.PaymentError{Err: fmt.Errorf("mercadopago: response missing init_point")}
	}

	c.logger.Info("checkout preference created", "preference_id", parsed.ID, "booking_id", params.BookingID)
	return &booking.Checkout{
		PreferenceID: parsed.ID,
		URL:          parsed.InitPoint,
	}, nil
}

// payerEmail returns the customer's real email when provided. The processor
// requires an email field the booking form does not collect, so the
// fallback synthesizes a placeholder from the phone digits; it is not a
// real contact channel.
func payerEmail(email, phone, domain string) string {
	if email = strings.TrimSpace(email); email != "" {
		return email
	}
	return stripNonDigits(phone) + "@" + domain
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var _ booking.PaymentGateway = (*Client)(nil)
