// Package sheets logs bookings to the salon's spreadsheet through a Google
// Apps Script web app. The spreadsheet is the system of record; this client
// keeps nothing locally.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/studiobela/booking-api/internal/booking"
	"github.com/studiobela/booking-api/pkg/logging"
)

var sheetsTracer = otel.Tracer("salon.internal.sheets")

// Client posts booking records to the Apps Script web-app endpoint.
type Client struct {
	webAppURL  string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a spreadsheet-log client for the given web-app URL.
func NewClient(webAppURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		webAppURL:  webAppURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// WithHTTPClient overrides the HTTP client (for testing).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// record is the wire shape the Apps Script web app expects.
type record struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	Data     string `json:"data"`
	Horario  string `json:"horario"`
	Servico  string `json:"servico"`
	Status   string `json:"status"`
	// Acao distinguishes a status update from an append. Omitted on append.
	Acao string `json:"acao,omitempty"`
}

// response is the web app's acknowledgment. Anything but status "success"
// is a failure even on HTTP 200.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// AppendBooking logs one booking row. Exactly one network call, no retry;
// any non-success response or transport failure surfaces as a
// PersistenceError with the cause intact.
func (c *Client) AppendBooking(ctx context.Context, req booking.BookingRequest) error {
	ctx, span := sheetsTracer.Start(ctx, "sheets.append_booking")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.booking_id", req.ID.String()),
		attribute.String("salon.date", req.Date),
	)

	if err := c.post(ctx, record{
		Nome:     req.CustomerName,
		Telefone: req.CustomerPhone,
		Data:     req.Date,
		Horario:  req.TimeSlot,
		Servico:  req.ServiceName,
		Status:   string(req.Status),
	}); err != nil {
		span.RecordError(err)
		return &booking.PersistenceError{Err: err}
	}
	return nil
}

// UpdateBookingStatus re-posts the record with its new status. The web app
// matches the row by name, date and time.
func (c *Client) UpdateBookingStatus(ctx context.Context, req booking.BookingRequest) error {
	ctx, span := sheetsTracer.Start(ctx, "sheets.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.date", req.Date),
		attribute.String("salon.status", string(req.Status)),
	)

	if err := c.post(ctx, record{
		Nome:     req.CustomerName,
		Telefone: req.CustomerPhone,
		Data:     req.Date,
		Horario:  req.TimeSlot,
		Servico:  req.ServiceName,
		Status:   string(req.Status),
		Acao:     "atualizar",
	}); err != nil {
		span.RecordError(err)
		return &booking.PersistenceError{Err: err}
	}
	return nil
}

func (c *Client) post(ctx context.Context, rec record) error {
	if c.webAppURL == "" {
		return fmt.Errorf("sheets: web app url not configured")
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sheets: encode record: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webAppURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sheets: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.Join(booking.ErrTimeout, err)
		}
		return fmt.Errorf("sheets: http: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("sheets: read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sheets: web app status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("sheets: decode response: %w", err)
	}
	if parsed.Status != "success" {
		if parsed.Message != "" {
			return fmt.Errorf("sheets: web app rejected record: %s", parsed.Message)
		}
		return fmt.Errorf("sheets: web app returned status %q", parsed.Status)
	}

	c.logger.Debug("sheets record posted", "acao", rec.Acao, "data", rec.Data, "horario", rec.Horario)
	return nil
}

var _ booking.PersistenceGateway = (*Client)(nil)
