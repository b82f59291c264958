package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/studiobela/booking-api/internal/booking"
)

// paymentResponse is the subset of a Mercado Pago payment we need to close
// the booking status loop. Metadata keys come back snake_cased.
type paymentResponse struct {
	ID       json.Number       `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

// GetPayment fetches a payment referenced by a webhook notification and
// reconstructs the booking from the preference metadata.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*booking.PaymentOutcome, error) {
	ctx, span := mpTracer.Start(ctx, "mercadopago.get_payment")
	defer span.End()

	apiURL := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("mercadopago: payment http: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: read payment response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("mercadopago: payment api status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed paymentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("mercadopago: decode payment: %w", err)
	}

	outcome := &booking.PaymentOutcome{
		PaymentID: parsed.ID.String(),
		Status:    parsed.Status,
		Booking: booking.BookingRequest{
			CustomerName:  parsed.Metadata["client_name"],
			CustomerPhone: parsed.Metadata["client_phone"],
			ServiceName:   parsed.Metadata["service"],
			Date:          parsed.Metadata["date"],
			TimeSlot:      parsed.Metadata["time"],
		},
	}
	if id, err := uuid.Parse(parsed.Metadata["booking_id"]); err == nil {
		outcome.Booking.ID = id
	}
	return outcome, nil
}

var _ booking.PaymentStatusResolver = (*Client)(nil)
