package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the booking's lifecycle tag as recorded in the spreadsheet.
type Status string

const (
	// StatusPendente is set at creation, before any payment outcome.
	StatusPendente Status = "Pendente"
	// StatusConfirmado is set when the payment webhook reports approval.
	StatusConfirmado Status = "Confirmado"
	// StatusPagamentoFalhou is set when the payment webhook reports a
	// rejected or cancelled payment.
	StatusPagamentoFalhou Status = "PagamentoFalhou"
)

// PaymentMethod is the customer's declared payment choice.
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentPix    PaymentMethod = "pix"
	PaymentCash   PaymentMethod = "cash"
)

// BookingRequest is the finalized record sent to the spreadsheet log. It is
// transient: the external spreadsheet service is the system of record.
type BookingRequest struct {
	ID            uuid.UUID     `json:"id"`
	CustomerName  string        `json:"name"`
	CustomerPhone string        `json:"phone"`
	ServiceName   string        `json:"service"`
	Date          string        `json:"date"` // ISO calendar date, YYYY-MM-DD
	TimeSlot      string        `json:"time"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	Status        Status        `json:"status"`
}

// SubmitRequest holds the accumulated form fields for one submission.
type SubmitRequest struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string // optional; payer email is synthesized when empty
	ServiceName   string
	Date          time.Time
	TimeSlot      string
	PaymentMethod PaymentMethod
}

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	Booking BookingRequest
	// CheckoutURL is the hosted checkout redirect target. Empty when the
	// payment step is disabled.
	CheckoutURL  string
	PreferenceID string
}

// PersistenceGateway logs bookings to the external spreadsheet service.
type PersistenceGateway interface {
	// AppendBooking performs exactly one network call and does not retry.
	AppendBooking(ctx context.Context, req BookingRequest) error
	// UpdateBookingStatus re-posts the record with a new status once the
	// payment outcome is known.
	UpdateBookingStatus(ctx context.Context, req BookingRequest) error
}

// CheckoutParams describe the hosted checkout session to create.
type CheckoutParams struct {
	Title          string
	UnitPriceCents int64
	PayerName      string
	PayerPhone     string
	// PayerEmail is optional. When empty the gateway falls back to a
	// documented placeholder derived from the phone number.
	PayerEmail  string
	BookingDate string
	BookingTime string
	BookingID   uuid.UUID
}

// Checkout is the created payment preference.
type Checkout struct {
	PreferenceID string
	URL          string
}

// PaymentGateway creates hosted checkout sessions.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, params CheckoutParams) (*Checkout, error)
}

// PaymentOutcome is a payment's state as reported by the processor,
// together with the booking reconstructed from the preference metadata.
type PaymentOutcome struct {
	PaymentID string
	Status    string
	Booking   BookingRequest
}

// PaymentStatusResolver looks up a payment referenced by a webhook event.
type PaymentStatusResolver interface {
	GetPayment(ctx context.Context, paymentID string) (*PaymentOutcome, error)
}
