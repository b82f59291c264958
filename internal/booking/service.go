package booking

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/studiobela/booking-api/internal/catalog"
	"github.com/studiobela/booking-api/internal/observability/metrics"
	"github.com/studiobela/booking-api/pkg/logging"
)

var bookingTracer = otel.Tracer("salon.internal.booking")

// Service drives the submission sequence: validate, log to the spreadsheet,
// then create the checkout session. One submission runs at a time.
type Service struct {
	catalog     *catalog.Catalog
	persistence PersistenceGateway
	payments    PaymentGateway // nil disables the payment step
	metrics     *metrics.BookingMetrics
	logger      *logging.Logger

	// Advisory guard against double-clicks. There is no server-side
	// uniqueness for bookings; the spreadsheet logs every submission.
	inFlight atomic.Bool

	timeout time.Duration
}

// Options parameterize the submission flow. One configurable service
// replaces the original's near-duplicate form variants.
type Options struct {
	// PaymentEnabled controls whether a checkout session is created after
	// the booking is logged.
	PaymentEnabled bool
	// GatewayTimeout bounds each outbound call. Zero means 15s.
	GatewayTimeout time.Duration
}

// NewService constructs the booking submission service.
func NewService(cat *catalog.Catalog, persistence PersistenceGateway, payments PaymentGateway, opts Options, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if cat == nil {
		panic("booking: catalog required")
	}
	if persistence == nil {
		panic("booking: persistence gateway required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if !opts.PaymentEnabled {
		payments = nil
	}
	timeout := opts.GatewayTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{
		catalog:     cat,
		persistence: persistence,
		payments:    payments,
		metrics:     m,
		logger:      logger,
		timeout:     timeout,
	}
}

// Submit validates the accumulated fields and runs the submission sequence.
// Exactly one persistence call happens before at most one payment call; no
// retries, no rollback. While a submission is in flight additional calls
// fail with ErrSubmissionInFlight.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	ctx, span := bookingTracer.Start(ctx, "booking.submit")
	defer span.End()

	svc, err := s.validate(req)
	if err != nil {
		s.metrics.ObserveSubmission("validation_error")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("salon.service", svc.Name),
		attribute.String("salon.date", req.Date.Format("2006-01-02")),
	)

	record := BookingRequest{
		ID:            uuid.New(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ServiceName:   svc.Name,
		Date:          req.Date.Format("2006-01-02"),
		TimeSlot:      req.TimeSlot,
		PaymentMethod: req.PaymentMethod,
		Status:        StatusPendente,
	}

	if err := s.appendBooking(ctx, record); err != nil {
		s.metrics.ObserveSubmission("persistence_error")
		s.logger.Error("booking log failed", "error", err, "booking_id", record.ID)
		return nil, err
	}
	s.logger.Info("booking logged",
		"booking_id", record.ID,
		"service", record.ServiceName,
		"date", record.Date,
		"time", record.TimeSlot,
	)

	result := &SubmitResult{Booking: record}
	if s.payments == nil {
		s.metrics.ObserveSubmission("success")
		return result, nil
	}

	checkout, err := s.createCheckout(ctx, svc, record, req.CustomerEmail)
	if err != nil {
		// The booking stays logged as Pendente; the payment webhook is the
		// only path that later revises the status.
		s.metrics.ObserveSubmission("payment_error")
		s.logger.Error("checkout creation failed", "error", err, "booking_id", record.ID)
		return nil, err
	}

	result.CheckoutURL = checkout.URL
	result.PreferenceID = checkout.PreferenceID
	s.metrics.ObserveSubmission("success")
	s.logger.Info("checkout created", "booking_id", record.ID, "preference_id", checkout.PreferenceID)
	return result, nil
}

// validate fails fast: the first failing check wins. Nothing here touches
// the network.
func (s *Service) validate(req SubmitRequest) (catalog.Service, error) {
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerPhone) == "" {
		return catalog.Service{}, ErrMissingContactInfo
	}
	if req.Date.IsZero() {
		return catalog.Service{}, ErrMissingDate
	}
	if strings.TrimSpace(req.TimeSlot) == "" {
		return catalog.Service{}, ErrMissingTime
	}
	svc, err := s.catalog.Resolve(req.ServiceName)
	if err != nil {
		return catalog.Service{}, ErrUnknownService
	}
	return svc, nil
}

func (s *Service) appendBooking(ctx context.Context, record BookingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.persistence.AppendBooking(ctx, record)
	s.metrics.ObserveGatewayLatency("sheets", time.Since(start).Seconds())
	return err
}

func (s *Service) createCheckout(ctx context.Context, svc catalog.Service, record BookingRequest, payerEmail string) (*Checkout, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	checkout, err := s.payments.CreatePreference(ctx, CheckoutParams{
		Title:          svc.Name,
		UnitPriceCents: svc.PriceCents,
		PayerName:      record.CustomerName,
		PayerPhone:     record.CustomerPhone,
		PayerEmail:     payerEmail,
		BookingDate:    record.Date,
		BookingTime:    record.TimeSlot,
		BookingID:      record.ID,
	})
	s.metrics.ObserveGatewayLatency("mercadopago", time.Since(start).Seconds())
	return checkout, err
}
