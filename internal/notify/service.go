package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/studiobela/booking-api/internal/booking"
	"github.com/studiobela/booking-api/pkg/logging"
)

// BookingSummary carries the fields included in the operator email.
type BookingSummary struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// Service sends plain-text booking summaries to the salon operator. It is
// an independent operation, not chained into the submission flow.
type Service struct {
	sender        EmailSender
	operatorEmail string
	logger        *logging.Logger
}

// NewService creates the notification service.
func NewService(sender EmailSender, operatorEmail string, logger *logging.Logger) *Service {
	if sender == nil {
		sender = NewStubEmailSender(logger)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:        sender,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

// SendBookingSummary emails the booking summary to the operator address.
// Failures surface as NotificationError; nothing is retried.
func (s *Service) SendBookingSummary(ctx context.Context, sum BookingSummary) error {
	if s.operatorEmail == "" {
		return &booking.NotificationError{Err: fmt.Errorf("notify: operator email not configured")}
	}

	msg := EmailMessage{
		To:      s.operatorEmail,
		Subject: "Novo Agendamento",
		Body:    summaryBody(sum),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return &booking.NotificationError{Err: err}
	}

	s.logger.Info("booking summary sent", "service", sum.Service, "date", sum.Date, "time", sum.Time)
	return nil
}

func summaryBody(sum BookingSummary) string {
	var b strings.Builder
	b.WriteString("Novo agendamento realizado:\n")
	fmt.Fprintf(&b, "Nome: %s\n", sum.Name)
	fmt.Fprintf(&b, "Telefone: %s\n", sum.Phone)
	fmt.Fprintf(&b, "Serviço: %s\n", sum.Service)
	fmt.Fprintf(&b, "Data: %s\n", sum.Date)
	fmt.Fprintf(&b, "Hora: %s\n", sum.Time)
	return b.String()
}
