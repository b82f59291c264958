package booking

import (
	"encoding/json"
	"net/http"

	"github.com/studiobela/booking-api/pkg/logging"
)

// WebhookHandler receives Mercado Pago payment notifications and closes the
// Pendente consistency window: once the payment outcome is known, the
// spreadsheet record is updated to Confirmado or PagamentoFalhou.
type WebhookHandler struct {
	payments    PaymentStatusResolver
	persistence PersistenceGateway
	logger      *logging.Logger
}

// NewWebhookHandler creates the payment webhook handler.
func NewWebhookHandler(payments PaymentStatusResolver, persistence PersistenceGateway, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		payments:    payments,
		persistence: persistence,
		logger:      logger,
	}
}

// paymentEvent is the notification shape Mercado Pago posts to the
// notification_url: {"type":"payment","data":{"id":"123"}}.
type paymentEvent struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandlePayment handles POST /webhooks/mercadopago requests.
func (h *WebhookHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	var evt paymentEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		h.logger.Error("failed to decode payment event", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if evt.Type != "payment" || evt.Data.ID == "" {
		// Other event types (plan, subscription, invoice) are not ours.
		w.WriteHeader(http.StatusOK)
		return
	}

	outcome, err := h.payments.GetPayment(r.Context(), evt.Data.ID)
	if err != nil {
		h.logger.Error("payment lookup failed", "error", err, "payment_id", evt.Data.ID)
		http.Error(w, "payment lookup failed", http.StatusBadGateway)
		return
	}

	status, final := mapPaymentStatus(outcome.Status)
	if !final {
		h.logger.Info("ignoring non-final payment status", "payment_id", outcome.PaymentID, "status", outcome.Status)
		w.WriteHeader(http.StatusOK)
		return
	}

	record := outcome.Booking
	record.Status = status
	if err := h.persistence.UpdateBookingStatus(r.Context(), record); err != nil {
		h.logger.Error("status update failed", "error", err, "payment_id", outcome.PaymentID, "status", status)
		http.Error(w, "status update failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("booking status updated",
		"payment_id", outcome.PaymentID,
		"status", status,
		"date", record.Date,
		"time", record.TimeSlot,
	)
	w.WriteHeader(http.StatusOK)
}

// mapPaymentStatus translates processor payment states into booking
// statuses. Non-final states (pending, in_process, authorized) keep the
// record as Pendente.
func mapPaymentStatus(processorStatus string) (Status, bool) {
	switch processorStatus {
	case "approved":
		return StatusConfirmado, true
	case "rejected", "cancelled":
		return StatusPagamentoFalhou, true
	default:
		return StatusPendente, false
	}
}
