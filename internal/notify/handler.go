package notify

import (
	"encoding/json"
	"net/http"

	"github.com/studiobela/booking-api/pkg/logging"
)

// Handler handles HTTP requests for booking notifications.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new notification handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SendEmail handles POST /notifications/email requests.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var sum BookingSummary
	if err := json.NewDecoder(r.Body).Decode(&sum); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.SendBookingSummary(r.Context(), sum); err != nil {
		h.logger.Error("failed to send booking summary", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "email sent"})
}
