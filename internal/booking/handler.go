package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/studiobela/booking-api/internal/catalog"
	"github.com/studiobela/booking-api/internal/schedule"
	"github.com/studiobela/booking-api/pkg/logging"
)

// Handler handles HTTP requests for the booking form surface.
type Handler struct {
	service *Service
	catalog *catalog.Catalog
	slots   *schedule.SlotProvider
	logger  *logging.Logger
}

// NewHandler creates a new booking handler.
func NewHandler(service *Service, cat *catalog.Catalog, slots *schedule.SlotProvider, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		catalog: cat,
		slots:   slots,
		logger:  logger,
	}
}

type submitPayload struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	Service       string `json:"service"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

type submitResponse struct {
	BookingID   string `json:"booking_id"`
	Status      Status `json:"status"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// CreateBooking handles POST /bookings requests.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var date time.Time
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			http.Error(w, "invalid date format, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	result, err := h.service.Submit(r.Context(), SubmitRequest{
		CustomerName:  payload.Name,
		CustomerPhone: payload.Phone,
		CustomerEmail: payload.Email,
		ServiceName:   payload.Service,
		Date:          date,
		TimeSlot:      payload.Time,
		PaymentMethod: PaymentMethod(payload.PaymentMethod),
	})
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	resp := submitResponse{
		BookingID:   result.Booking.ID.String(),
		Status:      result.Booking.Status,
		CheckoutURL: result.CheckoutURL,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// writeSubmitError maps the submission error taxonomy to HTTP statuses. All
// errors surface as a single human-readable message.
func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Reason, http.StatusBadRequest)
	case errors.Is(err, ErrSubmissionInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrTimeout):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

type serviceView struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ListServices handles GET /services requests, grouped by category the way
// the form renders them.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	resp := map[string][]serviceView{}
	for _, cat := range []catalog.Category{catalog.CategoryNails, catalog.CategoryEyebrows} {
		views := []serviceView{}
		for _, svc := range h.catalog.ByCategory(cat) {
			views = append(views, serviceView{Name: svc.Name, Price: svc.Price()})
		}
		resp[string(cat)] = views
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListTimes handles GET /times requests. The list is static regardless of
// prior bookings.
func (h *Handler) ListTimes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"times": h.slots.Times()})
}

// HealthCheck handles GET /health requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
