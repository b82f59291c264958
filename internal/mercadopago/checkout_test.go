package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studiobela/booking-api/internal/booking"
)

func testParams() booking.CheckoutParams {
	return booking.CheckoutParams{
		Title:          "Manicure",
		UnitPriceCents: 3500,
		PayerName:      "Ana",
		PayerPhone:     "(11) 99999-9999",
		BookingDate:    "2024-06-10",
		BookingTime:    "10:00",
		BookingID:      uuid.New(),
	}
}

func TestCreatePreference(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/checkout/preferences" {
			t.Errorf("expected path /checkout/preferences, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer TEST-TOKEN" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"123","init_point":"https://pay.example/123"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{
		AccessToken:     "TEST-TOKEN",
		BaseURL:         srv.URL,
		SuccessURL:      "https://salon.example/success",
		FailureURL:      "https://salon.example/failure",
		PendingURL:      "https://salon.example/pending",
		NotificationURL: "https://salon.example/webhooks/mercadopago",
	}, nil)

	params := testParams()
	checkout, err := c.CreatePreference(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.URL != "https://pay.example/123" {
		t.Fatalf("unexpected checkout URL: %s", checkout.URL)
	}
	if checkout.PreferenceID != "123" {
		t.Fatalf("unexpected preference ID: %s", checkout.PreferenceID)
	}

	items, ok := gotBody["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one item, got %v", gotBody["items"])
	}
	item := items[0].(map[string]any)
	if item["title"] != "Manicure" {
		t.Errorf("item title = %v", item["title"])
	}
	if item["quantity"].(float64) != 1 {
		t.Errorf("item quantity = %v", item["quantity"])
	}
	if item["currency_id"] != "BRL" {
		t.Errorf("item currency = %v", item["currency_id"])
	}
	if item["unit_price"].(float64) != 35.0 {
		t.Errorf("item unit_price = %v", item["unit_price"])
	}

	payer := gotBody["payer"].(map[string]any)
	if payer["email"] != "11999999999@email.com" {
		t.Errorf("expected synthesized payer email, got %v", payer["email"])
	}

	metadata := gotBody["metadata"].(map[string]any)
	if metadata["client_name"] != "Ana" {
		t.Errorf("metadata client_name = %v", metadata["client_name"])
	}
	if metadata["date"] != "2024-06-10" || metadata["time"] != "10:00" {
		t.Errorf("metadata date/time = %v/%v", metadata["date"], metadata["time"])
	}
	if metadata["booking_id"] != params.BookingID.String() {
		t.Errorf("metadata booking_id = %v", metadata["booking_id"])
	}

	backURLs := gotBody["back_urls"].(map[string]any)
	if backURLs["success"] != "https://salon.example/success" {
		t.Errorf("back_urls success = %v", backURLs["success"])
	}
	if gotBody["notification_url"] != "https://salon.example/webhooks/mercadopago" {
		t.Errorf("notification_url = %v", gotBody["notification_url"])
	}

	methods := gotBody["payment_methods"].(map[string]any)
	if methods["installments"].(float64) != 1 {
		t.Errorf("installments = %v", methods["installments"])
	}
}

func TestCreatePreferenceRealEmailWins(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"id":"1","init_point":"https://pay.example/1"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{AccessToken: "t", BaseURL: srv.URL}, nil)

	params := testParams()
	params.PayerEmail = "ana@example.com"
	if _, err := c.CreatePreference(context.Background(), params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payer := gotBody["payer"].(map[string]any)
	if payer["email"] != "ana@example.com" {
		t.Errorf("expected real email to win, got %v", payer["email"])
	}
}

func TestCreatePreferenceAPIErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"invalid access token"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{AccessToken: "bad", BaseURL: srv.URL}, nil)

	_, err := c.CreatePreference(context.Background(), testParams())
	if err == nil {
		t.Fatal("expected error for bad API response")
	}
	var pErr *booking.PaymentError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PaymentError, got %T", err)
	}
	if pErr.Message != "invalid access token" {
		t.Errorf("expected processor message, got %q", pErr.Message)
	}
}

func TestCreatePreferenceMissingInitPoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"123"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{AccessToken: "t", BaseURL: srv.URL}, nil)
	if _, err := c.CreatePreference(context.Background(), testParams()); err == nil {
		t.Fatal("expected error when init_point is missing")
	}
}

func TestCreatePreferenceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect
		// and cancel the request context; otherwise srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(Config{AccessToken: "t", BaseURL: srv.URL}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.CreatePreference(ctx, testParams())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, booking.ErrTimeout) {
		t.Fatalf("expected ErrTimeout in chain, got %v", err)
	}
}

func TestStripNonDigits(t *testing.T) {
	cases := map[string]string{
		"(11) 98765-4321": "11987654321",
		"11999999999":     "11999999999",
		"+55 11 9 9999":   "551199999",
		"":                "",
	}
	for in, want := range cases {
		if got := stripNonDigits(in); got != want {
			t.Errorf("stripNonDigits(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/42" {
			t.Errorf("expected path /v1/payments/42, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer TEST-TOKEN" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		fmt.Fprint(w, `{
			"id": 42,
			"status": "approved",
			"metadata": {
				"client_name": "Ana",
				"client_phone": "11999999999",
				"service": "Manicure",
				"date": "2024-06-10",
				"time": "10:00"
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient(Config{AccessToken: "TEST-TOKEN", BaseURL: srv.URL}, nil)
	outcome, err := c.GetPayment(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != "approved" {
		t.Errorf("status = %q", outcome.Status)
	}
	if outcome.PaymentID != "42" {
		t.Errorf("payment id = %q", outcome.PaymentID)
	}
	if outcome.Booking.CustomerName != "Ana" || outcome.Booking.Date != "2024-06-10" {
		t.Errorf("unexpected booking from metadata: %+v", outcome.Booking)
	}
}

func TestGetPaymentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{AccessToken: "t", BaseURL: srv.URL}, nil)
	if _, err := c.GetPayment(context.Background(), "999"); err == nil {
		t.Fatal("expected error for missing payment")
	}
}
