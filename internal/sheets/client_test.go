package sheets

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

func sampleBooking() booking.BookingRequest {
	return booking.BookingRequest{
		ID:            uuid.New(),
		CustomerName:  "Ana",
		CustomerPhone: "11999999999",
		ServiceName:   "Manicure",
		Date:          "2024-06-10",
		TimeSlot:      "10:00",
		Status:        booking.StatusPendente,
	}
}

func TestAppendBooking(t *testing.T) {
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type, got %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if err := c.AppendBooking(context.Background(), sampleBooking()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"nome":     "Ana",
		"telefone": "11999999999",
		"data":     "2024-06-10",
		"horario":  "10:00",
		"servico":  "Manicure",
		"status":   "Pendente",
	}
	for key, wantVal := range want {
		if gotBody[key] != wantVal {
			t.Errorf("body[%q] = %q, want %q", key, gotBody[key], wantVal)
		}
	}
	if _, ok := gotBody["acao"]; ok {
		t.Error("append must not carry the acao field")
	}
}

func TestAppendBookingWebAppError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","message":"planilha cheia"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.AppendBooking(context.Background(), sampleBooking())
	if err == nil {
		t.Fatal("expected error for non-success status")
	}
	var pErr *booking.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PersistenceError, got %T", err)
	}
}

func TestAppendBookingHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.AppendBooking(context.Background(), sampleBooking())
	var pErr *booking.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestAppendBookingTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect
		// and cancel the request context; otherwise srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.AppendBooking(ctx, sampleBooking())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, booking.ErrTimeout) {
		t.Fatalf("expected ErrTimeout in chain, got %v", err)
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer srv.Close()

	rec := sampleBooking()
	rec.Status = booking.StatusConfirmado

	c := NewClient(srv.URL, nil)
	if err := c.UpdateBookingStatus(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotBody["status"] != "Confirmado" {
		t.Errorf("expected status Confirmado, got %q", gotBody["status"])
	}
	if gotBody["acao"] != "atualizar" {
		t.Errorf("expected acao atualizar, got %q", gotBody["acao"])
	}
}

func TestAppendBookingMissingURL(t *testing.T) {
	c := NewClient("", nil)
	if err := c.AppendBooking(context.Background(), sampleBooking()); err == nil {
		t.Fatal("expected error when web app url is not configured")
	}
}
