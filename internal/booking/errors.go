package booking

import "errors"

var (
	// ErrSubmissionInFlight is returned while another submission is running.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	// ErrTimeout marks a gateway error caused by the per-call deadline.
	// Gateway clients join it onto the underlying error so callers can
	// distinguish timeouts with errors.Is.
	ErrTimeout = errors.New("gateway call timed out")
)

// ValidationError is a client-correctable input failure. No network call is
// made when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validation failures in the order submit checks them.
var (
	ErrMissingContactInfo = &ValidationError{Reason: "missing contact info"}
	ErrMissingDate        = &ValidationError{Reason: "missing date"}
	ErrMissingTime        = &ValidationError{Reason: "missing time"}
	ErrUnknownService     = &ValidationError{Reason: "unknown service"}
)

// PersistenceError signals that the booking-log call failed. The submission
// aborts and no payment is attempted.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "booking log failed: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PaymentError signals that checkout-session creation failed after the
// booking was logged. The booking stays logged as Pendente; there is no
// compensating action inside the submission itself.
type PaymentError struct {
	// Message is the processor's message when it sent one.
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Message != "" {
		return "payment checkout failed: " + e.Message
	}
	return "payment checkout failed: " + e.Err.Error()
}

func (e *PaymentError) Unwrap() error { return e.Err }

// NotificationError signals that the booking summary email could not be
// sent. Independent of the booking flow.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return "notification failed: " + e.Err.Error()
}

func (e *NotificationError) Unwrap() error { return e.Err }
