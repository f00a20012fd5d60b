package types

import (
	"errors"
	"fmt"
)

// Error codes shared by every payment method. The same taxonomy covers all
// three methods: the channel method's amount mismatch and redeemer failures
// are folded into it rather than reported out-of-band.
const (
	// ErrInvalidPaymentParameter flags malformed evidence, payment to the
	// wrong destination, or a diagnosed rejection from the verification
	// authority. Client fault.
	ErrInvalidPaymentParameter = "INVALID_PAYMENT_PARAMETER"

	// ErrInsufficientPayment flags an amount that differs from the resource
	// price in either direction; overpayment is rejected, not refunded.
	// Client fault.
	ErrInsufficientPayment = "INSUFFICIENT_PAYMENT"

	// ErrDuplicatePayment flags evidence whose identifier was already
	// redeemed. Client fault, never transient.
	ErrDuplicatePayment = "DUPLICATE_PAYMENT"

	// ErrBroadcastFailed flags a transaction the network refused after the
	// dedup record was committed. Server fault; the record stays, so only a
	// fresh transaction can recover.
	ErrBroadcastFailed = "BROADCAST_FAILED"

	// ErrServerError flags an unreachable verification authority or an
	// undiagnosed rejection. Server fault, safe to retry.
	ErrServerError = "SERVER_ERROR"
)

// PaymentError is the typed failure returned by Method.Redeem. Err, when
// set, preserves the collaborator's original error for errors.Is/errors.As.
type PaymentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError builds a PaymentError with the given code and message.
func NewPaymentError(code, message string) *PaymentError {
	return &PaymentError{Code: code, Message: message}
}

// WrapPaymentError builds a PaymentError that keeps cause in the unwrap
// chain.
func WrapPaymentError(code, message string, cause error) *PaymentError {
	return &PaymentError{Code: code, Message: message, Err: cause}
}

// ErrorCode extracts the payment error code from err, or "" when err is not
// a PaymentError.
func ErrorCode(err error) string {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// ClientFault reports whether err is a rejection the client caused, as
// opposed to a server-side settlement failure.
func ClientFault(err error) bool {
	switch ErrorCode(err) {
	case ErrInvalidPaymentParameter, ErrInsufficientPayment, ErrDuplicatePayment:
		return true
	}
	return false
}
