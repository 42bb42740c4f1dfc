package apperrors

import (
	stderrors "errors"
	"net/http"
)

// ErrAlreadyProcessed marks an idempotent replay of a settled payment.
// It is not a failure: callers treat it as success with no side effects.
var ErrAlreadyProcessed = stderrors.New("payment already processed")

// NewGatewayError wraps a transport or HTTP failure talking to the payment
// provider. Recoverable: surfaced to the caller as "try again".
func NewGatewayError(err error, message string) *AppError {
	return Wrap(err, CodeGatewayError, "payment", message, http.StatusBadGateway)
}

// NewInvalidSignatureError marks a webhook whose signature did not match.
// Trust failure, not a payment failure: the delivery is rejected with a
// client error so the provider stops retrying it.
func NewInvalidSignatureError() *AppError {
	return New(CodeInvalidSignature, "payment", "Invalid webhook signature", http.StatusBadRequest)
}

// NewUnknownReferenceError marks a gateway-supplied reference with no matching
// transaction. Data inconsistency: recorded for investigation, never guessed.
func NewUnknownReferenceError(reference string) *AppError {
	return New(CodeUnknownReference, "payment", "Unknown payment reference", http.StatusInternalServerError).
		WithDetails(map[string]string{"reference": reference})
}
