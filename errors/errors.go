package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries a message together with the HTTP status the server layer
// should respond with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d", e.Message, e.Status)
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

// Domain sentinels. Callers match them with errors.Is.
var (
	ErrNotFound            = New("report not found", http.StatusNotFound)
	ErrUnknownReward       = New("unknown reward", http.StatusNotFound)
	ErrInsufficientFunds   = New("insufficient points balance", http.StatusPaymentRequired)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrStorageFailure      = New("storage failure", http.StatusInternalServerError)
	ErrNetworkFailure      = New("server unreachable", http.StatusServiceUnavailable)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
)

// Is lets a *Error act as a target for wrapped chains built with
// pkg/errors and fmt %w.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Message == t.Message && e.Status == t.Status
}
