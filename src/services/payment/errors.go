package payment

import "errors"

// Error kinds. Every *Error unwraps to exactly one of them.
var (
	ErrValidation = errors.New("validation error")
	ErrIntegrity  = errors.New("payment integrity error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error is a user-facing failure whose Message is safe to return to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrMissingUser     = &Error{Kind: ErrValidation, Message: "Missing required user field"}
	ErrMissingAddress  = &Error{Kind: ErrValidation, Message: "Missing required address field"}
	ErrMissingProducts = &Error{Kind: ErrValidation, Message: "Missing required product fields"}
	ErrInvalidAmount   = &Error{Kind: ErrValidation, Message: "Missing or invalid total amount"}

	ErrInvalidData      = &Error{Kind: ErrIntegrity, Message: "Invalid data"}
	ErrInvalidSignature = &Error{Kind: ErrIntegrity, Message: "Invalid signature"}

	ErrOrderNotFound = &Error{Kind: ErrNotFound, Message: "Order not found"}

	ErrReplayInProgress = &Error{Kind: ErrConflict, Message: "Replay already in progress"}
)
