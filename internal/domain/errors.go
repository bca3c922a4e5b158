package domain

import (
	"errors"
	"strings"
)

var (
	ErrCredentialMissing = errors.New("credential missing")
	ErrCredentialInvalid = errors.New("credential invalid")
	ErrOperationFailed   = errors.New("operation failed")
	ErrNoResult          = errors.New("no result")
	ErrTransportFailure  = errors.New("transport failure")
	ErrTimeout           = errors.New("generation timed out")
	ErrEmptyRequest      = errors.New("prompt or reference frame required")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrBusy              = errors.New("generation already in progress")
)

// CredentialInvalidMessage is the user-visible text surfaced when the backend
// rejects the configured key.
const CredentialInvalidMessage = "API_KEY_INVALID"

// entityNotFound is how the backend reports an unusable key.
const entityNotFound = "Requested entity was not found"

// GenerationError carries a failure kind together with the exact text shown
// to the user.
type GenerationError struct {
	Kind    error
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError builds a GenerationError of the given kind.
func NewGenerationError(kind error, message string) *GenerationError {
	return &GenerationError{Kind: kind, Message: message}
}

// ClassifyError maps any pipeline failure onto a GenerationError. Messages
// naming a missing entity are treated as an invalid credential.
func ClassifyError(err error) *GenerationError {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), entityNotFound) {
		return &GenerationError{Kind: ErrCredentialInvalid, Message: CredentialInvalidMessage, Err: err}
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "Something went wrong during generation."
	}
	kind := ErrOperationFailed
	if errors.Is(err, ErrTimeout) {
		kind = ErrTimeout
	}
	return &GenerationError{Kind: kind, Message: msg, Err: err}
}
