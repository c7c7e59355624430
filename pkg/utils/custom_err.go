package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSessionNotFound   = errors.New("session not found")
	ErrIllegalTransition = errors.New("illegal wizard transition")
	ErrItineraryNotReady = errors.New("itinerary not generated yet")

	ErrBackendUnreachable = errors.New("generation backend unreachable")
	ErrBackendStatus      = errors.New("generation backend returned non-2xx status")
	ErrBackendBadResponse = errors.New("generation backend returned an unexpected response")
	ErrBackendAuth        = errors.New("generation backend rejected credentials")
	ErrPingUnsupported    = errors.New("generation backend has no liveness check")

	ErrExtractionParse = errors.New("could not parse trip details from backend response")
	ErrLiveFetch       = errors.New("live travel data lookup failed")
)

// GenerationError is the only error type that crosses the backend boundary.
// Kind is one of the ErrBackend* sentinels so callers can use errors.Is.
type GenerationError struct {
	Kind       error
	Message    string
	StatusCode int
	Cause      error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Code is a stable identifier for API consumers.
func (e *GenerationError) Code() string {
	return ErrorCode(e.Kind)
}

func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBackendUnreachable):
		return "BACKEND_UNREACHABLE"
	case errors.Is(err, ErrBackendAuth):
		return "BACKEND_AUTH"
	case errors.Is(err, ErrBackendStatus):
		return "BACKEND_STATUS"
	case errors.Is(err, ErrBackendBadResponse):
		return "BACKEND_BAD_RESPONSE"
	case errors.Is(err, ErrExtractionParse):
		return "EXTRACTION_PARSE_FAILURE"
	case errors.Is(err, ErrLiveFetch):
		return "LIVE_FETCH_FAILURE"
	default:
		return "INTERNAL"
	}
}

func NewGenerationError(kind error, message string, cause error) *GenerationError {
	return &GenerationError{Kind: kind, Message: message, Cause: cause}
}
