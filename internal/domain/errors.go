package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidCatalog       = errors.New("invalid catalog")
	ErrEmptyTranscript      = errors.New("empty transcript")
	ErrGeneratorUnavailable = errors.New("conversational generator unavailable")
	ErrNotImplemented       = errors.New("not implemented")
)
