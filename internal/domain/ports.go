package domain

import "context"

// Generator produces free-text conversational replies. Implementations call a
// hosted language model; the reply is never authoritative for price or state.
type Generator interface {
	Generate(ctx context.Context, req *GenerationRequest) (string, error)
}

// Transcriber converts an audio payload to text. It returns best-effort text,
// or an empty string with an error on failure. Callers do not retry.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// SignalParser reads structured signals out of raw user input.
type SignalParser interface {
	Parse(input string) Signal
}

// SessionStore persists sessions for the lifetime of the process.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) int
}

// Notifier delivers assistant replies to the user. Implementations can
// write to a terminal, speak through TTS, or both.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
