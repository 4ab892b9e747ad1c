package speech

import (
	"context"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

var _ domain.Transcriber = (*NoOp)(nil)

// NoOp is the transcriber used when voice input is disabled.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op transcriber.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Transcribe always fails with ErrNotImplemented.
func (n *NoOp) Transcribe(_ context.Context, audio []byte) (string, error) {
	n.log.Debug("speech no-op: dropping %d bytes of audio", len(audio))
	return "", domain.ErrNotImplemented
}
