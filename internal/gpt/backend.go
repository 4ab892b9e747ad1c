package gpt

import (
	"errors"
	"fmt"
	"os"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// Env var names for the generator backends.
const (
	EnvChatKey      = "GPT_CHAT_KEY"
	EnvChatEndpoint = "GPT_CHAT_ENDPOINT"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvOpenAIModel  = "OPENAI_MODEL"
)

// Backend names accepted by the -llm flag.
const (
	BackendAzure  = "azure"
	BackendOpenAI = "openai"
	BackendNone   = "none"
)

// ErrNotConfigured is returned when the chosen backend has no credentials.
var ErrNotConfigured = errors.New("generator backend not configured")

// FromEnv builds the generator for backend from environment variables.
// The azure backend posts to GPT_CHAT_ENDPOINT with GPT_CHAT_KEY; the
// openai backend drives langchaingo with OPENAI_API_KEY.
func FromEnv(backend string, log *logger.Logger) (domain.Generator, error) {
	switch backend {
	case BackendAzure, "":
		key, endpoint := os.Getenv(EnvChatKey), os.Getenv(EnvChatEndpoint)
		if key == "" || endpoint == "" {
			return nil, fmt.Errorf("%w: set %s and %s", ErrNotConfigured, EnvChatKey, EnvChatEndpoint)
		}
		return NewAgent(NewClient(endpoint, key, log), log), nil

	case BackendOpenAI:
		key := os.Getenv(EnvOpenAIKey)
		if key == "" {
			return nil, fmt.Errorf("%w: set %s", ErrNotConfigured, EnvOpenAIKey)
		}
		model := os.Getenv(EnvOpenAIModel)
		if model == "" {
			model = "gpt-4o-mini"
		}
		gen, err := NewOpenAIGenerator(model, key, log)
		if err != nil {
			return nil, err
		}
		return gen, nil

	case BackendNone:
		return nil, ErrNotConfigured
	}
	return nil, fmt.Errorf("unknown generator backend %q", backend)
}
