package gpt

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// LangChainGenerator drives any langchaingo model with the same transcript
// the Agent builds.
type LangChainGenerator struct {
	model       llms.Model
	temperature float64
	maxTokens   int
	log         *logger.Logger
}

var _ domain.Generator = (*LangChainGenerator)(nil)

// NewLangChainGenerator wraps an existing langchaingo model.
func NewLangChainGenerator(model llms.Model, log *logger.Logger) *LangChainGenerator {
	return &LangChainGenerator{model: model, temperature: 0.7, maxTokens: 600, log: log}
}

// NewOpenAIGenerator builds a langchaingo OpenAI model for the given model
// name and key.
func NewOpenAIGenerator(model, apiKey string, log *logger.Logger) (*LangChainGenerator, error) {
	llm, err := openai.New(openai.WithModel(model), openai.WithToken(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gpt: init openai model: %w", err)
	}
	return NewLangChainGenerator(llm, log), nil
}

// Generate converts the transcript to langchaingo message content and
// returns the first choice.
func (g *LangChainGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	msgs := BuildMessages(req)
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		content = append(content, llms.TextParts(chatType(m.Role), m.Content))
	}

	resp, err := g.model.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("gpt: langchain generate: %w: %v", domain.ErrGeneratorUnavailable, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		g.log.Warn("gpt: langchain response had no choices")
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func chatType(role string) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
