package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// Chatter is anything that can complete a chat transcript. *Client
// implements it; tests substitute a fake.
type Chatter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

var _ Chatter = (*Client)(nil)

// Agent wraps a chat-completions client with order-taking context building.
// It is the conversational generator the engine defers to.
type Agent struct {
	client Chatter
	log    *logger.Logger
}

var _ domain.Generator = (*Agent)(nil)

// NewAgent creates an order-taking agent backed by the given client.
func NewAgent(client Chatter, log *logger.Logger) *Agent {
	return &Agent{client: client, log: log}
}

// Generate builds the transcript for req and returns the model's reply.
func (a *Agent) Generate(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	msgs := BuildMessages(req)
	a.log.Debug("gpt: generate stage=%s history=%d", stageOf(req), len(req.History))
	reply, err := a.client.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// ── Context building ─────────────────────────────────────────────

// BuildMessages assembles the system prompt, the prior exchanges as
// user/assistant pairs, and the current utterance.
func BuildMessages(req *domain.GenerationRequest) []Message {
	msgs := make([]Message, 0, 2*len(req.History)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: SystemPrompt(req)})
	for _, ex := range req.History {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: ex.User},
			Message{Role: RoleAssistant, Content: ex.Bot},
		)
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: req.Utterance})
	return msgs
}

// SystemPrompt renders the per-turn system prompt: persona, process, menu,
// the stage summary if any, and the order state as indented JSON.
func SystemPrompt(req *domain.GenerationRequest) string {
	var b strings.Builder

	b.WriteString(promptPersona)
	b.WriteString("\n\n")
	b.WriteString(promptProcess)
	b.WriteString("\n\nOur menu:\n")
	b.WriteString(req.MenuText)
	b.WriteString("\n\n")

	if req.Summary != "" {
		title := req.SummaryTitle
		if title == "" {
			title = "Current Order Status"
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", title, req.Summary)
	}

	if req.State != nil {
		if req.State.Special != nil {
			b.WriteString(promptSpecialNoted)
		} else {
			b.WriteString(promptSpecialNone)
		}
		b.WriteString("\n\n")

		if hint, ok := stageHints[req.State.Stage]; ok {
			b.WriteString(hint)
			b.WriteString("\n\n")
		}

		state, err := json.MarshalIndent(req.State, "", "  ")
		if err == nil {
			fmt.Fprintf(&b, "Current Order State for Internal Reference:\n%s\n\n", state)
		}
	}

	b.WriteString(promptClosing)
	return b.String()
}

func stageOf(req *domain.GenerationRequest) string {
	if req.State == nil {
		return "-"
	}
	return req.State.Stage.String()
}
