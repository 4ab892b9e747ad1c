// Package conversation reads structured signals out of raw user input and
// delivers replies to the terminal.
package conversation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// Compile-time interface check.
var _ domain.SignalParser = (*SignalParser)(nil)

// FinalizeType is the "type" of the JSON payload the menu sends when the
// customer hits "Done with Order".
const FinalizeType = "order_finalized_from_menu"

// RestartCommand is the literal input that restarts a conversation.
const RestartCommand = "bot_restart_command"

const (
	finalizeEchoFmt = "The customer has finished selecting items from the menu. Please proceed to clarify order details for: %s"
	finalizeHistory = "I'm done choosing from the menu."
)

// SignalParser matches user input against a small table of patterns.
// Anything it doesn't recognise is SignalNone and goes to the state machine
// as ordinary text.
type SignalParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex *regexp.Regexp
	kind  domain.SignalKind
}

// NewSignalParser creates a pattern-based signal parser.
func NewSignalParser(log *logger.Logger) *SignalParser {
	p := &SignalParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^` + RestartCommand + `$`), domain.SignalRestart},
		{regexp.MustCompile(`(?i)^(menu|show menu|list menu|what do you have|what's on the menu)[?.!]*$`), domain.SignalMenuRequest},
		{regexp.MustCompile(`(?i)^(where is it|it's not|it is not)[?.!]*$`), domain.SignalMenuMissing},
		{regexp.MustCompile(`(?i)\b(not showing|isn't showing|not visible|isn't visible)\b`), domain.SignalMenuMissing},
	}
	return p
}

// finalizePayload is the menu's "Done with Order" message.
type finalizePayload struct {
	Type  string            `json:"type"`
	Items []domain.LineItem `json:"items"`
}

// Parse converts raw input into a signal.
func (p *SignalParser) Parse(input string) domain.Signal {
	trimmed := strings.TrimSpace(strings.ReplaceAll(input, "’", "'"))
	if trimmed == "" {
		return domain.Signal{Kind: domain.SignalNone}
	}

	if strings.HasPrefix(trimmed, "{") {
		if sig, ok := p.parseFinalize(trimmed); ok {
			return sig
		}
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched signal: %s", rule.kind)
			return domain.Signal{Kind: rule.kind, Utterance: trimmed}
		}
	}

	return domain.Signal{Kind: domain.SignalNone, Utterance: trimmed}
}

func (p *SignalParser) parseFinalize(raw string) (domain.Signal, bool) {
	var payload finalizePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		p.log.Debug("input looks like JSON but isn't: %v", err)
		return domain.Signal{}, false
	}
	if payload.Type != FinalizeType {
		return domain.Signal{}, false
	}

	names := make([]string, 0, len(payload.Items))
	for i := range payload.Items {
		if payload.Items[i].Quantity < 1 {
			payload.Items[i].Quantity = 1
		}
		names = append(names, payload.Items[i].Name)
	}
	p.log.Debug("order finalized with %d items", len(payload.Items))

	return domain.Signal{
		Kind:        domain.SignalOrderFinalized,
		Items:       payload.Items,
		Utterance:   FinalizeEcho(names),
		HistoryText: finalizeHistory,
	}, true
}

// FinalizeEcho is the message the generator sees for a finalize turn.
func FinalizeEcho(names []string) string {
	return fmt.Sprintf(finalizeEchoFmt, strings.Join(names, ", "))
}

// FinalizeMessage builds the JSON payload a client sends to finalize items.
func FinalizeMessage(items []domain.LineItem) (string, error) {
	b, err := json.Marshal(finalizePayload{Type: FinalizeType, Items: items})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
