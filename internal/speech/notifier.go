package speech

import (
	"context"
	"regexp"
	"strings"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

var _ domain.Notifier = (*SpeakingNotifier)(nil)

// SpeakingNotifier prints through an inner notifier and also speaks the
// message through the Voice.
type SpeakingNotifier struct {
	text  domain.Notifier
	voice *Voice
	log   *logger.Logger
}

// NewSpeakingNotifier creates a notifier that both prints and speaks.
func NewSpeakingNotifier(text domain.Notifier, voice *Voice, log *logger.Logger) *SpeakingNotifier {
	return &SpeakingNotifier{text: text, voice: voice, log: log}
}

// Notify prints the message and queues it at normal priority.
func (n *SpeakingNotifier) Notify(ctx context.Context, message string) error {
	if err := n.text.Notify(ctx, message); err != nil {
		return err
	}
	n.voice.Say(CleanForSpeech(message), PriorityNormal)
	return nil
}

// NotifyUrgent prints the message and queues it at high priority.
func (n *SpeakingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.text.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	n.voice.Say(CleanForSpeech(message), PriorityHigh)
	return nil
}

var (
	ansiCodes   = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	markdownEm  = regexp.MustCompile(`\*\*|__|\*|` + "`")
	bulletLine  = regexp.MustCompile(`(?m)^\s*[-•]\s+`)
	dollarPrice = regexp.MustCompile(`\$(\d+)\.(\d{2})\b`)
	blankRuns   = regexp.MustCompile(`\n{2,}`)
)

// CleanForSpeech strips terminal colours and markdown so a reply reads
// naturally aloud. Prices become "12 dollars 50".
func CleanForSpeech(msg string) string {
	s := ansiCodes.ReplaceAllString(msg, "")
	s = markdownEm.ReplaceAllString(s, "")
	s = bulletLine.ReplaceAllString(s, "")
	s = dollarPrice.ReplaceAllStringFunc(s, func(m string) string {
		parts := dollarPrice.FindStringSubmatch(m)
		if parts[2] == "00" {
			return parts[1] + " dollars"
		}
		return parts[1] + " dollars " + parts[2]
	})
	s = blankRuns.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
