package conversation

import (
	"context"
	"fmt"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	green = "\033[32m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes assistant replies to the terminal.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	speaker string
}

// NewCLINotifier creates a terminal notifier that prefixes replies with
// speaker. If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, speaker string, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn, speaker: speaker}
}

// Notify prints a normal reply.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %d chars", len(message))
	n.printFn("%s%s%s:%s %s", green, bold, n.speaker, reset, message)
	return nil
}

// NotifyUrgent prints a reply in bold red. Used for failures.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s%s%s: %s%s", red, bold, n.speaker, message, reset)
	return nil
}
