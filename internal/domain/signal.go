package domain

// SignalKind classifies structured input detected before the state machine runs.
type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalOrderFinalized // customer finished picking items from the menu
	SignalRestart        // explicit restart of the conversation
	SignalMenuRequest    // customer asked to see the menu
	SignalMenuMissing    // customer says the menu isn't visible
)

// String returns a human-readable signal kind.
func (k SignalKind) String() string {
	switch k {
	case SignalOrderFinalized:
		return "order_finalized"
	case SignalRestart:
		return "restart"
	case SignalMenuRequest:
		return "menu_request"
	case SignalMenuMissing:
		return "menu_missing"
	default:
		return "none"
	}
}

// Signal is the structured reading of one raw user input.
type Signal struct {
	Kind  SignalKind
	Items []LineItem // set for SignalOrderFinalized
	// Utterance is the text the state machine and generator see for this
	// turn. For a finalize signal it is the synthetic echo, not the JSON.
	Utterance string
	// HistoryText is what the session history records as the user line.
	HistoryText string
}
