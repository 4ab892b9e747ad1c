package domain

// TurnResult is the outcome of one processed user turn.
type TurnResult struct {
	Reply    string      `json:"reply"`
	Order    Order       `json:"structured_order"`
	State    *OrderState `json:"state"`
	ShowMenu bool        `json:"-"`
	// Generated is true when the reply came from the conversational generator.
	Generated bool `json:"-"`
	// Failed is true when the turn was rolled back after an upstream failure.
	Failed bool `json:"-"`
	// Completed is true when this turn finished the order; State is already fresh.
	Completed bool `json:"-"`
	// Restarted is true when the turn was an explicit restart.
	Restarted bool `json:"-"`
	// UserLine is what the history records as the user's side of this turn.
	UserLine string `json:"-"`
}

// GenerationRequest is the context bundle handed to the conversational generator.
type GenerationRequest struct {
	History   []Exchange
	Utterance string
	MenuText  string
	// Summary is the order summary appropriate to the current stage; may be empty.
	Summary      string
	SummaryTitle string
	State        *OrderState
}
