package domain

import "time"

// Exchange is one user/bot pair in a session's history.
type Exchange struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// Session binds an order state and its conversation history to an id.
// Each session owns its state; nothing mutable is shared between sessions.
type Session struct {
	ID        string
	State     *OrderState
	History   []Exchange
	CreatedAt time.Time
	UpdatedAt time.Time
}
