package websocket

import "time"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	// EventContributed fires when a community submission lands in the
	// review queue.
	EventContributed Event = "contributed"
	// EventApproved fires when an admin publishes a pending challenge.
	EventApproved Event = "approved"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// ReviewEvent is broadcast on the review feed whenever the pending queue
// changes, so open Review Desk clients refresh without polling.
type ReviewEvent struct {
	Event       Event     `json:"event"`
	ChallengeID string    `json:"challenge_id"`
	Title       string    `json:"title"`
	Level       string    `json:"level"`
	Category    string    `json:"category"`
	At          time.Time `json:"at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
