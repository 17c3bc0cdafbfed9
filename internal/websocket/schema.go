package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────
//
// Auth state changes are sent as model.AuthEvent, whose "event" field is
// SIGNED_IN or SIGNED_OUT. The events below are stream housekeeping.

type Event string

const (
	EventError Event = "error"
	EventPong  Event = "pong"
)

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
