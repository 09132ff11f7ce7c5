package models

// GateEvent is one message on the live gate activity feed.
type GateEvent struct {
	Kind    string      `json:"kind"` // "inward" or "outward"
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}
