package model

// StartSessionRequest begins a practice session. ClientID is the
// browser-generated identity the seen-set is keyed by.
type StartSessionRequest struct {
	ClientID string `json:"client_id" binding:"required,min=1,max=128"`
	Level    string `json:"level" binding:"required,oneof=junior intermediate senior"`
	Count    int    `json:"count" binding:"omitempty,min=1,max=50"`
}

// AdvanceSessionRequest submits the free-text answer to the current
// challenge. An empty answer is legal: skipping still consumes the
// challenge and scores zero against its concepts.
type AdvanceSessionRequest struct {
	UserInput string `json:"user_input"`
}
