// Package conversation maintains per-session chat state: bounded
// message history, the last flight search, and resolution of anaphoric
// references ("the 9:30 flight", "the first one") against cached
// results.
package conversation

import "time"

// IntentType is the closed set of intents a user message resolves to.
type IntentType string

const (
	IntentFlightSearch   IntentType = "flight_search"
	IntentPolicyQuestion IntentType = "policy_question"
	IntentGeneralChat    IntentType = "general_chat"
	IntentUnknown        IntentType = "unknown"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in the conversation. Messages are immutable
// once appended to a Context's history.
type Message struct {
	Role       Role                   `json:"role"`
	Content    string                 `json:"content"`
	Intent     IntentType             `json:"intent,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// FlightRecord is the read-only view of a flight the context keeps for
// reference resolution. It is produced by the flight-data collaborator;
// the conversation layer never mutates it.
type FlightRecord struct {
	FlightNumber   string            `json:"flight_number"`
	Origin         string            `json:"origin"`
	Destination    string            `json:"destination"`
	DepartureTime  string            `json:"departure_time"` // HH:MM
	ArrivalTime    string            `json:"arrival_time"`   // HH:MM
	Duration       string            `json:"duration"`
	Date           string            `json:"date"`
	Aircraft       string            `json:"aircraft"`
	Status         string            `json:"status"`
	Terminal       string            `json:"terminal,omitempty"`
	Gate           string            `json:"gate,omitempty"`
	Prices         map[string]string `json:"prices"`
	AvailableSeats int               `json:"available_seats"`
	Baggage        BaggageAllowance  `json:"baggage_allowance"`
}

// BaggageAllowance describes the cabin and checked allowance of a flight.
type BaggageAllowance struct {
	Cabin   string `json:"cabin"`
	Checked string `json:"checked"`
}

// Summary is a read-only snapshot of the conversation state.
type Summary struct {
	SessionID          string     `json:"session_id"`
	MessageCount       int        `json:"message_count"`
	LastIntent         IntentType `json:"last_intent,omitempty"`
	HasFlightSearch    bool       `json:"has_flight_search"`
	FlightResultsCount int        `json:"flight_results_count"`
}
