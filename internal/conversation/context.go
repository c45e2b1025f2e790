package conversation

import "time"

// DefaultMaxHistory bounds the message history when no explicit limit
// is configured.
const DefaultMaxHistory = 10

// flightSearch is the staged record of the most recent flight search:
// the parameters it was issued with and, once available, its results.
type flightSearch struct {
	params  map[string]interface{}
	results []FlightRecord
}

// Context holds the mutable state of one conversation session. A
// Context is not safe for concurrent use; the calling layer processes
// one turn at a time per session.
type Context struct {
	sessionID  string
	maxHistory int

	history       []Message
	currentSearch *flightSearch
	lastIntent    IntentType
	lastParams    map[string]interface{}

	// lastFlightResults is replaced wholesale on each new search,
	// never merged.
	lastFlightResults []FlightRecord
}

// NewContext creates a conversation context for a session.
func NewContext(sessionID string, maxHistory int) *Context {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Context{
		sessionID:  sessionID,
		maxHistory: maxHistory,
	}
}

// SessionID returns the session identifier.
func (c *Context) SessionID() string {
	return c.sessionID
}

// AddMessage appends a message to the history, evicting the oldest
// message when the history exceeds its bound. A flight-search message
// with parameters stages a current-search record whose result list is
// populated later by UpdateFlightResults.
func (c *Context) AddMessage(role Role, content string, intent IntentType, params map[string]interface{}) {
	c.history = append(c.history, Message{
		Role:       role,
		Content:    content,
		Intent:     intent,
		Parameters: params,
		Timestamp:  time.Now(),
	})

	if len(c.history) > c.maxHistory {
		c.history = c.history[len(c.history)-c.maxHistory:]
	}

	if intent != "" {
		c.lastIntent = intent
		c.lastParams = params

		if intent == IntentFlightSearch && params != nil {
			staged := make(map[string]interface{}, len(params))
			for k, v := range params {
				staged[k] = v
			}
			c.currentSearch = &flightSearch{params: staged}
		}
	}
}

// UpdateFlightResults replaces the cached flight results and fills in
// the staged current-search record if one exists.
func (c *Context) UpdateFlightResults(flights []FlightRecord) {
	c.lastFlightResults = flights
	if c.currentSearch != nil {
		c.currentSearch.results = flights
	}
}

// History returns the bounded message history, oldest first.
func (c *Context) History() []Message {
	return c.history
}

// LastIntent returns the intent of the most recent classified message.
func (c *Context) LastIntent() IntentType {
	return c.lastIntent
}

// LastParameters returns the parameters of the most recent classified
// message.
func (c *Context) LastParameters() map[string]interface{} {
	return c.lastParams
}

// LastFlightResults returns the cached result set of the most recent
// flight search.
func (c *Context) LastFlightResults() []FlightRecord {
	return c.lastFlightResults
}

// Clear resets the context to its initial state.
func (c *Context) Clear() {
	c.history = nil
	c.currentSearch = nil
	c.lastIntent = ""
	c.lastParams = nil
	c.lastFlightResults = nil
}

// Summary returns a read-only snapshot of the conversation state.
// Calling it repeatedly without intervening mutation yields identical
// output.
func (c *Context) Summary() Summary {
	return Summary{
		SessionID:          c.sessionID,
		MessageCount:       len(c.history),
		LastIntent:         c.lastIntent,
		HasFlightSearch:    c.currentSearch != nil,
		FlightResultsCount: len(c.lastFlightResults),
	}
}
