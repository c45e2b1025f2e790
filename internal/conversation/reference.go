package conversation

import (
	"regexp"
	"strings"
)

// ReferenceType identifies which resolution rule matched.
type ReferenceType string

const (
	ReferenceTime         ReferenceType = "time"
	ReferenceOrdinal      ReferenceType = "ordinal"
	ReferenceFlightNumber ReferenceType = "flight_number"
	ReferenceGeneric      ReferenceType = "generic"
)

// Reference is the outcome of resolving an anaphoric phrase against the
// cached flight results.
type Reference struct {
	HasReference  bool
	Type          ReferenceType
	Flight        *FlightRecord
	FlightNumber  string
	Ordinal       string
	DepartureTime string
}

// AsParameters converts a resolved reference into the parameter mapping
// the intent layer attaches to follow-up results.
func (r Reference) AsParameters() map[string]interface{} {
	if !r.HasReference {
		return map[string]interface{}{"has_reference": false}
	}
	params := map[string]interface{}{
		"has_reference":  true,
		"reference_type": string(r.Type),
		"flight_number":  r.FlightNumber,
	}
	if r.DepartureTime != "" {
		params["departure_time"] = r.DepartureTime
	}
	if r.Ordinal != "" {
		params["ordinal"] = r.Ordinal
	}
	return params
}

var (
	timePattern      = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(?:am|pm)?`)
	flightNumPattern = regexp.MustCompile(`(AI|AIX)\s*(\d+)`)
)

// ordinalWords maps ordinal phrases to result indexes; -1 means the
// last element. Order matters: earlier entries win when several words
// appear in the same message.
var ordinalWords = []struct {
	word  string
	index int
}{
	{"first", 0},
	{"second", 1},
	{"third", 2},
	{"fourth", 3},
	{"fifth", 4},
	{"last", -1},
	{"previous", -1},
}

// genericWords are coarse references that resolve to the first cached
// flight. Deliberately imprecise: with several cached flights the first
// is assumed to be the most relevant.
var genericWords = []string{"that", "it", "this", "the flight"}

// ResolveReference maps an anaphoric phrase in the message to a flight
// from the last result set. The rules form a strict waterfall: time,
// then ordinal, then flight number, then generic; the first rule that
// matches wins. With no cached results nothing is resolvable and the
// zero Reference is returned.
func (c *Context) ResolveReference(message string) Reference {
	if len(c.lastFlightResults) == 0 {
		return Reference{}
	}

	lower := strings.ToLower(message)

	if ref, ok := c.resolveTime(lower); ok {
		return ref
	}
	if ref, ok := c.resolveOrdinal(lower); ok {
		return ref
	}
	if ref, ok := c.resolveFlightNumber(message); ok {
		return ref
	}
	if ref, ok := c.resolveGeneric(lower); ok {
		return ref
	}

	return Reference{}
}

// resolveTime matches a loose clock expression ("9:30", "9 am") and
// returns the first flight departing in that hour.
func (c *Context) resolveTime(lower string) (Reference, bool) {
	m := timePattern.FindStringSubmatch(lower)
	if m == nil {
		return Reference{}, false
	}

	hour := strings.TrimLeft(m[1], "0")
	if hour == "" {
		hour = "0"
	}

	for i := range c.lastFlightResults {
		flight := &c.lastFlightResults[i]
		dep := flight.DepartureTime
		depHour := dep
		if idx := strings.Index(dep, ":"); idx >= 0 {
			depHour = dep[:idx]
		}
		depHour = strings.TrimLeft(depHour, "0")
		if depHour == "" {
			depHour = "0"
		}
		if depHour == hour {
			return Reference{
				HasReference:  true,
				Type:          ReferenceTime,
				Flight:        flight,
				FlightNumber:  flight.FlightNumber,
				DepartureTime: dep,
			}, true
		}
	}

	return Reference{}, false
}

// resolveOrdinal matches ordinal words and indexes into the cached
// results. Out-of-range ordinals are skipped, not errors.
func (c *Context) resolveOrdinal(lower string) (Reference, bool) {
	for _, ord := range ordinalWords {
		if !strings.Contains(lower, ord.word) {
			continue
		}

		var flight *FlightRecord
		switch {
		case ord.index >= 0 && ord.index < len(c.lastFlightResults):
			flight = &c.lastFlightResults[ord.index]
		case ord.index == -1:
			flight = &c.lastFlightResults[len(c.lastFlightResults)-1]
		default:
			continue
		}

		return Reference{
			HasReference: true,
			Type:         ReferenceOrdinal,
			Flight:       flight,
			FlightNumber: flight.FlightNumber,
			Ordinal:      ord.word,
		}, true
	}

	return Reference{}, false
}

// resolveFlightNumber matches an airline prefix plus digits and looks
// for an exact flight-number match in the cached results.
func (c *Context) resolveFlightNumber(message string) (Reference, bool) {
	m := flightNumPattern.FindStringSubmatch(strings.ToUpper(message))
	if m == nil {
		return Reference{}, false
	}

	// Canonical form uses a single space, matching the flight source.
	number := m[1] + " " + m[2]

	for i := range c.lastFlightResults {
		flight := &c.lastFlightResults[i]
		if flight.FlightNumber == number {
			return Reference{
				HasReference: true,
				Type:         ReferenceFlightNumber,
				Flight:       flight,
				FlightNumber: number,
			}, true
		}
	}

	return Reference{}, false
}

// resolveGeneric matches coarse references and resolves to the first
// cached flight.
func (c *Context) resolveGeneric(lower string) (Reference, bool) {
	for _, word := range genericWords {
		if strings.Contains(lower, word) {
			flight := &c.lastFlightResults[0]
			return Reference{
				HasReference: true,
				Type:         ReferenceGeneric,
				Flight:       flight,
				FlightNumber: flight.FlightNumber,
			}, true
		}
	}

	return Reference{}, false
}
