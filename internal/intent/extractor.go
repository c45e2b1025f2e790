package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/airdesk-ai/airdesk/internal/airline"
)

// SearchParameters are the structured fields extracted from a flight
// query. Origin and Destination are either both set to valid airport
// codes or both empty; a half-recognized pair is never returned.
type SearchParameters struct {
	Origin          string `json:"origin,omitempty"`
	Destination     string `json:"destination,omitempty"`
	OriginCity      string `json:"origin_city,omitempty"`
	DestinationCity string `json:"destination_city,omitempty"`
	Date            string `json:"date"`
	Passengers      int    `json:"passengers"`
	TravelClass     string `json:"travel_class"`
	RawMessage      string `json:"raw_message,omitempty"`
}

// HasRoute reports whether a searchable origin/destination pair was
// extracted.
func (p SearchParameters) HasRoute() bool {
	return p.Origin != "" && p.Destination != ""
}

// Map converts the parameters to the generic form stored on the
// conversation history.
func (p SearchParameters) Map() map[string]interface{} {
	m := map[string]interface{}{
		"date":         p.Date,
		"passengers":   p.Passengers,
		"travel_class": p.TravelClass,
	}
	if p.HasRoute() {
		m["origin"] = p.Origin
		m["destination"] = p.Destination
		m["origin_city"] = p.OriginCity
		m["destination_city"] = p.DestinationCity
	}
	return m
}

// SearchParametersFrom rebuilds parameters from the generic map form.
// Numeric fields may arrive as float64 after a JSON round trip.
func SearchParametersFrom(m map[string]interface{}) SearchParameters {
	params := SearchParameters{
		Date:        "tomorrow",
		Passengers:  1,
		TravelClass: "economy",
	}
	if m == nil {
		return params
	}

	str := func(key string) string {
		if v, ok := m[key].(string); ok {
			return v
		}
		return ""
	}
	params.Origin = str("origin")
	params.Destination = str("destination")
	params.OriginCity = str("origin_city")
	params.DestinationCity = str("destination_city")
	if d := str("date"); d != "" {
		params.Date = d
	}
	if c := str("travel_class"); c != "" {
		params.TravelClass = c
	}
	switch v := m["passengers"].(type) {
	case int:
		params.Passengers = v
	case float64:
		params.Passengers = int(v)
	}
	if params.Passengers < 1 {
		params.Passengers = 1
	}
	return params
}

var (
	iataTokenPattern = regexp.MustCompile(`\b[A-Z]{3}\b`)
	passengerPattern = regexp.MustCompile(`(\d+)\s+(?:passenger|person|people|adult)`)
)

// Extractor pulls search parameters out of free text. It is stateless
// and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a parameter extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses a message into search parameters. Route extraction
// tries IATA codes first and falls back to city names; dates and
// passenger counts get conservative defaults when absent.
func (e *Extractor) Extract(message string) SearchParameters {
	params := SearchParameters{
		Date:        "tomorrow",
		Passengers:  1,
		TravelClass: "economy",
		RawMessage:  message,
	}

	origin, destination := extractIATAPair(message)
	if origin == "" || destination == "" {
		origin, destination = extractCityPair(message)
	}
	if origin != "" && destination != "" {
		params.Origin = origin
		params.Destination = destination
		params.OriginCity = airline.CityOf(origin)
		params.DestinationCity = airline.CityOf(destination)
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "today"):
		params.Date = "today"
	case strings.Contains(lower, "tomorrow"):
		params.Date = "tomorrow"
	case strings.Contains(lower, "next week"):
		params.Date = "next_week"
	}

	if m := passengerPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if n < 1 {
				n = 1
			}
			if n > 9 {
				n = 9
			}
			params.Passengers = n
		}
	}

	return params
}

// extractIATAPair finds the first two valid airport codes in the
// message, left to right. Stop-listed tokens like "THE" never count.
func extractIATAPair(message string) (string, string) {
	tokens := iataTokenPattern.FindAllString(strings.ToUpper(message), -1)

	var valid []string
	for _, tok := range tokens {
		if airline.IsValidIATACode(tok) {
			valid = append(valid, tok)
			if len(valid) == 2 {
				return valid[0], valid[1]
			}
		}
	}
	return "", ""
}

// extractCityPair finds the first two known city names by their
// position in the message and maps them to airport codes.
func extractCityPair(message string) (string, string) {
	lower := strings.ToLower(message)

	type hit struct {
		pos  int
		code string
	}
	var hits []hit
	for city, code := range airline.CityNames() {
		if pos := strings.Index(lower, city); pos >= 0 {
			hits = append(hits, hit{pos: pos, code: code})
		}
	}
	if len(hits) < 2 {
		return "", ""
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	// Aliases like "new delhi"/"delhi" overlap at nearby positions and
	// map to the same code; collapse them before pairing.
	ordered := hits[:0]
	for _, h := range hits {
		if len(ordered) == 0 || ordered[len(ordered)-1].code != h.code {
			ordered = append(ordered, h)
		}
	}
	if len(ordered) < 2 {
		return "", ""
	}
	return ordered[0].code, ordered[1].code
}
