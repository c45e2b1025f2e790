// Package airline holds static airline reference data: the airport
// registry, the city to IATA mapping, and related lookups.
package airline

import "strings"

// Airport describes a known airport.
type Airport struct {
	Code    string
	Name    string
	City    string
	Country string
}

// airports is the allow-list of IATA codes the extractor accepts.
var airports = map[string]Airport{
	"DEL": {Code: "DEL", Name: "Indira Gandhi International Airport", City: "Delhi", Country: "India"},
	"BOM": {Code: "BOM", Name: "Chhatrapati Shivaji Maharaj International Airport", City: "Mumbai", Country: "India"},
	"BLR": {Code: "BLR", Name: "Kempegowda International Airport", City: "Bengaluru", Country: "India"},
	"MAA": {Code: "MAA", Name: "Chennai International Airport", City: "Chennai", Country: "India"},
	"HYD": {Code: "HYD", Name: "Rajiv Gandhi International Airport", City: "Hyderabad", Country: "India"},
	"CCU": {Code: "CCU", Name: "Netaji Subhash Chandra Bose International Airport", City: "Kolkata", Country: "India"},
	"GOI": {Code: "GOI", Name: "Goa International Airport", City: "Goa", Country: "India"},
	"AMD": {Code: "AMD", Name: "Sardar Vallabhbhai Patel International Airport", City: "Ahmedabad", Country: "India"},
	"PNQ": {Code: "PNQ", Name: "Pune Airport", City: "Pune", Country: "India"},
	"JAI": {Code: "JAI", Name: "Jaipur International Airport", City: "Jaipur", Country: "India"},
	"LKO": {Code: "LKO", Name: "Chaudhary Charan Singh International Airport", City: "Lucknow", Country: "India"},
	"COK": {Code: "COK", Name: "Cochin International Airport", City: "Kochi", Country: "India"},
	"GAU": {Code: "GAU", Name: "Lokpriya Gopinath Bordoloi International Airport", City: "Guwahati", Country: "India"},
	"JFK": {Code: "JFK", Name: "John F. Kennedy International Airport", City: "New York", Country: "USA"},
	"LHR": {Code: "LHR", Name: "Heathrow Airport", City: "London", Country: "UK"},
	"DXB": {Code: "DXB", Name: "Dubai International Airport", City: "Dubai", Country: "UAE"},
	"SIN": {Code: "SIN", Name: "Changi Airport", City: "Singapore", Country: "Singapore"},
	"NRT": {Code: "NRT", Name: "Narita International Airport", City: "Tokyo", Country: "Japan"},
	"SYD": {Code: "SYD", Name: "Sydney Kingsford Smith Airport", City: "Sydney", Country: "Australia"},
	"YYZ": {Code: "YYZ", Name: "Toronto Pearson International Airport", City: "Toronto", Country: "Canada"},
	"CDG": {Code: "CDG", Name: "Charles de Gaulle Airport", City: "Paris", Country: "France"},
	"FRA": {Code: "FRA", Name: "Frankfurt Airport", City: "Frankfurt", Country: "Germany"},
	"HKG": {Code: "HKG", Name: "Hong Kong International Airport", City: "Hong Kong", Country: "Hong Kong"},
	"BKK": {Code: "BKK", Name: "Suvarnabhumi Airport", City: "Bangkok", Country: "Thailand"},
}

// stopWords are common 3-letter English tokens that would otherwise be
// mistaken for IATA codes in uppercase scans.
var stopWords = map[string]struct{}{
	"THE": {}, "AND": {}, "FOR": {}, "YOU": {}, "CAN": {}, "GET": {},
	"AIR": {}, "IND": {}, "ALL": {}, "ANY": {}, "ONE": {}, "TWO": {},
	"SIX": {}, "TEN": {}, "FLY": {}, "NOW": {}, "DAY": {}, "YES": {},
	"HOW": {}, "WHO": {}, "WHY": {}, "NOT": {}, "BUT": {}, "NEW": {},
}

// cityToIATA maps lowercase city names (including historical variants)
// to their IATA code. Multi-word names must be matched before their
// single-word suffixes; callers scan by text position so ordering in
// this table does not matter.
var cityToIATA = map[string]string{
	"delhi":     "DEL",
	"new delhi": "DEL",
	"mumbai":    "BOM",
	"bombay":    "BOM",
	"bangalore": "BLR",
	"bengaluru": "BLR",
	"chennai":   "MAA",
	"madras":    "MAA",
	"hyderabad": "HYD",
	"kolkata":   "CCU",
	"calcutta":  "CCU",
	"goa":       "GOI",
	"ahmedabad": "AMD",
	"pune":      "PNQ",
	"jaipur":    "JAI",
	"lucknow":   "LKO",
	"kochi":     "COK",
	"cochin":    "COK",
	"guwahati":  "GAU",
	"new york":  "JFK",
	"london":    "LHR",
	"dubai":     "DXB",
	"singapore": "SIN",
	"tokyo":     "NRT",
	"sydney":    "SYD",
	"toronto":   "YYZ",
	"paris":     "CDG",
	"frankfurt": "FRA",
	"hong kong": "HKG",
	"bangkok":   "BKK",
}

// Lookup returns the airport for a code, if known.
func Lookup(code string) (Airport, bool) {
	a, ok := airports[strings.ToUpper(code)]
	return a, ok
}

// IsValidIATACode reports whether a token is a known airport code.
// Three uppercase letters are required; common English words that
// happen to be three letters are rejected even before the registry
// check so the stop-list also guards codes we have not catalogued.
func IsValidIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	if _, stopped := stopWords[code]; stopped {
		return false
	}
	_, ok := airports[code]
	return ok
}

// CityCode returns the IATA code for a known city name (lowercase).
func CityCode(city string) (string, bool) {
	code, ok := cityToIATA[strings.ToLower(strings.TrimSpace(city))]
	return code, ok
}

// CityNames returns every city name the extractor recognizes, with its
// IATA code. The returned map must be treated as read-only.
func CityNames() map[string]string {
	return cityToIATA
}

// CityOf returns the display city for an airport code, falling back to
// the code itself when unknown.
func CityOf(code string) string {
	if a, ok := Lookup(code); ok {
		return a.City
	}
	return code
}
