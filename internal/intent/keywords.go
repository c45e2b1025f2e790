package intent

import (
	"regexp"
	"strings"
	"unicode"
)

// Keyword tables cover English, Spanish and Hindi so the detector
// works for the airline's main customer languages.

var flightKeywords = []string{
	"flight", "flights", "fly", "flying", "airplane", "plane",
	"booking", "book", "reservation", "ticket", "fare",
	"departure", "arrival", "destination", "origin", "route",
	"schedule", "time", "availability", "price", "cost",
	"vuelo", "vuelos", "volar", "reservar", "reserva", "billete", "pasaje",
	"उड़ान", "टिकट", "बुकिंग", "आरक्षण",
}

var policyKeywords = []string{
	"baggage", "luggage", "allowance", "weight", "size", "dimension",
	"carry-on", "hand luggage", "checked baggage", "excess", "overweight",
	"checkin", "check-in", "boarding pass", "cancel", "cancellation", "refund",
	"policy", "policies", "rule", "rules", "regulation", "information",
	"equipaje", "maleta", "facturación", "cancelación", "reembolso",
	"política", "peso", "tamaño", "regla", "información",
	"सामान", "भार", "नियम", "जानकारी",
}

var greetingKeywords = []string{
	"hello", "hi", "hey", "hola", "buenos", "buenas", "namaste", "नमस्ते",
	"thanks", "thank you", "gracias", "धन्यवाद",
	"goodbye", "bye", "adiós", "अलविदा",
}

var flightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)flights?\s+(?:from|between)\s+\w+\s+(?:to|and)\s+\w+`),
	regexp.MustCompile(`(?i)\b(?:find|search|show|look for)\s+flights?\s+\w+`),
	regexp.MustCompile(`(?i)\w+\s+to\s+\w+\s+flights?`),
	regexp.MustCompile(`(?i)flights?\s+\w+\s+\w+`),
}

var policyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)baggage\s+(?:allowance|policy|rules?)\s+(?:for|to|in)\s+\w+`),
	regexp.MustCompile(`(?i)what(?:\s+is|\s+are)?\s+the\s+\w+\s+(?:allowance|policy|rules?)\s+for\s+\w+`),
	regexp.MustCompile(`(?i)how\s+much\s+\w+\s+(?:allowance|can|do)\s+i\s+\w+\s+for\s+\w+`),
}

// countKeywords counts how many distinct keywords from the table occur
// in the lowercased message. Single tokens are matched against a word
// split of the message; multi-word keywords fall back to a substring
// check.
func countKeywords(lower string, keywords []string) int {
	tokens := tokenSet(lower)
	found := 0
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(lower, kw) {
				found++
			}
			continue
		}
		if _, ok := tokens[kw]; ok {
			found++
		}
	}
	return found
}

// tokenSet splits a message into words, keeping hyphens so compound
// keywords like "carry-on" survive. Combining marks count as word
// runes; Devanagari vowel signs and viramas are marks, not letters,
// and splitting on them would shred words like "टिकट".
func tokenSet(lower string) map[string]struct{} {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsNumber(r) && r != '-'
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.Trim(f, "-")] = struct{}{}
	}
	return set
}

func matchesAny(patterns []*regexp.Regexp, message string) bool {
	for _, p := range patterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}
