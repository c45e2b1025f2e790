package engine

import (
	"fmt"
	"strings"

	"github.com/airdesk-ai/airdesk/internal/conversation"
	"github.com/airdesk-ai/airdesk/internal/intent"
	"github.com/airdesk-ai/airdesk/internal/retrieval"
)

const (
	emptyQueryText = "Please enter your question about Air India."

	missingRouteText = "I need both an origin and a destination to search flights. " +
		"Please specify both cities, for example 'DEL to BOM' or 'flights from Delhi to Mumbai'."

	policyUnavailableText = "I couldn't access detailed policies right now. " +
		"Common Economy international allowance: 1 checked bag up to 23 kg + 1 carry-on up to 8 kg. " +
		"Rules may vary by route."

	policyNotFoundText = "I couldn't find exact details for your query. " +
		"Typical international Economy allowance: 1 checked bag up to 23 kg and 1 carry-on up to 8 kg."

	flightsUnavailableText = "Could not search flights at this time. Please try again in a few minutes."

	greetingText = "Namaste! I am Maharaja, your virtual assistant for Air India.\n\n" +
		"I can help you with:\n" +
		"• Flight search and schedules\n" +
		"• Baggage policies and allowances\n" +
		"• Check-in information\n" +
		"• General questions about Air India services\n\n" +
		"How may I assist you today?"

	farewellText = "Thank you for using the Air India assistant. " +
		"We look forward to welcoming you on board. Safe travels!"

	helpText = "Here are some things you can ask me:\n\n" +
		"Flights:\n" +
		"• 'Flights from Delhi to Mumbai tomorrow'\n" +
		"• 'Search flights DEL to BOM'\n\n" +
		"Baggage:\n" +
		"• 'Baggage policy for USA flights'\n" +
		"• 'Cabin baggage limit'\n\n" +
		"Just tell me what you need!"

	defaultChatText = "How can I help you with Air India today? " +
		"You can ask about flights, baggage policies or check-in."
)

const policyPromptTemplate = `You are Maharaja, the precise and helpful Air India assistant.

RELEVANT POLICY INFORMATION:
%s

USER QUESTION: %s

Answer directly using the information above:
- Give exact numbers (pieces, kg)
- Mention class differences if available
- Be concise and professional
- %s

ANSWER:`

// buildPolicyPrompt grounds the model on retrieved policy text.
// Queries written in Hindi get answered in Hindi.
func buildPolicyPrompt(query string, docs []retrieval.Document) string {
	instruction := "Respond in English"
	if isHindi(query) {
		instruction = "Respond in Hindi (हिन्दी में उत्तर दें)"
	}
	context := "IMPORTANT AIR INDIA BAGGAGE RULES:\n\n" + retrieval.BuildContext(docs)
	return fmt.Sprintf(policyPromptTemplate, context, query, instruction)
}

var hindiRomanWords = []string{"kya", "hai", "kaise", "ho", "mein", "aap", "nahi"}

// isHindi detects Devanagari script or common romanized Hindi words.
func isHindi(text string) bool {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	lower := " " + strings.ToLower(text) + " "
	for _, w := range hindiRomanWords {
		if strings.Contains(lower, " "+w+" ") {
			return true
		}
	}
	return false
}

// cannedChatResponse returns a fixed reply for the common small-talk
// cases, or "" when the model should answer instead.
func cannedChatResponse(query string) string {
	lower := strings.ToLower(query)
	words := strings.Fields(strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return ' '
	}, lower))
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}
	hasWord := func(candidates ...string) bool {
		for _, c := range candidates {
			if _, ok := wordSet[c]; ok {
				return true
			}
		}
		return false
	}

	switch {
	case hasWord("hi", "hello", "hey", "namaste", "hola") || strings.Contains(lower, "नमस्ते"):
		return greetingText
	case hasWord("bye", "thanks", "gracias") || strings.Contains(lower, "thank you") ||
		strings.Contains(lower, "धन्यवाद") || strings.Contains(lower, "अलविदा"):
		return farewellText
	case hasWord("help") || strings.Contains(lower, "what can you do"):
		return helpText
	}
	return ""
}

// formatFlightResults renders a search result list with route header
// and booking footer.
func formatFlightResults(params intent.SearchParameters, flights []conversation.FlightRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✈️ AIR INDIA - FLIGHT SEARCH RESULTS\n\n")
	fmt.Fprintf(&b, "Route: %s → %s\n", params.OriginCity, params.DestinationCity)
	fmt.Fprintf(&b, "Date: %s\n\n", params.Date)

	for i, f := range flights {
		fmt.Fprintf(&b, "%d. %s - %s → %s (%s)\n", i+1, f.FlightNumber, f.DepartureTime, f.ArrivalTime, f.Duration)
		fmt.Fprintf(&b, "   • Price: %s (Economy)\n", economyPrice(f))
		fmt.Fprintf(&b, "   • Status: %s\n", f.Status)
		fmt.Fprintf(&b, "   • Aircraft: %s\n", f.Aircraft)
		fmt.Fprintf(&b, "   • Available seats: %d\n\n", f.AvailableSeats)
	}

	fmt.Fprintf(&b, "%d flights found. Prices in Indian Rupees (INR).\n", len(flights))
	b.WriteString("For bookings: 1-800-180-1407 or https://www.airindia.com")
	return b.String()
}

// formatFlightDetails renders one flight for follow-up questions.
func formatFlightDetails(f *conversation.FlightRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✈️ Flight %s Details:\n\n", f.FlightNumber)
	fmt.Fprintf(&b, "Departure: %s\n", f.DepartureTime)
	fmt.Fprintf(&b, "Arrival: %s (%s)\n", f.ArrivalTime, f.Duration)
	fmt.Fprintf(&b, "Aircraft: %s\n", f.Aircraft)
	fmt.Fprintf(&b, "Status: %s\n", f.Status)
	fmt.Fprintf(&b, "Price: %s (Economy)\n", economyPrice(*f))
	if f.Terminal != "" {
		fmt.Fprintf(&b, "Terminal: %s\n", f.Terminal)
	}
	if f.Gate != "" {
		fmt.Fprintf(&b, "Gate: %s\n", f.Gate)
	}
	fmt.Fprintf(&b, "Baggage: %s cabin, %s checked", f.Baggage.Cabin, f.Baggage.Checked)
	return b.String()
}

func economyPrice(f conversation.FlightRecord) string {
	if p, ok := f.Prices["Economy"]; ok {
		return p
	}
	return "₹ N/A"
}
