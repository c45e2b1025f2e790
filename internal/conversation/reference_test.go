package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlights() []FlightRecord {
	return []FlightRecord{
		{FlightNumber: "AI 101", DepartureTime: "09:30", Destination: "BOM"},
		{FlightNumber: "AI 202", DepartureTime: "12:15", Destination: "BOM"},
		{FlightNumber: "AIX 330", DepartureTime: "18:45", Destination: "BOM"},
	}
}

func TestResolveReferenceEmptyResults(t *testing.T) {
	ctx := NewContext("s1", 0)

	ref := ctx.ResolveReference("tell me about the first one")
	assert.False(t, ref.HasReference)
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		wantType   ReferenceType
		wantFlight string
	}{
		{
			name:       "time with minutes",
			message:    "what about the 9:30 flight",
			wantType:   ReferenceTime,
			wantFlight: "AI 101",
		},
		{
			name:       "time hour only",
			message:    "the 12 pm one please",
			wantType:   ReferenceTime,
			wantFlight: "AI 202",
		},
		{
			name:       "ordinal first",
			message:    "tell me more about the first one",
			wantType:   ReferenceOrdinal,
			wantFlight: "AI 101",
		},
		{
			name:       "ordinal second",
			message:    "how much is the second option",
			wantType:   ReferenceOrdinal,
			wantFlight: "AI 202",
		},
		{
			name:       "ordinal last",
			message:    "book the last one",
			wantType:   ReferenceOrdinal,
			wantFlight: "AIX 330",
		},
		{
			name:       "flight number with space",
			message:    "does AI 202 serve meals",
			wantType:   ReferenceFlightNumber,
			wantFlight: "AI 202",
		},
		{
			name:       "flight number without space",
			message:    "what aircraft is AIX330",
			wantType:   ReferenceFlightNumber,
			wantFlight: "AIX 330",
		},
		{
			name:       "generic that",
			message:    "how long is that",
			wantType:   ReferenceGeneric,
			wantFlight: "AI 101",
		},
		{
			name:       "generic the flight",
			message:    "when does the flight land",
			wantType:   ReferenceGeneric,
			wantFlight: "AI 101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext("s1", 0)
			ctx.UpdateFlightResults(testFlights())

			ref := ctx.ResolveReference(tt.message)
			require.True(t, ref.HasReference)
			assert.Equal(t, tt.wantType, ref.Type)
			require.NotNil(t, ref.Flight)
			assert.Equal(t, tt.wantFlight, ref.Flight.FlightNumber)
			assert.Equal(t, tt.wantFlight, ref.FlightNumber)
		})
	}
}

func TestResolveReferenceOrdinalOutOfRange(t *testing.T) {
	ctx := NewContext("s1", 0)
	ctx.UpdateFlightResults(testFlights()[:2])

	// "fifth" is out of range for two results; no lower rule matches.
	ref := ctx.ResolveReference("show me the fifth option")
	assert.False(t, ref.HasReference)
}

func TestResolveReferenceNoMatch(t *testing.T) {
	ctx := NewContext("s1", 0)
	ctx.UpdateFlightResults(testFlights())

	ref := ctx.ResolveReference("what is your refund policy")
	assert.False(t, ref.HasReference)
}

func TestReferenceAsParameters(t *testing.T) {
	ctx := NewContext("s1", 0)
	ctx.UpdateFlightResults(testFlights())

	ref := ctx.ResolveReference("tell me about the first one")
	params := ref.AsParameters()
	assert.Equal(t, true, params["has_reference"])
	assert.Equal(t, "ordinal", params["reference_type"])
	assert.Equal(t, "AI 101", params["flight_number"])

	none := Reference{}.AsParameters()
	assert.Equal(t, false, none["has_reference"])
}
