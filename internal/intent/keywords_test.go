package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountKeywords(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		keywords []string
		want     int
	}{
		{
			name:     "english flight keywords",
			message:  "book a flight for me",
			keywords: flightKeywords,
			want:     2, // book, flight
		},
		{
			name:     "case insensitive",
			message:  "BOOK A FLIGHT",
			keywords: flightKeywords,
			want:     2,
		},
		{
			name:     "substring is not a word match",
			message:  "a flightless bird",
			keywords: flightKeywords,
			want:     0,
		},
		{
			name:     "repeated keyword counts once",
			message:  "flight flight flight",
			keywords: flightKeywords,
			want:     1,
		},
		{
			name:     "multi-word keyword",
			message:  "hand luggage rules",
			keywords: policyKeywords,
			want:     3, // hand luggage, luggage, rules
		},
		{
			name:     "hyphenated keyword survives tokenizing",
			message:  "carry-on limits and rules",
			keywords: policyKeywords,
			want:     2, // carry-on, rules
		},
		{
			name:     "embedded keyword with prefix",
			message:  "spreading misinformation",
			keywords: policyKeywords,
			want:     0,
		},
		{
			name:     "spanish flight keywords",
			message:  "quiero reservar un vuelo",
			keywords: flightKeywords,
			want:     2, // reservar, vuelo
		},
		{
			name:     "hindi flight keywords",
			message:  "मुझे टिकट बुकिंग चाहिए",
			keywords: flightKeywords,
			want:     2, // टिकट, बुकिंग
		},
		{
			name:     "hindi policy keywords",
			message:  "सामान के नियम",
			keywords: policyKeywords,
			want:     2, // सामान, नियम
		},
		{
			name:     "hindi greeting",
			message:  "नमस्ते",
			keywords: greetingKeywords,
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := countKeywords(strings.ToLower(tt.message), tt.keywords)
			assert.Equal(t, tt.want, got)
		})
	}
}
