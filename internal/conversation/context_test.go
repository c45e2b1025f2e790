package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMessageEvictsOldest(t *testing.T) {
	ctx := NewContext("s1", 3)

	for i := 0; i < 5; i++ {
		ctx.AddMessage(RoleUser, fmt.Sprintf("message %d", i), IntentGeneralChat, nil)
	}

	history := ctx.History()
	require.Len(t, history, 3)
	assert.Equal(t, "message 2", history[0].Content)
	assert.Equal(t, "message 4", history[2].Content)
}

func TestAddMessageStagesFlightSearch(t *testing.T) {
	ctx := NewContext("s1", 0)

	params := map[string]interface{}{"origin": "DEL", "destination": "BOM"}
	ctx.AddMessage(RoleUser, "flights from delhi to mumbai", IntentFlightSearch, params)

	summary := ctx.Summary()
	assert.True(t, summary.HasFlightSearch)
	assert.Equal(t, IntentFlightSearch, ctx.LastIntent())
	assert.Equal(t, "DEL", ctx.LastParameters()["origin"])

	// The staged copy must not alias the caller's map.
	params["origin"] = "BLR"
	ctx.UpdateFlightResults([]FlightRecord{{FlightNumber: "AI 101"}})
	assert.Equal(t, "BLR", ctx.LastParameters()["origin"])
}

func TestUpdateFlightResultsReplacesWholesale(t *testing.T) {
	ctx := NewContext("s1", 0)

	ctx.UpdateFlightResults([]FlightRecord{
		{FlightNumber: "AI 101"},
		{FlightNumber: "AI 102"},
	})
	ctx.UpdateFlightResults([]FlightRecord{
		{FlightNumber: "AI 201"},
	})

	results := ctx.LastFlightResults()
	require.Len(t, results, 1)
	assert.Equal(t, "AI 201", results[0].FlightNumber)
}

func TestClearResetsState(t *testing.T) {
	ctx := NewContext("s1", 0)
	ctx.AddMessage(RoleUser, "hello", IntentGeneralChat, nil)
	ctx.UpdateFlightResults([]FlightRecord{{FlightNumber: "AI 101"}})

	ctx.Clear()

	summary := ctx.Summary()
	assert.Equal(t, "s1", summary.SessionID)
	assert.Zero(t, summary.MessageCount)
	assert.Zero(t, summary.FlightResultsCount)
	assert.False(t, summary.HasFlightSearch)
	assert.Empty(t, ctx.LastIntent())
}

func TestSummaryIsIdempotent(t *testing.T) {
	ctx := NewContext("s1", 0)
	ctx.AddMessage(RoleUser, "hello", IntentGeneralChat, nil)

	first := ctx.Summary()
	second := ctx.Summary()
	assert.Equal(t, first, second)
}
