package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airdesk-ai/airdesk/internal/conversation"
	"github.com/airdesk-ai/airdesk/internal/flights"
	"github.com/airdesk-ai/airdesk/internal/intent"
	"github.com/airdesk-ai/airdesk/internal/retrieval"
)

type fakeSearcher struct {
	docs []retrieval.Document
	err  error
}

func (f *fakeSearcher) SimilaritySearch(_ context.Context, _ string, _ int) ([]retrieval.Document, error) {
	return f.docs, f.err
}

type fakeCompleter struct {
	answer     string
	err        error
	lastPrompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.answer, f.err
}

func newTestEngine(t *testing.T, searcher retrieval.Searcher, completer *fakeCompleter) *Engine {
	t.Helper()
	detector := intent.NewDetector(nil, nil)
	source := flights.NewMockSource(flights.WithSeed(1))
	var filter *retrieval.Filter
	if searcher != nil {
		filter = retrieval.NewFilter(searcher, nil)
	}
	return New(detector, source, filter, completer, nil)
}

func TestProcessQueryEmpty(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "   ")
	assert.Equal(t, emptyQueryText, resp.Text)
	assert.Equal(t, KindGeneralChat, resp.Kind)
	assert.Empty(t, convCtx.History())
}

func TestProcessQueryFlightSearch(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "flights from delhi to mumbai tomorrow")

	assert.Equal(t, KindFlightResults, resp.Kind)
	assert.Equal(t, conversation.IntentFlightSearch, resp.Intent)
	assert.InDelta(t, 0.95, resp.Confidence, 0.001)
	assert.Contains(t, resp.Text, "Delhi → Mumbai")
	assert.Contains(t, resp.Text, "flights found")
	assert.NotEmpty(t, convCtx.LastFlightResults())

	// Turn is recorded for both roles.
	require.Len(t, convCtx.History(), 2)
	assert.Equal(t, conversation.RoleUser, convCtx.History()[0].Role)
	assert.Equal(t, conversation.RoleAssistant, convCtx.History()[1].Role)
}

func TestProcessQueryFlightSearchMissingRoute(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "i want to book a ticket")

	assert.Equal(t, KindError, resp.Kind)
	assert.Contains(t, resp.Text, "origin and a destination")
	assert.Empty(t, convCtx.LastFlightResults())
}

func TestProcessQueryFollowUpReference(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	convCtx := conversation.NewContext("s1", 0)

	first := eng.ProcessQuery(context.Background(), convCtx, "flights from delhi to mumbai")
	require.Equal(t, KindFlightResults, first.Kind)
	wantFlight := convCtx.LastFlightResults()[0].FlightNumber

	resp := eng.ProcessQuery(context.Background(), convCtx, "tell me about the first one")

	assert.Equal(t, KindFlightDetails, resp.Kind)
	assert.Contains(t, resp.Text, wantFlight)
	assert.Contains(t, resp.Text, "Baggage:")
}

func TestProcessQueryPolicy(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.Document{
		{Content: "Two checked bags of 23 kg each for Canada routes.", Source: "baggage.txt", Countries: []string{"canada"}},
	}}
	completer := &fakeCompleter{answer: "You can check in two bags of 23 kg each."}
	eng := newTestEngine(t, searcher, completer)
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "what is the baggage allowance for canada")

	assert.Equal(t, KindPolicyAnswer, resp.Kind)
	assert.Equal(t, "rag_system", resp.Source)
	assert.Equal(t, "You can check in two bags of 23 kg each.", resp.Text)
	assert.Contains(t, completer.lastPrompt, "Two checked bags of 23 kg each")
	assert.Contains(t, completer.lastPrompt, "Respond in English")
}

func TestProcessQueryPolicyHindi(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.Document{
		{Content: "Cabin baggage is 7 kg.", Source: "baggage.txt"},
	}}
	completer := &fakeCompleter{answer: "उत्तर"}
	eng := newTestEngine(t, searcher, completer)
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "सामान के नियम जानकारी")

	assert.Equal(t, KindPolicyAnswer, resp.Kind)
	assert.Contains(t, completer.lastPrompt, "Respond in Hindi")
	assert.Equal(t, "उत्तर", resp.Text)
}

func TestProcessQueryPolicyStoreDown(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("store offline")}
	eng := newTestEngine(t, searcher, &fakeCompleter{answer: "unused"})
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "what is the baggage allowance for canada")

	assert.Equal(t, "fallback", resp.Source)
	assert.Equal(t, policyUnavailableText, resp.Text)
}

func TestProcessQueryPolicyCompleterDown(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.Document{{Content: "Cabin baggage is 7 kg.", Source: "a.txt"}}}
	eng := newTestEngine(t, searcher, &fakeCompleter{err: errors.New("model offline")})
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "what is the baggage allowance for canada")

	assert.Equal(t, "fallback", resp.Source)
	assert.Equal(t, policyUnavailableText, resp.Text)
}

func TestProcessQueryGreeting(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "hello")

	assert.Equal(t, KindGeneralChat, resp.Kind)
	assert.Equal(t, "canned", resp.Source)
	assert.True(t, strings.HasPrefix(resp.Text, "Namaste!"))
}

func TestProcessQueryHindiGreeting(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "नमस्ते")

	assert.Equal(t, KindGeneralChat, resp.Kind)
	assert.Equal(t, "canned", resp.Source)
	assert.True(t, strings.HasPrefix(resp.Text, "Namaste!"))
}

func TestProcessQueryGeneralChatUsesModel(t *testing.T) {
	completer := &fakeCompleter{answer: "Happy to chat!"}
	eng := newTestEngine(t, nil, completer)
	convCtx := conversation.NewContext("s1", 0)

	resp := eng.ProcessQuery(context.Background(), convCtx, "what a lovely day it has been")

	assert.Equal(t, "llm", resp.Source)
	assert.Equal(t, "Happy to chat!", resp.Text)
}

func TestEngineStats(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	convCtx := conversation.NewContext("s1", 0)

	eng.ProcessQuery(context.Background(), convCtx, "hello")
	eng.ProcessQuery(context.Background(), convCtx, "flights from delhi to mumbai")

	snap := eng.Stats()
	assert.Equal(t, int64(2), snap.TotalQueries)
	assert.Equal(t, int64(1), snap.IntentDistribution[conversation.IntentGeneralChat])
	assert.Equal(t, int64(1), snap.IntentDistribution[conversation.IntentFlightSearch])
}
