// Package engine sequences intent detection, action execution and
// response assembly for one conversation turn.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/airdesk-ai/airdesk/internal/conversation"
	"github.com/airdesk-ai/airdesk/internal/flights"
	"github.com/airdesk-ai/airdesk/internal/intent"
	"github.com/airdesk-ai/airdesk/internal/llm"
	"github.com/airdesk-ai/airdesk/internal/observability"
	"github.com/airdesk-ai/airdesk/internal/retrieval"
)

// Response kinds identify which handler produced the reply.
const (
	KindFlightResults = "flight_results"
	KindFlightDetails = "flight_details"
	KindPolicyAnswer  = "policy_answer"
	KindGeneralChat   = "general_chat"
	KindError         = "error"
)

// Response is the outcome of one processed query. Text is always
// non-empty and human readable; failures degrade to fallback prose
// instead of surfacing errors.
type Response struct {
	Text       string                  `json:"text"`
	Kind       string                  `json:"kind"`
	Intent     conversation.IntentType `json:"intent"`
	Confidence float64                 `json:"confidence"`
	Data       interface{}             `json:"data,omitempty"`
	Source     string                  `json:"source"`
	Elapsed    time.Duration           `json:"elapsed"`
}

// Engine wires the detector to its collaborators. One Engine serves
// every session; all per-conversation state lives in the Context
// passed to ProcessQuery.
type Engine struct {
	detector  *intent.Detector
	flightSrc flights.Source
	filter    *retrieval.Filter
	completer llm.Completer
	stats     *Stats
	logger    *observability.Logger
}

// New creates an engine. filter and completer may be nil; the affected
// intents then answer from canned text.
func New(detector *intent.Detector, flightSrc flights.Source, filter *retrieval.Filter, completer llm.Completer, logger *observability.Logger) *Engine {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Engine{
		detector:  detector,
		flightSrc: flightSrc,
		filter:    filter,
		completer: completer,
		stats:     newStats(),
		logger:    logger.WithOperation("engine"),
	}
}

// Stats exposes the engine counters.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}

// ProcessQuery runs one conversation turn: resolve follow-up
// references, classify, execute the intent's action and write the
// outcome back into the context.
func (e *Engine) ProcessQuery(ctx context.Context, convCtx *conversation.Context, query string) Response {
	started := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return e.finish(convCtx, "", Response{
			Text:   emptyQueryText,
			Kind:   KindGeneralChat,
			Intent: conversation.IntentGeneralChat,
		}, started)
	}

	// Follow-ups about a listed flight short-circuit detection.
	if ref := convCtx.ResolveReference(query); ref.HasReference {
		e.logger.Debug().Str("reference", string(ref.Type)).Msg("context reference")
		resp := Response{
			Text:       formatFlightDetails(ref.Flight),
			Kind:       KindFlightDetails,
			Intent:     conversation.IntentFlightSearch,
			Confidence: 0.9,
			Data:       ref.Flight,
			Source:     "flight_database",
		}
		convCtx.AddMessage(conversation.RoleUser, query, conversation.IntentFlightSearch, ref.AsParameters())
		return e.finish(convCtx, resp.Text, resp, started)
	}

	result := e.detector.Detect(ctx, convCtx, query)
	convCtx.AddMessage(conversation.RoleUser, query, result.Intent, result.Parameters)

	var resp Response
	switch result.Intent {
	case conversation.IntentFlightSearch:
		resp = e.handleFlightSearch(ctx, convCtx, query)
	case conversation.IntentPolicyQuestion:
		resp = e.handlePolicyQuery(ctx, query)
	default:
		resp = e.handleGeneralChat(ctx, query)
	}
	resp.Intent = result.Intent
	resp.Confidence = result.Confidence

	e.logger.Info().
		Str("session", convCtx.SessionID()).
		Str("intent", string(result.Intent)).
		Float64("confidence", result.Confidence).
		Str("reason", result.Reason).
		Dur("elapsed", time.Since(started)).
		Msg("query processed")

	return e.finish(convCtx, resp.Text, resp, started)
}

func (e *Engine) finish(convCtx *conversation.Context, assistantText string, resp Response, started time.Time) Response {
	if assistantText != "" {
		convCtx.AddMessage(conversation.RoleAssistant, assistantText, "", nil)
	}
	resp.Elapsed = time.Since(started)
	e.stats.record(resp.Intent, resp.Elapsed)
	return resp
}

func (e *Engine) handleFlightSearch(ctx context.Context, convCtx *conversation.Context, query string) Response {
	params := intent.SearchParametersFrom(convCtx.LastParameters())
	if !params.HasRoute() {
		return Response{
			Text:   missingRouteText,
			Kind:   KindError,
			Source: "flight_database",
		}
	}

	results, err := e.flightSrc.Search(ctx, params.Origin, params.Destination, params.Date)
	if err != nil {
		e.logger.Error().Err(err).
			Str("origin", params.Origin).
			Str("destination", params.Destination).
			Msg("flight search failed")
		return Response{
			Text:   flightsUnavailableText,
			Kind:   KindError,
			Source: "flight_database",
		}
	}
	if len(results) == 0 {
		return Response{
			Text:   "No flights found for that route on " + params.Date + ". Try a nearby date.",
			Kind:   KindFlightResults,
			Source: "flight_database",
		}
	}

	convCtx.UpdateFlightResults(results)
	return Response{
		Text:   formatFlightResults(params, results),
		Kind:   KindFlightResults,
		Data:   results,
		Source: "flight_database",
	}
}

func (e *Engine) handlePolicyQuery(ctx context.Context, query string) Response {
	if e.filter == nil || e.completer == nil {
		return Response{Text: policyUnavailableText, Kind: KindPolicyAnswer, Source: "fallback"}
	}

	searchResult := e.filter.Search(ctx, query, 0)
	if !searchResult.Success {
		return Response{Text: policyUnavailableText, Kind: KindPolicyAnswer, Source: "fallback"}
	}
	if !searchResult.Found {
		return Response{Text: policyNotFoundText, Kind: KindPolicyAnswer, Source: "fallback"}
	}

	answer, err := e.completer.Complete(ctx, buildPolicyPrompt(query, searchResult.Documents))
	if err != nil {
		e.logger.Error().Err(err).Msg("policy completion failed")
		return Response{Text: policyUnavailableText, Kind: KindPolicyAnswer, Source: "fallback"}
	}
	return Response{
		Text:   strings.TrimSpace(answer),
		Kind:   KindPolicyAnswer,
		Data:   searchResult.Documents,
		Source: "rag_system",
	}
}

func (e *Engine) handleGeneralChat(ctx context.Context, query string) Response {
	if canned := cannedChatResponse(query); canned != "" {
		return Response{Text: canned, Kind: KindGeneralChat, Source: "canned"}
	}

	if e.completer != nil {
		prompt := "You are Maharaja, the friendly Air India assistant. " +
			"Reply briefly and helpfully to this message:\n\n" + query
		if answer, err := e.completer.Complete(ctx, prompt); err == nil {
			return Response{Text: strings.TrimSpace(answer), Kind: KindGeneralChat, Source: "llm"}
		}
	}
	return Response{Text: defaultChatText, Kind: KindGeneralChat, Source: "canned"}
}
