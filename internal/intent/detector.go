package intent

import (
	"context"
	"strings"
	"time"

	"github.com/airdesk-ai/airdesk/internal/conversation"
	"github.com/airdesk-ai/airdesk/internal/observability"
)

// Confidence levels are fixed per detection rule rather than computed;
// downstream thresholds depend on their relative ordering.
const (
	confidenceEmptyMessage    = 0.1
	confidenceFlightPattern   = 0.95
	confidencePolicyPattern   = 0.92
	confidenceGreeting        = 0.90
	confidenceFlightWithRoute = 0.89
	confidenceContextFollowUp = 0.88
	confidenceBaggageOnly     = 0.85
	confidencePolicyKeywords  = 0.80
	confidenceFlightNoRoute   = 0.75
	confidenceCodesOnly       = 0.70
	confidenceDefault         = 0.30
)

// Result is the outcome of classifying one message.
type Result struct {
	Intent     conversation.IntentType `json:"intent"`
	Confidence float64                 `json:"confidence"`
	Parameters map[string]interface{}  `json:"parameters"`
	Reason     string                  `json:"reason"`
	Timestamp  time.Time               `json:"timestamp"`
}

// Classifier resolves ambiguous messages with a language model. It is
// consulted only after every rule has failed to match.
type Classifier interface {
	ClassifyIntent(ctx context.Context, message string) (conversation.IntentType, float64, error)
}

// Detector classifies user messages into flight searches, policy
// questions or general chat. Rules run in fixed priority order; the
// first match wins.
type Detector struct {
	extractor  *Extractor
	classifier Classifier
	logger     *observability.Logger
}

// NewDetector creates a detector. classifier may be nil, in which case
// unmatched messages fall through to general chat.
func NewDetector(classifier Classifier, logger *observability.Logger) *Detector {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Detector{
		extractor:  NewExtractor(),
		classifier: classifier,
		logger:     logger.WithOperation("intent_detection"),
	}
}

// Detect classifies a message. convCtx carries the session state used
// for follow-up detection and may be nil for stateless classification.
func (d *Detector) Detect(ctx context.Context, convCtx *conversation.Context, message string) Result {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return d.result(conversation.IntentGeneralChat, confidenceEmptyMessage, nil, "empty_message")
	}

	lower := strings.ToLower(trimmed)

	if matchesAny(flightPatterns, trimmed) {
		params := d.extractor.Extract(trimmed)
		d.logger.Debug().Str("reason", "flight_pattern").Msg("intent matched")
		return d.result(conversation.IntentFlightSearch, confidenceFlightPattern, params.Map(), "flight_pattern")
	}

	if matchesAny(policyPatterns, trimmed) {
		d.logger.Debug().Str("reason", "policy_pattern").Msg("intent matched")
		return d.result(conversation.IntentPolicyQuestion, confidencePolicyPattern, nil, "policy_pattern")
	}

	if convCtx != nil && convCtx.LastIntent() == conversation.IntentFlightSearch {
		if ref := convCtx.ResolveReference(trimmed); ref.HasReference {
			d.logger.Debug().Str("reason", "context_reference").Msg("intent matched")
			return d.result(conversation.IntentFlightSearch, confidenceContextFollowUp, ref.AsParameters(), "context_reference")
		}
	}

	flightScore := countKeywords(lower, flightKeywords)
	policyScore := countKeywords(lower, policyKeywords)
	greetingScore := countKeywords(lower, greetingKeywords)

	if greetingScore >= 1 && flightScore == 0 && policyScore == 0 {
		return d.result(conversation.IntentGeneralChat, confidenceGreeting, nil, "greeting")
	}

	if flightScore >= 2 {
		params := d.extractor.Extract(trimmed)
		if params.HasRoute() {
			return d.result(conversation.IntentFlightSearch, confidenceFlightWithRoute, params.Map(), "flight_keywords_with_codes")
		}
		return d.result(conversation.IntentFlightSearch, confidenceFlightNoRoute, params.Map(), "flight_keywords_no_codes")
	}

	if policyScore >= 2 {
		return d.result(conversation.IntentPolicyQuestion, confidencePolicyKeywords, nil, "policy_keywords")
	}

	if (strings.Contains(lower, "baggage") || strings.Contains(lower, "luggage")) && flightScore == 0 {
		return d.result(conversation.IntentPolicyQuestion, confidenceBaggageOnly, nil, "baggage_only")
	}

	if origin, destination := extractIATAPair(trimmed); origin != "" && destination != "" {
		params := d.extractor.Extract(trimmed)
		return d.result(conversation.IntentFlightSearch, confidenceCodesOnly, params.Map(), "iata_codes_only")
	}

	if d.classifier != nil {
		if intent, confidence, err := d.classifier.ClassifyIntent(ctx, trimmed); err == nil && intent != conversation.IntentUnknown {
			d.logger.Debug().Str("intent", string(intent)).Msg("llm fallback used")
			return d.result(intent, confidence, nil, "llm_fallback")
		} else if err != nil {
			d.logger.Warn().Err(err).Msg("llm intent fallback failed")
		}
	}

	return d.result(conversation.IntentGeneralChat, confidenceDefault, nil, "default")
}

func (d *Detector) result(intent conversation.IntentType, confidence float64, params map[string]interface{}, reason string) Result {
	if params == nil {
		params = map[string]interface{}{}
	}
	return Result{
		Intent:     intent,
		Confidence: confidence,
		Parameters: params,
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}
