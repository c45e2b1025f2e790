package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/airdesk-ai/airdesk/internal/conversation"
)

const classifyPrompt = `Classify this airline customer message into exactly one category.
Categories: flight_search, policy_question, general_chat
Answer with the category name only.

Message: %s
Category:`

// llmFallbackConfidence applies to model classifications; the model is
// consulted only when every rule failed, so it is trusted less than
// any rule.
const llmFallbackConfidence = 0.6

// IntentClassifier resolves ambiguous messages with the language
// model. It satisfies the intent detector's fallback contract.
type IntentClassifier struct {
	completer Completer
}

// NewIntentClassifier creates a model-backed intent classifier.
func NewIntentClassifier(completer Completer) *IntentClassifier {
	return &IntentClassifier{completer: completer}
}

// ClassifyIntent asks the model for a category. Unrecognized answers
// come back as IntentUnknown so the caller falls through to its
// default.
func (c *IntentClassifier) ClassifyIntent(ctx context.Context, message string) (conversation.IntentType, float64, error) {
	answer, err := c.completer.Complete(ctx, fmt.Sprintf(classifyPrompt, message))
	if err != nil {
		return conversation.IntentUnknown, 0, err
	}

	normalized := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case strings.Contains(normalized, "flight_search"):
		return conversation.IntentFlightSearch, llmFallbackConfidence, nil
	case strings.Contains(normalized, "policy_question"):
		return conversation.IntentPolicyQuestion, llmFallbackConfidence, nil
	case strings.Contains(normalized, "general_chat"):
		return conversation.IntentGeneralChat, llmFallbackConfidence, nil
	}
	return conversation.IntentUnknown, 0, nil
}
