package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airdesk-ai/airdesk/internal/conversation"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL:      url,
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
		Timeout:      time.Second,
	}, nil)
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "Two bags are allowed."})
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL).Complete(context.Background(), "baggage to canada?")
	require.NoError(t, err)
	assert.Equal(t, "Two bags are allowed.", text)
}

func TestCompleteRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(generateResponse{Error: "model loading"})
			return
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "hello"})
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL).Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCompleteGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

type stubCompleter struct {
	answer string
	err    error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.answer, s.err
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		answer string
		want   conversation.IntentType
	}{
		{"flight_search", conversation.IntentFlightSearch},
		{" Policy_Question\n", conversation.IntentPolicyQuestion},
		{"I think this is general_chat.", conversation.IntentGeneralChat},
		{"no idea", conversation.IntentUnknown},
	}
	for _, tt := range tests {
		classifier := NewIntentClassifier(&stubCompleter{answer: tt.answer})
		intent, confidence, err := classifier.ClassifyIntent(context.Background(), "msg")
		require.NoError(t, err)
		assert.Equal(t, tt.want, intent, tt.answer)
		if tt.want == conversation.IntentUnknown {
			assert.Zero(t, confidence)
		} else {
			assert.InDelta(t, 0.6, confidence, 0.001)
		}
	}
}

func TestClassifyIntentError(t *testing.T) {
	classifier := NewIntentClassifier(&stubCompleter{err: errors.New("offline")})
	intent, _, err := classifier.ClassifyIntent(context.Background(), "msg")
	assert.Error(t, err)
	assert.Equal(t, conversation.IntentUnknown, intent)
}
