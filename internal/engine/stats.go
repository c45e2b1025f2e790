package engine

import (
	"sync"
	"time"

	"github.com/airdesk-ai/airdesk/internal/conversation"
)

// Stats tracks engine-wide counters across all sessions.
type Stats struct {
	mu           sync.Mutex
	totalQueries int64
	byIntent     map[conversation.IntentType]int64
	avgElapsed   time.Duration
}

// StatsSnapshot is a read-only copy of the counters.
type StatsSnapshot struct {
	TotalQueries       int64                             `json:"total_queries"`
	IntentDistribution map[conversation.IntentType]int64 `json:"intent_distribution"`
	AvgProcessingTime  time.Duration                     `json:"avg_processing_time"`
}

func newStats() *Stats {
	return &Stats{byIntent: make(map[conversation.IntentType]int64)}
}

// record folds one processed query into the counters, keeping a moving
// average of processing time.
func (s *Stats) record(intentType conversation.IntentType, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalQueries++
	s.byIntent[intentType]++
	s.avgElapsed += (elapsed - s.avgElapsed) / time.Duration(s.totalQueries)
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	byIntent := make(map[conversation.IntentType]int64, len(s.byIntent))
	for k, v := range s.byIntent {
		byIntent[k] = v
	}
	return StatsSnapshot{
		TotalQueries:       s.totalQueries,
		IntentDistribution: byIntent,
		AvgProcessingTime:  s.avgElapsed,
	}
}
