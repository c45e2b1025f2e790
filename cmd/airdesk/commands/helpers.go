package commands

import (
	"github.com/airdesk-ai/airdesk/cmd/airdesk/ui"
	"github.com/airdesk-ai/airdesk/internal/config"
	"github.com/airdesk-ai/airdesk/internal/embedding"
	"github.com/airdesk-ai/airdesk/internal/engine"
	"github.com/airdesk-ai/airdesk/internal/flights"
	"github.com/airdesk-ai/airdesk/internal/intent"
	"github.com/airdesk-ai/airdesk/internal/llm"
	"github.com/airdesk-ai/airdesk/internal/observability"
	"github.com/airdesk-ai/airdesk/internal/retrieval"
	"github.com/airdesk-ai/airdesk/internal/vectorindex"
)

// loadConfig reads the configuration named by --config, falling back
// to defaults and environment overrides.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger builds a console logger for CLI use. Without --verbose only
// warnings and errors reach the terminal.
func newLogger(cfg *config.Config) *observability.Logger {
	level := "warn"
	if verbose {
		level = cfg.Observability.LogLevel
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		ServiceName: cfg.Observability.ServiceName,
	})
}

// newEmbedder builds the embedding client from config.
func newEmbedder(cfg *config.Config) *embedding.Client {
	return embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedding.BaseURL,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})
}

// newEngine wires a full chat engine from config. The policy index is
// optional; without it policy questions answer from fallback text.
func newEngine(cfg *config.Config, logger *observability.Logger) *engine.Engine {
	var filter *retrieval.Filter
	if index, err := vectorindex.Load(cfg.Retrieval.IndexPath); err != nil {
		ui.Warning("Policy index not found at %s, run `airdesk index` to build it", cfg.Retrieval.IndexPath)
	} else {
		filter = retrieval.NewFilter(
			vectorindex.NewSearcher(index, newEmbedder(cfg)),
			logger,
			retrieval.WithResultWindow(cfg.Retrieval.KResults, cfg.Retrieval.SearchK),
		)
	}

	completer := llm.NewClient(llm.Config{
		BaseURL:      cfg.Completion.BaseURL,
		Model:        cfg.Completion.Model,
		Temperature:  cfg.Completion.Temperature,
		MaxTokens:    cfg.Completion.MaxTokens,
		Timeout:      cfg.Completion.Timeout,
		MaxAttempts:  cfg.Completion.MaxAttempts,
		RetryBackoff: cfg.Completion.RetryBackoff,
	}, logger)

	var classifier intent.Classifier
	if cfg.Conversation.UseLLMFallback {
		classifier = llm.NewIntentClassifier(completer)
	}

	flightSrc := flights.NewCachingSource(
		flights.NewMockSource(flights.WithResultsPerDay(cfg.Flights.ResultsPerDay)),
		cfg.Flights.CacheCapacity,
	)

	return engine.New(intent.NewDetector(classifier, logger), flightSrc, filter, completer, logger)
}
