// Package config provides unified configuration loading for Airdesk.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the Airdesk chatbot.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Completion    CompletionConfig    `yaml:"completion"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	Conversation  ConversationConfig  `yaml:"conversation"`
	Flights       FlightsConfig       `yaml:"flights"`
	Ingest        IngestConfig        `yaml:"ingest"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// DatabaseConfig holds session store settings.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"` // sqlite or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	JournalMode  string `yaml:"journal_mode"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// EmbeddingConfig holds embedding model settings.
type EmbeddingConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	Dimension int           `yaml:"dimension"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CompletionConfig holds text-completion collaborator settings.
type CompletionConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	Temperature  float64       `yaml:"temperature"`
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// RetrievalConfig holds policy retrieval settings.
type RetrievalConfig struct {
	KResults     int    `yaml:"k_results"`
	SearchK      int    `yaml:"search_k"`
	IndexPath    string `yaml:"index_path"`
	CacheResults bool   `yaml:"cache_results"`
}

// ConversationConfig holds conversation context settings.
type ConversationConfig struct {
	MaxHistory     int  `yaml:"max_history"`
	UseLLMFallback bool `yaml:"use_llm_fallback"`
}

// FlightsConfig holds the flight source settings.
type FlightsConfig struct {
	CacheCapacity int `yaml:"cache_capacity"`
	ResultsPerDay int `yaml:"results_per_day"`
}

// IngestConfig holds policy document ingestion settings.
type IngestConfig struct {
	DataDir      string `yaml:"data_dir"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path:         "/tmp/airdesk.db",
				MaxOpenConns: 1,
				JournalMode:  "WAL",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Embedding: EmbeddingConfig{
			BaseURL:   "http://localhost:11434",
			Model:     "nomic-embed-text",
			Dimension: 768,
			Timeout:   30 * time.Second,
		},
		Completion: CompletionConfig{
			BaseURL:      "http://localhost:11434",
			Model:        "phi3:mini",
			Temperature:  0.3,
			MaxTokens:    400,
			Timeout:      60 * time.Second,
			MaxAttempts:  3,
			RetryBackoff: time.Second,
		},
		Retrieval: RetrievalConfig{
			KResults:     5,
			SearchK:      10,
			IndexPath:    "/tmp/airdesk-policies.index",
			CacheResults: true,
		},
		Conversation: ConversationConfig{
			MaxHistory:     10,
			UseLLMFallback: false,
		},
		Flights: FlightsConfig{
			CacheCapacity: 128,
			ResultsPerDay: 3,
		},
		Ingest: IngestConfig{
			DataDir:      "data/policies",
			ChunkSize:    800,
			ChunkOverlap: 150,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "airdesk",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("invalid database driver: %s", c.Database.Driver)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Retrieval.KResults < 1 {
		return fmt.Errorf("retrieval k_results must be positive, got %d", c.Retrieval.KResults)
	}

	if c.Retrieval.SearchK < c.Retrieval.KResults {
		return fmt.Errorf("retrieval search_k (%d) must be >= k_results (%d)",
			c.Retrieval.SearchK, c.Retrieval.KResults)
	}

	if c.Conversation.MaxHistory < 1 {
		return fmt.Errorf("conversation max_history must be positive, got %d", c.Conversation.MaxHistory)
	}

	if c.Completion.MaxAttempts < 1 {
		return fmt.Errorf("completion max_attempts must be positive, got %d", c.Completion.MaxAttempts)
	}

	return nil
}

// applyEnvOverrides applies AIRDESK_* environment variables on top of
// whatever the YAML file provided.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AIRDESK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("AIRDESK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AIRDESK_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("AIRDESK_SQLITE_PATH"); v != "" {
		cfg.Database.SQLite.Path = v
	}
	if v := os.Getenv("AIRDESK_POSTGRES_DSN"); v != "" {
		cfg.Database.Postgres.DSN = v
	}
	if v := os.Getenv("AIRDESK_CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}
	if v := os.Getenv("AIRDESK_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("AIRDESK_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("AIRDESK_LLM_BASE_URL"); v != "" {
		cfg.Completion.BaseURL = v
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("AIRDESK_LLM_MODEL"); v != "" {
		cfg.Completion.Model = v
	}
	if v := os.Getenv("AIRDESK_EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("AIRDESK_INDEX_PATH"); v != "" {
		cfg.Retrieval.IndexPath = v
	}
	if v := os.Getenv("AIRDESK_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("AIRDESK_LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
