package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/airdesk-ai/airdesk/cmd/airdesk/ui"
	"github.com/airdesk-ai/airdesk/internal/cache"
	"github.com/airdesk-ai/airdesk/internal/ingest"
	"github.com/airdesk-ai/airdesk/internal/retrieval"
	"github.com/airdesk-ai/airdesk/internal/vectorindex"
)

var indexDataDir string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the policy knowledge index",
	Long: `Read the policy documents from the data directory, chunk and embed
them, and write the vector index used to answer policy questions.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexDataDir, "data", "d", "", "policy documents directory (overrides config)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if indexDataDir != "" {
		cfg.Ingest.DataDir = indexDataDir
	}

	ui.Init(noColor)
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	index := vectorindex.New(cfg.Embedding.Dimension)
	indexer := ingest.NewIndexer(ingest.Config{
		DataDir:      cfg.Ingest.DataDir,
		ChunkSize:    cfg.Ingest.ChunkSize,
		ChunkOverlap: cfg.Ingest.ChunkOverlap,
	}, newEmbedder(cfg), index, logger)

	bar := ui.NewProgressBar(-1, "Embedding policy chunks")
	stats, err := indexer.Run(ctx, func(done, total int) {
		bar.ChangeMax(total)
		bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	bar.Finish()

	if err := index.Save(cfg.Retrieval.IndexPath); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	// Stored answers may reference stale chunks after a rebuild.
	if cfg.Cache.Driver == "redis" {
		if client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		}); err == nil {
			defer client.Close()
			if err := retrieval.NewResponseCache(client, cfg.Cache.TTL).Invalidate(ctx); err != nil {
				ui.Warning("Could not invalidate cached answers: %v", err)
			}
		}
	}

	ui.Success("Indexed %d chunks from %d files into %s",
		stats.Chunks, stats.FilesProcessed, cfg.Retrieval.IndexPath)
	for contentType, count := range stats.ChunksByType {
		fmt.Printf("  %-16s %d\n", contentType, count)
	}
	return nil
}
