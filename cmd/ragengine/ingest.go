package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tangerg/ragengine/chunker"
	"github.com/tangerg/ragengine/config"
	"github.com/tangerg/ragengine/ingest"
	"github.com/tangerg/ragengine/ratelimit"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Discover files and run them through the ingestion pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		indexID, _ := cmd.Flags().GetString("index")
		patterns, _ := cmd.Flags().GetStringSlice("glob")
		root, _ := cmd.Flags().GetString("root")

		emb, err := loadEmbedder(cfg)
		if err != nil {
			return err
		}
		store, err := loadVectorStore(cfg)
		if err != nil {
			return err
		}
		reporter := loadReporter(cfg)

		if err := store.CreateIndex(cmd.Context(), indexID, indexSpecFor(emb)); err != nil {
			return fmt.Errorf("create index: %w", err)
		}

		pipelineCfg := ingest.Config{
			Source: ingest.GlobSource{Root: root, Patterns: patterns},
			ChunkerCfg: chunker.Config{
				ChunkSize:    cfg.ChunkSize,
				ChunkOverlap: cfg.ChunkOverlap,
				SizeUnit:     chunker.SizeUnit(cfg.ChunkSizeUnit),
			},
			Embedder:         emb,
			Limiter:          ratelimit.New(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
			EmbedderProvider: "openai",
			IndexID:          indexID,
			Store:            store,
			BatchSize:        cfg.IngestBatchSize,
			BatchTimeout:     cfg.IngestBatchTimeout,
			ChunkWorkers:     cfg.IngestChunkWorkers,
			EmbedWorkers:     cfg.IngestEmbedWorkers,
			Reporter:         reporter,
		}

		ctx := context.Background()
		result, err := ingest.Run(ctx, pipelineCfg)
		if err != nil {
			return err
		}

		fmt.Printf("discovered=%d failures=%d\n", result.ItemsDiscovered, len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  %s: %s: %v\n", f.Path, f.Reason, f.Err)
		}
		return nil
	},
}
