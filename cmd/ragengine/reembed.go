package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tangerg/ragengine/config"
	"github.com/tangerg/ragengine/docstore/memory"
	"github.com/tangerg/ragengine/maintenance"
)

var reembedCmd = &cobra.Command{
	Use:   "reembed",
	Short: "Re-embed chunks, by default only those missing a vector",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		collectionID, _ := cmd.Flags().GetString("collection")
		missingOnly, _ := cmd.Flags().GetBool("missing-only")

		emb, err := loadEmbedder(cfg)
		if err != nil {
			return err
		}
		reporter := maintenance.TextWriter{Write: func(line string) { fmt.Println(line) }}

		// The repository backing is process-local here; a real deployment
		// wires the same docstore.Store interface to its relational
		// persistence layer (spec §6).
		store := memory.New()

		ctx := context.Background()
		result, err := maintenance.Reembed(ctx, store, emb, maintenance.ReembedOptions{
			CollectionID:     collectionID,
			WithoutEmbedding: missingOnly,
		}, reporter)
		if err != nil {
			return err
		}

		fmt.Printf("total=%d processed=%d failed=%d\n", result.Total, result.Processed, result.Failed)
		return nil
	},
}
