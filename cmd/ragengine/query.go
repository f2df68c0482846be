package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tangerg/ragengine/config"
	"github.com/tangerg/ragengine/rag"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Retrieve results for a question against the configured index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		indexID, _ := cmd.Flags().GetString("index")
		k, _ := cmd.Flags().GetInt("k")
		mode, _ := cmd.Flags().GetString("mode")

		emb, err := loadEmbedder(cfg)
		if err != nil {
			return err
		}
		store, err := loadVectorStore(cfg)
		if err != nil {
			return err
		}
		reporter := loadReporter(cfg)

		composer := rag.NewComposer(emb, indexID, store, nil, reporter)

		ctx := context.Background()
		results, err := composer.Retrieve(ctx, args[0], rag.RetrieveOptions{
			Mode: rag.RetrieverMode(mode),
			K:    k,
		})
		if err != nil {
			return err
		}

		for i, r := range results {
			fmt.Printf("%d. [%.4f] (%s) %s\n", i+1, r.Score, r.Source, truncate(r.Content, 120))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
