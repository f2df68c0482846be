package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tangerg/ragengine/config"
	"github.com/tangerg/ragengine/embedder"
	openaiembedder "github.com/tangerg/ragengine/embedder/openai"
	"github.com/tangerg/ragengine/telemetry"
	"github.com/tangerg/ragengine/vectorstore"
	memvectorstore "github.com/tangerg/ragengine/vectorstore/memory"
)

var rootCmd = &cobra.Command{
	Use:   "ragengine",
	Short: "ragengine drives ingestion, retrieval and maintenance over a RAG index",
	Long: `ragengine is a thin command shell over the library: it wires the
embedder and vector store adapters named by environment
configuration and runs one operation at a time.`,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(reembedCmd)
	rootCmd.AddCommand(diagnosticsCmd)

	ingestCmd.Flags().String("index", "default", "vector index id")
	ingestCmd.Flags().StringSlice("glob", []string{"**/*.md"}, "glob patterns to discover")
	ingestCmd.Flags().String("root", ".", "root directory for glob discovery")

	queryCmd.Flags().String("index", "default", "vector index id")
	queryCmd.Flags().Int("k", 10, "number of results")
	queryCmd.Flags().String("mode", "vector", "retrieval mode: vector, fulltext, hybrid, graph")

	reembedCmd.Flags().String("collection", "", "restrict to one collection id")
	reembedCmd.Flags().Bool("missing-only", true, "only re-embed chunks without a vector")
}

func loadReporter(cfg config.Config) telemetry.Reporter {
	switch cfg.TelemetrySink {
	case "silent":
		return telemetry.NewSilent()
	case "zap":
		return telemetry.NewZap(nil)
	default:
		return telemetry.NewText(nil)
	}
}

func loadEmbedder(cfg config.Config) (embedder.Provider, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required to build an embedder")
	}
	return openaiembedder.New(cfg.OpenAIAPIKey, "text-embedding-3-small")
}

func loadVectorStore(cfg config.Config) (vectorstore.Store, error) {
	switch cfg.VectorStoreBackend {
	case "memory", "":
		return memvectorstore.New(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store backend %q (wire qdrant/pinecone adapters at the call site)", cfg.VectorStoreBackend)
	}
}
