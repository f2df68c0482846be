// Package embedder defines the Embedder capability contract of spec §6.
package embedder

import "context"

// Result is the outcome of embedding one text.
type Result struct {
	Vector     []float32
	Model      string
	Dimensions int
	TokenCount int
}

// BatchResult is the outcome of embedding a batch of texts.
type BatchResult struct {
	Embeddings []Result
	TotalTokens int
}

// Options configures a single embed call.
type Options struct {
	Dimensions int // requested output width, if the model supports resizing
	Model      string
}

// Provider is the Embedder capability contract (spec §6).
type Provider interface {
	Embed(ctx context.Context, text string, opts Options) (Result, error)
	EmbedBatch(ctx context.Context, texts []string, opts Options) (BatchResult, error)
	Dimensions(model string) (int, bool)
	SupportedModels() []string
}
