// Package openai adapts github.com/openai/openai-go/v3's Embeddings API to
// the embedder.Provider contract, grounded on the teacher's
// ai/extensions/models/openai EmbeddingModel.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tangerg/ragengine/embedder"
	"github.com/tangerg/ragengine/ragerr"
)

// knownDimensions covers the OpenAI embedding models in common use; models
// outside this table fall through to Dimensions' ok=false.
var knownDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Provider wraps one openai.Client as an embedder.Provider.
type Provider struct {
	client       *openai.Client
	defaultModel string
}

var _ embedder.Provider = (*Provider)(nil)

func New(apiKey string, defaultModel string, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("embedder/openai: apiKey is required")
	}
	requestOpts := append(append([]option.RequestOption{}, opts...), option.WithAPIKey(apiKey))
	client := openai.NewClient(requestOpts...)
	return &Provider{client: &client, defaultModel: defaultModel}, nil
}

func (p *Provider) buildParams(texts []string, opts embedder.Options) openai.EmbeddingNewParams {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	params := openai.EmbeddingNewParams{
		Model: model,
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	}
	if opts.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(opts.Dimensions))
	}
	return params
}

func (p *Provider) Embed(ctx context.Context, text string, opts embedder.Options) (embedder.Result, error) {
	batch, err := p.EmbedBatch(ctx, []string{text}, opts)
	if err != nil {
		return embedder.Result{}, err
	}
	if len(batch.Embeddings) == 0 {
		return embedder.Result{}, ragerr.ProviderError("openai: embedding returned no results", nil)
	}
	return batch.Embeddings[0], nil
}

func (p *Provider) EmbedBatch(ctx context.Context, texts []string, opts embedder.Options) (embedder.BatchResult, error) {
	if len(texts) == 0 {
		return embedder.BatchResult{}, nil
	}

	params := p.buildParams(texts, opts)
	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return embedder.BatchResult{}, ragerr.ProviderError("openai: embeddings", err)
	}

	out := embedder.BatchResult{
		Embeddings:  make([]embedder.Result, 0, len(resp.Data)),
		TotalTokens: int(resp.Usage.PromptTokens),
	}
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out.Embeddings = append(out.Embeddings, embedder.Result{
			Vector:     vec,
			Model:      resp.Model,
			Dimensions: len(vec),
		})
	}
	return out, nil
}

func (p *Provider) Dimensions(model string) (int, bool) {
	d, ok := knownDimensions[model]
	return d, ok
}

func (p *Provider) SupportedModels() []string {
	out := make([]string, 0, len(knownDimensions))
	for m := range knownDimensions {
		out = append(out, m)
	}
	return out
}
