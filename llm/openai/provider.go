// Package openai adapts github.com/openai/openai-go/v3 to the llm.Provider
// contract. Grounded on the teacher's ai/providers/openaiv2 Api wrapper: a
// thin struct around *openai.Client exposing one method per API surface,
// with request/response translation kept in the caller.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tangerg/ragengine/llm"
	"github.com/tangerg/ragengine/ragerr"
)

// Provider wraps one openai.Client as an llm.Provider.
type Provider struct {
	client       *openai.Client
	defaultModel string
}

var _ llm.Provider = (*Provider)(nil)

// New builds a Provider. apiKey is required; extra request options (base
// URL override, organization header, retry policy) pass through verbatim,
// mirroring the teacher's NewApi(cfg, opts...) signature.
func New(apiKey string, defaultModel string, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("llm/openai: apiKey is required")
	}
	requestOpts := append(append([]option.RequestOption{}, opts...), option.WithAPIKey(apiKey))
	client := openai.NewClient(requestOpts...)
	return &Provider{client: &client, defaultModel: defaultModel}, nil
}

func (p *Provider) buildParams(messages []llm.Message, opts llm.Options) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: opts.Model,
	}
	if params.Model == "" {
		params.Model = p.defaultModel
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.MaxTokens != nil {
		params.MaxTokens = openai.Int(*opts.MaxTokens)
	}
	if len(opts.Stop) > 0 {
		params.Stop.OfStringArray = opts.Stop
	}

	params.Messages = make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	return params
}

func (p *Provider) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (llm.Result, error) {
	params := p.buildParams(messages, opts)

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.Result{}, ragerr.ProviderError("openai: chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Result{}, ragerr.ProviderError("openai: chat completion returned no choices", nil)
	}

	return llm.Result{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (p *Provider) Stream(ctx context.Context, messages []llm.Message, opts llm.Options) (<-chan llm.Chunk, <-chan error) {
	chunks := make(chan llm.Chunk)
	errs := make(chan error, 1)

	params := p.buildParams(messages, opts)

	go func() {
		defer close(chunks)
		defer close(errs)

		stream := p.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case chunks <- llm.Chunk{Content: delta}:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
		if err := stream.Err(); err != nil {
			errs <- ragerr.ProviderError("openai: chat completion stream", err)
			return
		}
		chunks <- llm.Chunk{Done: true}
	}()

	return chunks, errs
}
