package graphrag

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/tidwall/gjson"

	"github.com/tangerg/ragengine/llm"
	"github.com/tangerg/ragengine/telemetry"
)

const extractionSystemPrompt = `Extract entities and relationships from the text.

Allowed entity types: Module, Class, Function, Variable, Concept, Person, Organization, Other.
Allowed relationship types: CALLS, USES, EXTENDS, IMPLEMENTS, CONTAINS, DEPENDS_ON, RELATED_TO, CREATED_BY.

Reply with only JSON in this shape, no prose:
{"entities": [{"name": "...", "type": "...", "description": "..."}], "relationships": [{"source": "...", "target": "...", "type": "...", "description": "..."}]}`

// Extractor pulls entities and relationships out of chunk text via an LLM
// (spec §4.8).
type Extractor struct {
	LLM      llm.Provider
	Model    string
	Reporter telemetry.Reporter
}

func NewExtractor(provider llm.Provider, model string, reporter telemetry.Reporter) *Extractor {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}
	return &Extractor{LLM: provider, Model: model, Reporter: reporter}
}

// Extract runs one extraction call over text and parses its JSON output,
// tolerating surrounding prose by locating the first balanced {...} region
// and dropping invalid or name-less records silently (spec §4.8).
func (e *Extractor) Extract(ctx context.Context, text string) (Extraction, error) {
	span := telemetry.Start(ctx, e.Reporter, "rag.step", "graphrag.extract", map[string]any{})

	resp, err := e.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: extractionSystemPrompt},
		{Role: llm.RoleUser, Content: text},
	}, llm.Options{Model: e.Model})
	if err != nil {
		span.Exception(err, nil)
		return Extraction{}, err
	}

	raw, ok := firstBalancedObject(resp.Content)
	if !ok {
		span.Exception(errNoBalancedObject, nil)
		return Extraction{}, errNoBalancedObject
	}

	out := parseExtraction(raw)
	span.Stop(map[string]any{"entities": len(out.Entities), "relationships": len(out.Relationships)})
	return out, nil
}

func parseExtraction(raw string) Extraction {
	obj := gjson.Parse(raw)
	var out Extraction

	obj.Get("entities").ForEach(func(_, v gjson.Result) bool {
		name := strings.TrimSpace(v.Get("name").String())
		if name == "" {
			return true
		}
		t := EntityType(v.Get("type").String())
		if !validEntityTypes[t] {
			t = EntityOther
		}
		out.Entities = append(out.Entities, Entity{
			Name:        name,
			Type:        t,
			Description: v.Get("description").String(),
		})
		return true
	})

	obj.Get("relationships").ForEach(func(_, v gjson.Result) bool {
		source := strings.TrimSpace(v.Get("source").String())
		target := strings.TrimSpace(v.Get("target").String())
		if source == "" || target == "" {
			return true
		}
		t := RelationshipType(v.Get("type").String())
		if !validRelationshipTypes[t] {
			return true
		}
		out.Relationships = append(out.Relationships, Relationship{
			Source:      source,
			Target:      target,
			Type:        t,
			Description: v.Get("description").String(),
		})
		return true
	})

	return out
}

// firstBalancedObject scans s for the first '{' and returns the smallest
// well-formed JSON-object substring that balances it, ignoring braces
// inside quoted strings.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string, ignore structural characters
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ExtractBatchOptions configures bounded-concurrency batch extraction
// (spec §4.8).
type ExtractBatchOptions struct {
	MaxConcurrency int           // default 5
	RateLimit      time.Duration // inter-batch sleep, default 100ms
}

func (o ExtractBatchOptions) maxConcurrency() int {
	if o.MaxConcurrency > 0 {
		return o.MaxConcurrency
	}
	return 5
}

func (o ExtractBatchOptions) rateLimit() time.Duration {
	if o.RateLimit > 0 {
		return o.RateLimit
	}
	return 100 * time.Millisecond
}

// ExtractBatch runs Extract over every text with bounded concurrency via an
// ants pool, sleeping rate_limit between batches. A failure on one chunk is
// dropped; the batch as a whole still succeeds (spec §4.8).
func (e *Extractor) ExtractBatch(ctx context.Context, texts []string, opts ExtractBatchOptions) ([]Extraction, error) {
	pool, err := ants.NewPool(opts.maxConcurrency())
	if err != nil {
		return nil, fmt.Errorf("graphrag: creating extraction pool: %w", err)
	}
	defer pool.Release()

	results := make([]Extraction, len(texts))
	ok := make([]bool, len(texts))

	batchSize := opts.maxConcurrency()
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			i := i
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				out, err := e.Extract(ctx, texts[i])
				if err != nil {
					return
				}
				results[i] = out
				ok[i] = true
			})
			if submitErr != nil {
				wg.Done()
			}
		}
		wg.Wait()

		if end < len(texts) {
			time.Sleep(opts.rateLimit())
		}
	}

	out := make([]Extraction, 0, len(texts))
	for i, v := range ok {
		if v {
			out = append(out, results[i])
		}
	}
	return out, nil
}
