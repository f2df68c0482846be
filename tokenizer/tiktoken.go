package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"
)

// Tiktoken is an Estimator backed by OpenAI's tiktoken encodings, adapted
// from the teacher's ai/tokenizer.Tiktoken but narrowed to plain text since
// GraphRAG and the ingestion pipeline never tokenize media.
type Tiktoken struct {
	encodingName string
	encoding     *tiktoken.Tiktoken
}

var _ Estimator = (*Tiktoken)(nil)

// NewTiktoken loads the named encoding (e.g. "cl100k_base"). Callers that
// want the common OpenAI default should pass tiktoken.MODEL_CL100K_BASE.
func NewTiktoken(encodingName string) (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &Tiktoken{encodingName: encodingName, encoding: enc}, nil
}

// MustCL100KBase builds the CL100K_BASE encoding or panics; used for
// package-level defaults where a hard failure at init time is acceptable.
func MustCL100KBase() *Tiktoken {
	t, err := NewTiktoken(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tiktoken) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

func (t *Tiktoken) Encode(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}

func (t *Tiktoken) Decode(tokens []int) string {
	return t.encoding.Decode(tokens)
}

func (t *Tiktoken) EncodingName() string { return t.encodingName }
