// Package document holds the Collection, Document and Chunk entities of
// spec §3, plus the builders used to construct them validly.
package document

import (
	"errors"

	"github.com/google/uuid"
)

// Collection is a named group of Documents. document_count is virtual: it is
// computed by the repository, never stored on the value itself.
type Collection struct {
	id       string
	name     string
	metadata map[string]any
}

func NewCollection(name string, metadata map[string]any) (*Collection, error) {
	if name == "" {
		return nil, errors.New("collection name cannot be empty")
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Collection{
		id:       uuid.NewString(),
		name:     name,
		metadata: metadata,
	}, nil
}

func (c *Collection) ID() string              { return c.id }
func (c *Collection) Name() string            { return c.name }
func (c *Collection) Metadata() map[string]any { return c.metadata }
