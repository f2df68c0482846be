package document

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// Document is a text source owned by a Collection. Deleting a Document
// cascades to its Chunks (exclusive ownership, spec §3).
type Document struct {
	id           string
	collectionID string
	sourcePath   string
	title        string
	status       Status
	contentHash  string // sha256 of content, used for dedup; empty if not computed
	chunkCount   int
	errorMessage string
}

// Builder constructs a Document, mirroring the teacher's document.Builder
// pattern (ai/commons/document.Builder) but over the §3 field set.
type Builder struct {
	collectionID string
	sourcePath   string
	title        string
	content      string // used only to derive contentHash; not stored on Document
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) WithCollectionID(id string) *Builder { b.collectionID = id; return b }
func (b *Builder) WithSourcePath(p string) *Builder     { b.sourcePath = p; return b }
func (b *Builder) WithTitle(t string) *Builder          { b.title = t; return b }
func (b *Builder) WithContent(c string) *Builder        { b.content = c; return b }

func (b *Builder) Build() (*Document, error) {
	if b.collectionID == "" {
		return nil, errors.New("document requires a collection id")
	}
	d := &Document{
		id:           uuid.NewString(),
		collectionID: b.collectionID,
		sourcePath:   b.sourcePath,
		title:        b.title,
		status:       StatusPending,
	}
	if b.content != "" {
		d.contentHash = ContentHash(b.content)
	}
	return d, nil
}

// ContentHash returns the hex-encoded SHA-256 of content, used for document
// dedup (spec §3).
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (d *Document) ID() string           { return d.id }
func (d *Document) CollectionID() string { return d.collectionID }
func (d *Document) SourcePath() string   { return d.sourcePath }
func (d *Document) Title() string        { return d.title }
func (d *Document) Status() Status       { return d.status }
func (d *Document) ContentHash() string  { return d.contentHash }
func (d *Document) ChunkCount() int      { return d.chunkCount }
func (d *Document) ErrorMessage() string { return d.errorMessage }

// Transition moves the Document to a new status, validating the transition
// per the lifecycle rules in status.go.
func (d *Document) Transition(to Status) error {
	if !ValidTransition(d.status, to) {
		return errors.New("invalid document status transition: " + string(d.status) + " -> " + string(to))
	}
	d.status = to
	if to == StatusPending {
		d.errorMessage = ""
	}
	return nil
}

// Fail marks the document failed and records the error message.
func (d *Document) Fail(msg string) error {
	if err := d.Transition(StatusFailed); err != nil {
		return err
	}
	d.errorMessage = msg
	return nil
}

// SetChunkCount updates the cached chunk count, called by the repository
// after chunking completes.
func (d *Document) SetChunkCount(n int) { d.chunkCount = n }
