package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchCmpOperators(t *testing.T) {
	meta := map[string]any{"status": "published", "views": 42}

	assert.True(t, Match(Eq("status", "published"), meta))
	assert.False(t, Match(Eq("status", "draft"), meta))
	assert.True(t, Match(Neq("status", "draft"), meta))
	assert.True(t, Match(Gt("views", 10), meta))
	assert.False(t, Match(Gt("views", 100), meta))
	assert.True(t, Match(Gte("views", 42), meta))
	assert.True(t, Match(Lt("views", 100), meta))
	assert.True(t, Match(Lte("views", 42), meta))
}

func TestMatchMissingFieldIsFalse(t *testing.T) {
	meta := map[string]any{"status": "published"}
	assert.False(t, Match(Eq("missing", "x"), meta))
}

func TestMatchInAndNotIn(t *testing.T) {
	meta := map[string]any{"tag": "go"}
	assert.True(t, Match(In("tag", "go", "rust"), meta))
	assert.False(t, Match(In("tag", "python", "rust"), meta))
	assert.True(t, Match(NotIn("tag", "python", "rust"), meta))
}

func TestMatchAndOrNot(t *testing.T) {
	meta := map[string]any{"status": "published", "views": 42}

	assert.True(t, Match(All(Eq("status", "published"), Gt("views", 10)), meta))
	assert.False(t, Match(All(Eq("status", "published"), Gt("views", 100)), meta))

	assert.True(t, Match(Any(Eq("status", "draft"), Gt("views", 10)), meta))
	assert.False(t, Match(Any(Eq("status", "draft"), Gt("views", 100)), meta))

	assert.False(t, Match(Negate(Eq("status", "published")), meta))
	assert.True(t, Match(Negate(Eq("status", "draft")), meta))
}

func TestMatchNilExprAlwaysMatches(t *testing.T) {
	assert.True(t, Match(nil, map[string]any{}))
}

func TestMatchEmptyOrIsFalse(t *testing.T) {
	assert.False(t, Match(Or{}, map[string]any{}))
}

func TestStringRendersSQLLike(t *testing.T) {
	e := All(Eq("status", "published"), Gt("views", 10))
	s := String(e)
	assert.Contains(t, s, "status = published")
	assert.Contains(t, s, "views > 10")
	assert.Contains(t, s, "AND")
}

func TestStringRendersNot(t *testing.T) {
	s := String(Negate(Eq("status", "draft")))
	assert.Contains(t, s, "NOT (")
	assert.Contains(t, s, "status = draft")
}
