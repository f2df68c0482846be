package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollectionRequiresName(t *testing.T) {
	_, err := NewCollection("", nil)
	assert.Error(t, err)
}

func TestNewCollectionDefaultsMetadata(t *testing.T) {
	c, err := NewCollection("docs", nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Metadata())
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "docs", c.Name())
}
