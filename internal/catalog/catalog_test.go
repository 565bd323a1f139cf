package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.True(t, c.Exists(1))
	assert.False(t, c.RequiresDetail(1))
	assert.True(t, c.RequiresDetail(99))
	assert.Equal(t, "other", c.Label(99))
	assert.Equal(t, UnknownReasonLabel, c.Label(42))
	assert.False(t, c.RequiresDetail(42))
	assert.Equal(t, 1, c.List()[0].ID)
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("- id: 1\n  label: a\n- id: 1\n  label: b\n"))
	assert.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("id: ["))
	assert.Error(t, err)
}
