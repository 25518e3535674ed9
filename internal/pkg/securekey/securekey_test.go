package securekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUnique(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Greater(t, len(a), 64)
}

func TestHash(t *testing.T) {
	h := Hash("key")
	assert.Len(t, h, 64)
	assert.Equal(t, h, Hash("key"))
	assert.NotEqual(t, h, Hash("key2"))
}
