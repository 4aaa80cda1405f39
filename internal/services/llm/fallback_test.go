package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbeddingDeterministic(t *testing.T) {
	a := HashEmbedding("photosynthesis converts light", 384)
	b := HashEmbedding("photosynthesis converts light", 384)

	require.Len(t, a, 384)
	assert.Equal(t, a, b, "identical text must produce identical vectors")
}

func TestHashEmbeddingDiffersByContent(t *testing.T) {
	a := HashEmbedding("cell membranes", 384)
	b := HashEmbedding("mitochondria", 384)

	assert.NotEqual(t, a, b)
}

func TestHashEmbeddingBounds(t *testing.T) {
	vector := HashEmbedding("any text at all", 64)

	require.Len(t, vector, 64)
	for i, v := range vector {
		assert.GreaterOrEqual(t, v, float32(0), "index %d", i)
		assert.LessOrEqual(t, v, float32(1), "index %d", i)
	}

	// Cycled fill: position i repeats every 16 bytes of the digest
	full := HashEmbedding("any text at all", 384)
	assert.Equal(t, full[0], full[16])
	assert.Equal(t, full[5], full[21])
}

func TestHashEmbeddingZeroDimension(t *testing.T) {
	assert.Nil(t, HashEmbedding("text", 0))
}
