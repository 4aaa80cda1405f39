package rag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docere/internal/common"
)

func newTestChunker(chunkSize, overlap, minLen int) *chunker {
	cfg := common.NewDefaultConfig()
	cfg.RAG.ChunkSize = chunkSize
	cfg.RAG.OverlapSentences = overlap
	cfg.RAG.MinChunkLen = minLen
	return newChunker(cfg)
}

func TestChunkShortDocument(t *testing.T) {
	c := newTestChunker(1200, 2, 10)

	chunks := c.Chunk("Photosynthesis converts light into chemical energy. It occurs in chloroplasts.", "Biology Basics")
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].SequenceIndex)
	assert.Equal(t, "Biology Basics", chunks[0].Metadata.SourceTitle)
	assert.Contains(t, chunks[0].Text, "Photosynthesis converts light")
	assert.Contains(t, chunks[0].Text, "chloroplasts")
}

func TestChunkEmptyInput(t *testing.T) {
	c := newTestChunker(1200, 2, 80)

	assert.Empty(t, c.Chunk("", "Doc"))
	assert.Empty(t, c.Chunk("   \n\n  ", "Doc"))
}

func TestChunkRespectsBudget(t *testing.T) {
	c := newTestChunker(200, 0, 10)

	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Sentence number %d carries a fixed amount of prose. ", i)
	}

	chunks := c.Chunk(b.String(), "Doc")
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), 200+60, "chunks stay near the budget")
	}
	// Sequence indices are dense and ordered
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.SequenceIndex)
	}
}

func TestChunkCoversAllText(t *testing.T) {
	c := newTestChunker(150, 0, 10)

	var sentences []string
	for i := 0; i < 20; i++ {
		sentences = append(sentences, fmt.Sprintf("Fact %d is stated here.", i))
	}
	chunks := c.Chunk(strings.Join(sentences, " "), "Doc")

	joined := ""
	for _, chunk := range chunks {
		joined += chunk.Text + " "
	}
	for _, s := range sentences {
		assert.Contains(t, joined, s, "no sentence may be lost")
	}
}

func TestChunkOverlap(t *testing.T) {
	c := newTestChunker(160, 2, 10)

	var sentences []string
	for i := 0; i < 12; i++ {
		sentences = append(sentences, fmt.Sprintf("Statement %d has enough length to count.", i))
	}
	chunks := c.Chunk(strings.Join(sentences, " "), "Doc")
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first begins with text from its predecessor
	for i := 1; i < len(chunks); i++ {
		firstSentence := strings.SplitAfter(chunks[i].Text, ".")[0]
		assert.Contains(t, chunks[i-1].Text, strings.TrimSpace(firstSentence),
			"chunk %d must start with its predecessor's tail", i)
	}
}

func TestChunkSectionMetadata(t *testing.T) {
	c := newTestChunker(1200, 2, 10)

	text := "1. Introduction\n\nBiology studies living organisms in detail.\n\n" +
		"2. Photosynthesis\n\nPlants convert light into chemical energy every day."

	chunks := c.Chunk(text, "Doc")
	require.Len(t, chunks, 2, "headings force chunk boundaries")
	assert.Equal(t, "1. Introduction", chunks[0].Metadata.Section)
	assert.Equal(t, "2. Photosynthesis", chunks[1].Metadata.Section)
	assert.NotContains(t, chunks[0].Text, "1. Introduction", "heading lines are metadata, not chunk text")
}

func TestChunkPageTags(t *testing.T) {
	c := newTestChunker(1200, 2, 10)

	text := "[page 1]\nThe cell is the basic unit of life on earth.\n\n" +
		"[page 2]\nMitochondria produce most of the cell's energy supply."

	chunks := c.Chunk(text, "Doc")
	require.NotEmpty(t, chunks)
	assert.Equal(t, 1, chunks[0].Metadata.PageNumber)
	for _, chunk := range chunks {
		assert.NotContains(t, chunk.Text, "[page", "page tags never leak into chunk text")
	}
}

func TestChunkDropsFragments(t *testing.T) {
	c := newTestChunker(1200, 0, 80)

	chunks := c.Chunk("Ok.", "Doc")
	assert.Empty(t, chunks, "fragments below the minimum length are dropped")
}

func TestChunkHyphenationRepair(t *testing.T) {
	c := newTestChunker(1200, 0, 10)

	chunks := c.Chunk("The process of photosyn-\nthesis happens inside the leaf structure.", "Doc")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "photosynthesis")
}

func TestChunkOversizedSentence(t *testing.T) {
	c := newTestChunker(100, 0, 10)

	long := strings.Repeat("word ", 80) // one "sentence", no terminal punctuation
	chunks := c.Chunk(long, "Doc")
	require.Greater(t, len(chunks), 1, "a single oversized sentence is hard-split")
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), 100)
	}
}

func TestChunkDeterministic(t *testing.T) {
	c := newTestChunker(300, 2, 10)

	text := "3.1 Cells\n\nCells are small. They divide often. Each has a nucleus. " +
		"Organelles perform specialized work. Membranes control transport."

	first := c.Chunk(text, "Doc")
	second := c.Chunk(text, "Doc")
	assert.Equal(t, first, second)
}
