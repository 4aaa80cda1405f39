package rag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docere/internal/interfaces"
)

func TestDeriveThreadTitleShortQuestion(t *testing.T) {
	assert.Equal(t, "What is osmosis?", deriveThreadTitle("  What is osmosis?  "))
}

func TestDeriveThreadTitleCutsOnWordBoundary(t *testing.T) {
	question := "Can you explain how photosynthesis works inside the chloroplast of a plant cell?"

	title := deriveThreadTitle(question)
	assert.True(t, strings.HasSuffix(title, "..."))
	assert.LessOrEqual(t, len([]rune(title)), 63)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(title, "..."), " "),
		"cut lands on a word boundary, not mid-word")
}

func TestDeriveThreadTitleKeepsRunesIntact(t *testing.T) {
	question := strings.Repeat("光合作用将光能转化为化学能 ", 10)

	title := deriveThreadTitle(question)
	assert.True(t, utf8.ValidString(title), "titles must never contain split runes")
	assert.True(t, strings.HasSuffix(title, "..."))
}

func TestSourceExcerptKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("é", excerptLen+50)

	sources := buildSources([]interfaces.ScoredEntry{{
		VectorEntry: interfaces.VectorEntry{ContentID: "content_1", Text: text},
		Similarity:  0.9,
	}})
	require.Len(t, sources, 1)
	assert.True(t, utf8.ValidString(sources[0].Excerpt))
	assert.True(t, strings.HasSuffix(sources[0].Excerpt, "..."))
	assert.Equal(t, excerptLen+3, len([]rune(sources[0].Excerpt)))
}

func TestSourceExcerptShortTextUntouched(t *testing.T) {
	sources := buildSources([]interfaces.ScoredEntry{{
		VectorEntry: interfaces.VectorEntry{ContentID: "content_1", Text: "short chunk"},
		Similarity:  0.5,
	}})
	require.Len(t, sources, 1)
	assert.Equal(t, "short chunk", sources[0].Excerpt)
}

func TestFallbackAnswerHeuristic(t *testing.T) {
	contextText := "Photosynthesis converts light into chemical energy inside the cell."

	assert.Equal(t, relatedMaterialAnswer, fallbackAnswer("What is photosynthesis?", contextText))
	assert.Equal(t, noMaterialAnswer, fallbackAnswer("What about mitosis?", contextText))
	// Words under four letters never count as substantive
	assert.Equal(t, noMaterialAnswer, fallbackAnswer("is it the one?", contextText))
}
