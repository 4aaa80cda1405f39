// -----------------------------------------------------------------------
// Chunker - Split extracted document text into retrieval units
// -----------------------------------------------------------------------

package rag

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/models"
)

// chunker splits normalized document text into bounded chunks. Splitting
// walks a ladder: section headings first, then paragraphs, then sentences,
// so chunk boundaries land on the most natural break available. Consecutive
// chunks within a section share trailing sentences for context continuity.
type chunker struct {
	chunkSize        int
	overlapSentences int
	minChunkLen      int
}

func newChunker(config *common.Config) *chunker {
	return &chunker{
		chunkSize:        config.RAG.ChunkSize,
		overlapSentences: config.RAG.OverlapSentences,
		minChunkLen:      config.RAG.MinChunkLen,
	}
}

var (
	pageTagRe = regexp.MustCompile(`^\[page (\d+)\]$`)

	// Headings: markdown, numbered ("3.2 Cell Structure"), or short
	// all-caps lines. Terminal punctuation disqualifies a line.
	markdownHeadingRe = regexp.MustCompile(`^#{1,6}\s+\S`)
	numberedHeadingRe = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+\S`)

	hyphenBreakRe = regexp.MustCompile(`(\p{L})-\n(\p{L})`)
	spaceRunRe    = regexp.MustCompile(`[ \t]+`)

	// A sentence runs to terminal punctuation (with trailing quotes or
	// brackets) or to the end of the text.
	sentenceRe = regexp.MustCompile(`[^.!?]+(?:[.!?]+["')\]]*|$)`)
)

// sentence is the atomic chunking unit, annotated with its source position.
type sentence struct {
	text    string
	section string
	page    int
}

// Chunk splits document text into retrieval chunks. The input may carry
// [page N] tags as emitted by the PDF extractor; they set chunk metadata and
// never appear in chunk text. Deterministic: identical input yields identical
// chunks.
func (c *chunker) Chunk(text, sourceTitle string) []models.Chunk {
	sentences := c.sentences(normalize(text))
	if len(sentences) == 0 {
		return nil
	}

	var chunks []models.Chunk
	var current []sentence

	flush := func() {
		if len(current) == 0 {
			return
		}
		body := joinSentences(current)
		if len(body) >= c.minChunkLen {
			chunks = append(chunks, models.Chunk{
				Text:          body,
				SequenceIndex: len(chunks),
				Metadata: models.ChunkMetadata{
					SourceTitle: sourceTitle,
					Section:     current[0].section,
					PageNumber:  current[0].page,
				},
			})
		}
		current = nil
	}

	currentLen := func() int {
		n := 0
		for _, s := range current {
			n += len(s.text) + 1
		}
		return n
	}

	for _, s := range sentences {
		sectionBreak := len(current) > 0 && s.section != current[len(current)-1].section
		overBudget := len(current) > 0 && currentLen()+len(s.text) > c.chunkSize

		if sectionBreak {
			flush()
		} else if overBudget {
			carry := c.overlapTail(current)
			flush()
			current = carry
		}
		current = append(current, s)
	}
	flush()

	return chunks
}

// overlapTail returns the trailing sentences carried into the next chunk.
// The carried text must leave room for new material, so oversized tails are
// trimmed from the front.
func (c *chunker) overlapTail(sentences []sentence) []sentence {
	if c.overlapSentences <= 0 {
		return nil
	}
	start := len(sentences) - c.overlapSentences
	if start < 0 {
		start = 0
	}
	tail := append([]sentence(nil), sentences[start:]...)
	for len(tail) > 0 && len(joinSentences(tail)) > c.chunkSize/2 {
		tail = tail[1:]
	}
	return tail
}

// sentences flattens the document into annotated sentences, tracking the
// current page tag and section heading as it goes.
func (c *chunker) sentences(text string) []sentence {
	var result []sentence
	section := ""
	page := 0

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		var proseLines []string
		for _, line := range strings.Split(para, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if m := pageTagRe.FindStringSubmatch(line); m != nil {
				page, _ = strconv.Atoi(m[1])
				continue
			}
			if isHeading(line) {
				section = strings.TrimLeft(line, "# ")
				continue
			}
			proseLines = append(proseLines, line)
		}
		if len(proseLines) == 0 {
			continue
		}

		prose := strings.Join(proseLines, " ")
		for _, raw := range sentenceRe.FindAllString(prose, -1) {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			for _, piece := range c.hardSplit(raw) {
				result = append(result, sentence{text: piece, section: section, page: page})
			}
		}
	}
	return result
}

// hardSplit breaks a sentence that alone exceeds the chunk budget, at word
// boundaries. Legal boilerplate and tables-flattened-to-prose produce these.
func (c *chunker) hardSplit(text string) []string {
	if len(text) <= c.chunkSize {
		return []string{text}
	}
	var pieces []string
	words := strings.Fields(text)
	var b strings.Builder
	for _, w := range words {
		if b.Len() > 0 && b.Len()+len(w)+1 > c.chunkSize {
			pieces = append(pieces, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	if b.Len() > 0 {
		pieces = append(pieces, b.String())
	}
	return pieces
}

// isHeading reports whether a line reads as a section heading rather than
// prose.
func isHeading(line string) bool {
	if len(line) > 80 || strings.HasSuffix(line, ".") {
		return false
	}
	if markdownHeadingRe.MatchString(line) || numberedHeadingRe.MatchString(line) {
		return true
	}
	// Short all-caps lines ("CHAPTER TWO", "PHOTOSYNTHESIS")
	hasLetter := strings.IndexFunc(line, func(r rune) bool {
		return r >= 'A' && r <= 'Z'
	}) >= 0
	return hasLetter && len(line) <= 60 && line == strings.ToUpper(line)
}

// normalize repairs extraction artifacts before splitting: CRLF, words
// hyphenated across line breaks, and runs of spaces.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return text
}

func joinSentences(sentences []sentence) string {
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = s.text
	}
	return strings.Join(parts, " ")
}
