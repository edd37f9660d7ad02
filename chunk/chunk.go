// Copyright 2025 Planweave
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import (
	"regexp"
	"strings"

	"github.com/planweave/recall/core"
)

// DefaultTokenLimit is the soft per-chunk budget in estimated tokens.
const DefaultTokenLimit = 800

var paragraphRE = regexp.MustCompile(`\n{2,}`)

// Split normalizes an item's text and packs it into bounded chunks.
//
// Line endings are normalized first, then the text is split into paragraphs
// on blank-line boundaries. Paragraphs are greedily packed into chunks that
// stay under the soft token limit; a paragraph that alone exceeds the limit
// is split at sentence boundaries and its sentences re-packed. Greedy fill is
// intentional: predictable, streaming-friendly, and nowhere near optimal
// bin packing.
//
// Each chunk's meta is the item's meta plus "chunk_index" (zero-based,
// monotonic). Non-empty input always yields at least one chunk; empty or
// whitespace-only input yields none.
func Split(item core.IngestItem, limit int) []core.Chunk {
	if limit <= 0 {
		limit = DefaultTokenLimit
	}

	text := normalize(item.Text)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	// Sentence-split any paragraph that alone blows the budget.
	var pieces []string
	for _, paragraph := range splitParagraphs(text) {
		if core.EstimateTokens(paragraph) > limit {
			pieces = append(pieces, packSentences(splitSentences(paragraph), limit)...)
		} else {
			pieces = append(pieces, paragraph)
		}
	}

	var chunks []core.Chunk
	var buf []string
	bufTokens := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		chunks = append(chunks, newChunk(item, strings.Join(buf, "\n\n"), len(chunks)))
		buf = buf[:0]
		bufTokens = 0
	}

	for _, piece := range pieces {
		tokens := core.EstimateTokens(piece)
		// Flush before the buffer would overflow, then fill eagerly.
		if len(buf) > 0 && bufTokens+tokens > limit {
			flush()
		}
		buf = append(buf, piece)
		bufTokens += tokens
		if bufTokens >= limit {
			flush()
		}
	}
	flush()

	if len(chunks) == 0 {
		// Pathological input that produced no pieces; keep it whole.
		chunks = append(chunks, newChunk(item, trimmed, 0))
	}

	return chunks
}

func newChunk(item core.IngestItem, text string, index int) core.Chunk {
	meta := make(map[string]any, len(item.Meta)+1)
	for k, v := range item.Meta {
		meta[k] = v
	}
	meta["chunk_index"] = index
	return core.Chunk{Text: text, Meta: meta}
}

// normalize converts CRLF and bare CR line endings to LF.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// splitParagraphs splits on runs of two or more newlines, trimming each
// paragraph and dropping empty ones.
func splitParagraphs(text string) []string {
	parts := paragraphRE.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitSentences splits a paragraph at sentence-ending punctuation followed
// by whitespace. Runs of punctuation ("?!", "...") stay with their sentence.
func splitSentences(paragraph string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(paragraph); i++ {
		if !isSentenceEnd(paragraph[i]) {
			continue
		}
		end := i + 1
		for end < len(paragraph) && isSentenceEnd(paragraph[end]) {
			end++
		}
		if end < len(paragraph) && !isSpace(paragraph[end]) {
			// Punctuation mid-word (e.g. "v1.2"), not a boundary.
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(paragraph[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		for end < len(paragraph) && isSpace(paragraph[end]) {
			end++
		}
		start = end
		i = end - 1
	}

	if start < len(paragraph) {
		if s := strings.TrimSpace(paragraph[start:]); s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

// packSentences greedily re-packs sentences into pieces that individually
// stay under the limit. A single sentence over the limit is kept whole; it
// has no smaller unit to split into.
func packSentences(sentences []string, limit int) []string {
	var pieces []string
	var buf []string
	bufTokens := 0

	for _, sentence := range sentences {
		tokens := core.EstimateTokens(sentence)
		if len(buf) > 0 && bufTokens+tokens > limit {
			pieces = append(pieces, strings.Join(buf, " "))
			buf = buf[:0]
			bufTokens = 0
		}
		buf = append(buf, sentence)
		bufTokens += tokens
	}
	if len(buf) > 0 {
		pieces = append(pieces, strings.Join(buf, " "))
	}

	return pieces
}

func isSentenceEnd(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}
