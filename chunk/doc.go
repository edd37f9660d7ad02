// Package chunk converts a source record's text into an ordered sequence of
// bounded chunks using token-budget packing. Paragraph boundaries are
// preserved where possible; oversized paragraphs fall back to sentence
// splitting. Token counts are estimated with core.EstimateTokens, not a real
// tokenizer.
package chunk
