// Package ai defines the embedding boundary of the ingestion pipeline: the
// Embedder interface, provider configuration, and the retry policy applied
// to transient provider failures. Concrete implementations live in
// subpackages (ai/openai for OpenAI-compatible services, ai/mock for tests).
package ai
