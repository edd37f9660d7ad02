// Package openai implements the ai.Embedder interface using OpenAI-compatible
// embedding APIs via langchaingo. It adds token-budgeted batching, retry with
// exponential backoff, and normalization of provider vectors to the target
// dimensionality on top of the raw client.
package openai
