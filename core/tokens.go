package core

// EstimateTokens estimates the token count of a string as ceil(len/4).
// This is a cheap character-length proxy, not a tokenizer call; it is the
// single estimator used for chunk packing, meeting windowing, and embedding
// batch budgeting, so all size limits stay mutually consistent.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + 3) / 4
}
