package core

import (
	"testing"
)

func TestContentHash(t *testing.T) {
	tests := []struct {
		name    string
		project string
		source  SourceType
		text    string
	}{
		{
			name:    "same inputs produce same hash",
			project: "proj-1",
			source:  SourceChat,
			text:    "test content",
		},
		{
			name:    "empty text",
			project: "proj-1",
			source:  SourceDocument,
			text:    "",
		},
		{
			name:    "long content",
			project: "proj-2",
			source:  SourceMeeting,
			text:    "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1 := ContentHash(tt.project, tt.source, tt.text)
			h2 := ContentHash(tt.project, tt.source, tt.text)

			if h1 != h2 {
				t.Errorf("ContentHash() produced different hashes for same inputs: %d vs %d", h1, h2)
			}
		})
	}
}

func TestContentHash_Different(t *testing.T) {
	base := ContentHash("proj-1", SourceChat, "content")

	if ContentHash("proj-1", SourceChat, "other content") == base {
		t.Errorf("ContentHash() produced same hash for different text")
	}
	if ContentHash("proj-2", SourceChat, "content") == base {
		t.Errorf("ContentHash() produced same hash for different project")
	}
	if ContentHash("proj-1", SourceDocument, "content") == base {
		t.Errorf("ContentHash() produced same hash for different source type")
	}
}

func TestContentHash_FieldBoundaries(t *testing.T) {
	// Concatenation ambiguity: ("ab","c") must not collide with ("a","bc").
	h1 := ContentHash("ab", SourceChat, "c")
	h2 := ContentHash("a", SourceChat, "bc")
	if h1 == h2 {
		t.Errorf("ContentHash() collides across field boundaries")
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "one char", text: "a", want: 1},
		{name: "four chars", text: "abcd", want: 1},
		{name: "five chars", text: "abcde", want: 2},
		{name: "eight chars", text: "abcdefgh", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
