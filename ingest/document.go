package ingest

import (
	"context"
	"regexp"
	"strings"

	"github.com/planweave/recall/core"
	"github.com/planweave/recall/redact"
)

// DocumentPayload is a single pre-extracted text, markdown, or HTML blob.
type DocumentPayload struct {
	Name    string         `json:"name,omitempty"`
	Format  string         `json:"format,omitempty"` // "text", "markdown", or "html"
	Content string         `json:"content"`
	Meta    map[string]any `json:"meta,omitempty"`
}

var htmlTagRE = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes tag-shaped angle-bracket runs. Not an HTML parser; good
// enough for pre-extracted page content.
func stripHTML(s string) string {
	return htmlTagRE.ReplaceAllString(s, " ")
}

// IngestDocument ingests one document blob. HTML-format content has its tags
// stripped before redaction and chunking. An empty payload after resolution
// returns zero stats with an empty-payload warning.
func (p *Pipeline) IngestDocument(ctx context.Context, projectID string, payload DocumentPayload, policy redact.Policy) (core.IngestStats, error) {
	content := payload.Content
	if strings.EqualFold(payload.Format, "html") {
		content = stripHTML(content)
	}

	if strings.TrimSpace(content) == "" {
		return core.IngestStats{
			PIITags:  map[string]int{},
			Warnings: []string{WarnEmptyPayload},
		}, nil
	}

	meta := make(map[string]any, len(payload.Meta)+2)
	for k, v := range payload.Meta {
		meta[k] = v
	}
	if payload.Name != "" {
		meta["name"] = payload.Name
	}
	if payload.Format != "" {
		meta["format"] = payload.Format
	}

	item := core.IngestItem{
		ProjectID: projectID,
		Source:    core.SourceDocument,
		SourceID:  payload.Name,
		Text:      content,
		Meta:      meta,
	}

	return p.run(ctx, projectID, core.SourceDocument, []core.IngestItem{item}, policy)
}
