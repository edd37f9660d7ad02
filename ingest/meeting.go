package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/planweave/recall/core"
	"github.com/planweave/recall/redact"
)

// Meeting windows target this estimated-token range. A window flushes once it
// reaches the low end, or before a segment would push it past the high end.
const (
	meetingWindowLowTokens  = 600
	meetingWindowHighTokens = 900
)

// MeetingSegment is one speaker-attributed piece of a transcript.
type MeetingSegment struct {
	Speaker   string `json:"speaker,omitempty"`
	Text      string `json:"text"`
	Timestamp string `json:"ts,omitempty"`
}

// MeetingPayload is an ordered meeting transcript.
type MeetingPayload struct {
	Segments []MeetingSegment `json:"segments"`
}

// meetingWindow accumulates consecutive segments until the token range is
// satisfied. Individual segments are usually too short to be useful retrieval
// units on their own.
type meetingWindow struct {
	lines    []string
	speakers []string
	startTS  string
	endTS    string
	tokens   int
}

func (w *meetingWindow) add(seg MeetingSegment, line string) {
	if len(w.lines) == 0 {
		w.startTS = seg.Timestamp
	}
	w.lines = append(w.lines, line)
	w.endTS = seg.Timestamp
	w.tokens += core.EstimateTokens(line)

	for _, s := range w.speakers {
		if s == seg.Speaker {
			return
		}
	}
	w.speakers = append(w.speakers, seg.Speaker)
}

// speaker collapses the window's speaker set: the single speaker when there
// is exactly one, otherwise the literal "multiple".
func (w *meetingWindow) speaker() string {
	if len(w.speakers) == 1 {
		return w.speakers[0]
	}
	return "multiple"
}

func (w *meetingWindow) toItem(projectID string, index int) core.IngestItem {
	sourceID := w.startTS
	if sourceID == "" {
		sourceID = fmt.Sprintf("window-%d", index)
	}

	meta := map[string]any{
		"speaker": w.speaker(),
	}
	if w.startTS != "" {
		meta["span_start"] = w.startTS
	}
	if w.endTS != "" {
		meta["span_end"] = w.endTS
	}

	return core.IngestItem{
		ProjectID: projectID,
		Source:    core.SourceMeeting,
		SourceID:  sourceID,
		Text:      strings.Join(w.lines, "\n"),
		Meta:      meta,
	}
}

// IngestMeeting ingests a speaker-attributed transcript. Consecutive segments
// are grouped into estimated-token windows before redaction and chunking; an
// empty transcript returns zero stats with a no-transcript warning.
func (p *Pipeline) IngestMeeting(ctx context.Context, projectID string, payload MeetingPayload, policy redact.Policy) (core.IngestStats, error) {
	items := windowTranscript(projectID, payload.Segments)
	if len(items) == 0 {
		return core.IngestStats{
			PIITags:  map[string]int{},
			Warnings: []string{WarnNoTranscript},
		}, nil
	}

	return p.run(ctx, projectID, core.SourceMeeting, items, policy)
}

// windowTranscript groups segments into windows of roughly
// [meetingWindowLowTokens, meetingWindowHighTokens] estimated tokens.
// A single oversized segment still gets its own window.
func windowTranscript(projectID string, segments []MeetingSegment) []core.IngestItem {
	var items []core.IngestItem
	window := &meetingWindow{}

	flush := func() {
		if len(window.lines) == 0 {
			return
		}
		items = append(items, window.toItem(projectID, len(items)))
		window = &meetingWindow{}
	}

	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}

		line := seg.Text
		if seg.Speaker != "" {
			line = seg.Speaker + ": " + seg.Text
		}
		lineTokens := core.EstimateTokens(line)

		if window.tokens > 0 && window.tokens+lineTokens > meetingWindowHighTokens {
			flush()
		}
		window.add(seg, line)
		if window.tokens >= meetingWindowLowTokens {
			flush()
		}
	}
	flush()

	return items
}
