package ingest

import (
	"context"
	"strings"

	"github.com/planweave/recall/core"
	"github.com/planweave/recall/redact"
)

// ChatMessage is one message from a chat log export.
type ChatMessage struct {
	Text      string `json:"text"`
	User      string `json:"user,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Timestamp string `json:"ts,omitempty"`
}

// ChatPayload is a batch of chat messages to ingest.
type ChatPayload struct {
	Messages []ChatMessage `json:"messages"`
}

// IngestChat ingests a batch of chat messages. Messages with empty text are
// skipped; a payload yielding no usable messages returns zero stats with a
// no-messages warning.
func (p *Pipeline) IngestChat(ctx context.Context, projectID string, payload ChatPayload, policy redact.Policy) (core.IngestStats, error) {
	items := make([]core.IngestItem, 0, len(payload.Messages))

	for _, msg := range payload.Messages {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}

		meta := map[string]any{}
		if msg.Channel != "" {
			meta["channel"] = msg.Channel
		}
		if msg.User != "" {
			meta["user"] = msg.User
		}
		if msg.Timestamp != "" {
			meta["ts"] = msg.Timestamp
		}

		items = append(items, core.IngestItem{
			ProjectID: projectID,
			Source:    core.SourceChat,
			SourceID:  chatSourceID(msg),
			Text:      msg.Text,
			Meta:      meta,
		})
	}

	if len(items) == 0 {
		return core.IngestStats{
			PIITags:  map[string]int{},
			Warnings: []string{WarnNoMessages},
		}, nil
	}

	return p.run(ctx, projectID, core.SourceChat, items, policy)
}

// chatSourceID builds a traceability identifier from channel and timestamp,
// falling back to the channel alone.
func chatSourceID(msg ChatMessage) string {
	if msg.Channel != "" && msg.Timestamp != "" {
		return msg.Channel + ":" + msg.Timestamp
	}
	return msg.Channel
}
