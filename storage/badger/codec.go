package badger

import (
	"encoding/json"
	"fmt"

	"github.com/planweave/recall/core"
	"github.com/planweave/recall/storage"
)

// memoryValue is the on-disk representation of a memory row. The source type
// travels with the value so rows stay self-describing when read back through
// a project-wide iterator.
type memoryValue struct {
	Source  core.SourceType `json:"source"`
	Text    string          `json:"text"`
	Vector  []float32       `json:"vector,omitempty"`
	PIITags []string        `json:"pii_tags,omitempty"`
	Lineage map[string]any  `json:"lineage,omitempty"`
}

func marshalMemoryRow(source core.SourceType, row *core.MemoryRow) ([]byte, error) {
	data, err := json.Marshal(memoryValue{
		Source:  source,
		Text:    row.Text,
		Vector:  row.Vector,
		PIITags: row.PIITags,
		Lineage: row.Lineage,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}
	return data, nil
}

func unmarshalMemoryRow(data []byte) (*core.MemoryRow, core.SourceType, error) {
	var value memoryValue
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, "", fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}
	return &core.MemoryRow{
		Text:    value.Text,
		Vector:  value.Vector,
		PIITags: value.PIITags,
		Lineage: value.Lineage,
	}, value.Source, nil
}
