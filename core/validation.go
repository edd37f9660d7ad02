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


package core

import "fmt"

// ValidateIngestItem validates an IngestItem according to domain rules.
//
// Validation rules:
//   - ProjectID must not be empty
//   - Source must be a known SourceType
//
// NOT validated:
//   - Text (empty text is legal; the ingestors skip such items with a warning)
//   - SourceID and Meta (optional by design)
func ValidateIngestItem(item *IngestItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidIngestItem)
	}

	if item.ProjectID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIngestItem, ErrEmptyProjectID)
	}

	if err := ValidateSourceType(item.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIngestItem, err)
	}

	return nil
}

// ValidateSourceType validates that a SourceType has a known value.
func ValidateSourceType(source SourceType) error {
	switch source {
	case SourceChat, SourceMeeting, SourceDocument, SourceTabular:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidSourceType, source)
}
