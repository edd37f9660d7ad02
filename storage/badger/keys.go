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

package badger

import (
	"fmt"

	"github.com/planweave/recall/core"
)

const memoryKeyPrefix = "mem"

// makeMemoryKey builds the key for a stored memory row. The project segment
// is length-prefixed: project IDs are opaque strings and may contain the
// separator, so "a" and "a:b" must map to disjoint keyspaces. The content
// hash is the last segment so duplicate text within a project/source maps to
// the same key.
func makeMemoryKey(projectID string, source core.SourceType, hash uint64) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:%s:%016x", memoryKeyPrefix, len(projectID), projectID, source, hash))
}

// makeProjectPrefix builds the iterator prefix covering every row of a
// project across all source types. The length prefix guarantees the prefix
// of one project never matches keys of another, whatever characters the
// project ID contains.
func makeProjectPrefix(projectID string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:", memoryKeyPrefix, len(projectID), projectID))
}
