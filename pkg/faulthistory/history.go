// Copyright 2025 UMH Systems GmbH
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

package faulthistory

import (
	"github.com/united-manufacturing-hub/faultmon/pkg/metrics"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
)

// History is a bounded, ordered sequence of fault records. Unlike the log
// store it does not evict: once full, new records are silently dropped, so
// the history is append-only within capacity. The asymmetry is deliberate —
// the earliest faults of a session are the ones worth keeping.
type History struct {
	records  []models.FaultRecord
	capacity int
}

// New creates a history holding at most capacity records.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}

	return &History{
		records:  make([]models.FaultRecord, 0, capacity),
		capacity: capacity,
	}
}

// Append records a fault. It returns false when the history is full and the
// record was dropped.
func (h *History) Append(record models.FaultRecord) bool {
	if len(h.records) >= h.capacity {
		metrics.IncDroppedFaultRecord()

		return false
	}

	record.Description = models.TruncateText(record.Description, models.MaxDescriptionLength)
	h.records = append(h.records, record)

	return true
}

// ResolveAll marks every unresolved record as resolved and returns copies of
// the records that were newly resolved. Resolution is monotone: records that
// are already resolved are never touched again.
func (h *History) ResolveAll() []models.FaultRecord {
	var resolved []models.FaultRecord

	for i := range h.records {
		if h.records[i].Resolved {
			continue
		}

		h.records[i].Resolved = true
		resolved = append(resolved, h.records[i])
	}

	return resolved
}

// Records returns a copy of all stored records in insertion order.
func (h *History) Records() []models.FaultRecord {
	out := make([]models.FaultRecord, len(h.records))
	copy(out, h.records)

	return out
}

// Unresolved returns the number of records not yet resolved.
func (h *History) Unresolved() int {
	count := 0

	for i := range h.records {
		if !h.records[i].Resolved {
			count++
		}
	}

	return count
}

// Len returns the number of stored records.
func (h *History) Len() int {
	return len(h.records)
}

// Capacity returns the maximum number of records the history retains.
func (h *History) Capacity() int {
	return h.capacity
}
