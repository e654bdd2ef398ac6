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

package logstore

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/faultmon/pkg/metrics"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
)

// SessionEndMarker is appended to the log target on every flush.
const SessionEndMarker = "=== Log Session End ==="

// OperatorSink is the side channel entries of warning severity and above are
// surfaced to immediately on append. It is not part of the store's state.
type OperatorSink interface {
	Surface(entry models.LogEntry)
}

// Store is a bounded, ordered sequence of log entries backed by a ring
// buffer. At capacity, the single oldest entry is evicted before the new one
// is appended: insertion order of the remaining entries is preserved.
// Append never fails; the capacity bound is defined behavior, not an error.
type Store struct {
	entries  []models.LogEntry
	head     int // index of the oldest entry
	size     int
	capacity int
	sink     OperatorSink
}

// New creates a store holding at most capacity entries. A nil sink disables
// the operator side channel.
func New(capacity int, sink OperatorSink) *Store {
	if capacity < 1 {
		capacity = 1
	}

	return &Store{
		entries:  make([]models.LogEntry, capacity),
		capacity: capacity,
		sink:     sink,
	}
}

// Append records an entry, evicting the oldest one first when the store is
// full. Message and origin text are truncated to their bounds. Entries with
// severity >= Warning are also surfaced to the operator sink.
func (s *Store) Append(entry models.LogEntry) {
	entry.Message = models.TruncateText(entry.Message, models.MaxMessageLength)
	entry.Origin.Function = models.TruncateText(entry.Origin.Function, models.MaxFunctionLength)

	if s.size == s.capacity {
		// Overwrite the oldest slot and advance the head.
		s.head = (s.head + 1) % s.capacity
		s.size--

		metrics.IncLogEviction()
	}

	s.entries[(s.head+s.size)%s.capacity] = entry
	s.size++

	metrics.IncLogEntry(entry.Severity.String())

	if s.sink != nil && entry.Severity >= models.SeverityWarning {
		s.sink.Surface(entry)
	}
}

// Len returns the number of entries currently stored.
func (s *Store) Len() int {
	return s.size
}

// Capacity returns the maximum number of entries the store retains.
func (s *Store) Capacity() int {
	return s.capacity
}

// Entries returns a copy of all stored entries, oldest first.
func (s *Store) Entries() []models.LogEntry {
	out := make([]models.LogEntry, s.size)
	for i := 0; i < s.size; i++ {
		out[i] = s.entries[(s.head+i)%s.capacity]
	}

	return out
}

// Recent returns a copy of the up-to-n most recent entries, oldest of the
// window first.
func (s *Store) Recent(n int) []models.LogEntry {
	if n > s.size {
		n = s.size
	}

	out := make([]models.LogEntry, n)
	start := s.size - n

	for i := 0; i < n; i++ {
		out[i] = s.entries[(s.head+start+i)%s.capacity]
	}

	return out
}

// Flush writes all stored entries to w as text lines followed by the
// session-end marker. The store's contents are left untouched so the buffer
// remains inspectable after a flush.
func (s *Store) Flush(w io.Writer) error {
	for _, entry := range s.Entries() {
		_, err := fmt.Fprintf(w, "%s [%s] %s:%d %s - %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Severity,
			entry.Origin.Function,
			entry.Origin.Line,
			entry.Kind,
			entry.Message,
		)
		if err != nil {
			return fmt.Errorf("failed to write log entry: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", SessionEndMarker); err != nil {
		return fmt.Errorf("failed to write session end marker: %w", err)
	}

	return nil
}

// ZapSink surfaces entries to a zap logger at the matching level.
type ZapSink struct {
	logger *zap.SugaredLogger
}

// NewZapSink wraps a sugared logger as an operator sink.
func NewZapSink(logger *zap.SugaredLogger) *ZapSink {
	return &ZapSink{logger: logger}
}

// Surface mirrors an entry to the operator console.
func (z *ZapSink) Surface(entry models.LogEntry) {
	msg := fmt.Sprintf("%s:%d - %s", entry.Origin.Function, entry.Origin.Line, entry.Message)

	switch entry.Severity {
	case models.SeverityWarning:
		z.logger.Warn(msg)
	case models.SeverityError:
		z.logger.Error(msg)
	case models.SeverityCritical:
		// DPanic logs at a level above Error without aborting the process
		// in production configurations.
		z.logger.DPanic(msg)
	case models.SeverityDebug:
		z.logger.Debug(msg)
	case models.SeverityInfo:
		z.logger.Info(msg)
	}
}
