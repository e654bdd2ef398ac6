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

package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxMessageLength bounds the message text of a log entry.
	MaxMessageLength = 256
	// MaxFunctionLength bounds the origin function name of a log entry.
	MaxFunctionLength = 64
	// MaxDescriptionLength bounds the description of a fault record.
	MaxDescriptionLength = 128
)

// Origin identifies where a log entry was produced.
type Origin struct {
	Function string `json:"function"`
	Line     int    `json:"line"`
}

// LogEntry is a single operational log event. Entries are immutable once
// appended to the log store.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Kind      ErrorKind `json:"errorKind"`
	Message   string    `json:"message"`
	Origin    Origin    `json:"origin"`
}

// FaultRecord tracks a single injected fault. Records are created by the
// fault injector and mutated only by the recovery coordinator, which flips
// Resolved to true. Resolved is monotone: it never reverts to false.
type FaultRecord struct {
	ID          uuid.UUID `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        FaultKind `json:"faultKind"`
	ErrorKind   ErrorKind `json:"errorKind"`
	Resolved    bool      `json:"resolved"`
	Description string    `json:"description"`
}

// HealthSnapshot is the scalar health view of the system. It is fully owned
// and exclusively mutated by the health tracker and the state machine.
type HealthSnapshot struct {
	State              string        `json:"state"`
	Uptime             time.Duration `json:"uptime"`
	FaultCount         uint32        `json:"faultCount"`
	RecoveryCount      uint32        `json:"recoveryCount"`
	CPUUsagePercent    float64       `json:"cpuUsagePercent"`
	MemoryUsagePercent float64       `json:"memoryUsagePercent"`
	LastHealthCheck    time.Time     `json:"lastHealthCheck"`
}

// TruncateText bounds free-form text to max bytes. Entries and records
// store bounded text only.
func TruncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max]
}
