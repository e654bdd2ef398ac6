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
	"fmt"
	"strings"
	"time"
)

// DebugReport is the operator-facing diagnostic view of the monitor: current
// state, health counters, the most recent log entries (oldest of the window
// first) and the full fault history.
type DebugReport struct {
	State              string        `json:"state"`
	Uptime             time.Duration `json:"uptime"`
	FaultCount         uint32        `json:"faultCount"`
	RecoveryCount      uint32        `json:"recoveryCount"`
	CPUUsagePercent    float64       `json:"cpuUsagePercent"`
	MemoryUsagePercent float64       `json:"memoryUsagePercent"`
	RecentLogs         []LogEntry    `json:"recentLogs"`
	FaultHistory       []FaultRecord `json:"faultHistory"`
	GeneratedAt        time.Time     `json:"generatedAt"`
}

// Render formats the report as the text block shown on the operator console.
func (r DebugReport) Render() string {
	var b strings.Builder

	b.WriteString("\n=== Debug Information ===\n")
	fmt.Fprintf(&b, "System State: %s\n", strings.ToUpper(r.State))
	fmt.Fprintf(&b, "Uptime: %d seconds\n", int64(r.Uptime.Seconds()))
	fmt.Fprintf(&b, "Fault Count: %d\n", r.FaultCount)
	fmt.Fprintf(&b, "Recovery Count: %d\n", r.RecoveryCount)
	fmt.Fprintf(&b, "CPU Usage: %.1f%%\n", r.CPUUsagePercent)
	fmt.Fprintf(&b, "Memory Usage: %.1f%%\n", r.MemoryUsagePercent)

	b.WriteString("\nRecent Log Entries:\n")

	for _, entry := range r.RecentLogs {
		fmt.Fprintf(&b, "  [%s] %s\n", entry.Severity.ShortString(), entry.Message)
	}

	b.WriteString("\nFault History:\n")

	for _, record := range r.FaultHistory {
		status := "ACTIVE"
		if record.Resolved {
			status = "RESOLVED"
		}

		fmt.Fprintf(&b, "  %s: %s\n", status, record.Description)
	}

	b.WriteString("\n")

	return b.String()
}
