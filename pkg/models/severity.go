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

// Severity is the ordered importance level of a log entry.
// Levels are comparable: Debug < Info < Warning < Error < Critical.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the canonical upper-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARN"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ShortString returns the three-letter tag used in the debug report.
func (s Severity) ShortString() string {
	switch s {
	case SeverityDebug:
		return "DBG"
	case SeverityInfo:
		return "INF"
	case SeverityWarning:
		return "WRN"
	case SeverityError:
		return "ERR"
	case SeverityCritical:
		return "CRT"
	default:
		return "UNK"
	}
}
