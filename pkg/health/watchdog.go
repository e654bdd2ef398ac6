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

package health

import "time"

// Watchdog detects a starved control loop. The loop refreshes it after every
// completed iteration; health checks observe it. An observation reports a
// timeout at most once per stale window: a loop that stays stale for several
// windows produces one timeout per window, not one per observation and not
// one overall.
type Watchdog struct {
	timeout        time.Duration
	lastRefresh    time.Time
	firedIntervals int64
}

// NewWatchdog creates a watchdog with the given stale-window length.
func NewWatchdog(timeout time.Duration) *Watchdog {
	return &Watchdog{timeout: timeout}
}

// Refresh marks the loop as alive at now and re-arms the watchdog.
func (w *Watchdog) Refresh(now time.Time) {
	w.lastRefresh = now
	w.firedIntervals = 0
}

// Observe checks staleness at now. It returns true when a new stale window
// has elapsed since the last refresh. The first observation arms the
// watchdog instead of firing.
func (w *Watchdog) Observe(now time.Time) bool {
	if w.lastRefresh.IsZero() {
		w.lastRefresh = now

		return false
	}

	staleIntervals := int64(now.Sub(w.lastRefresh) / w.timeout)
	if staleIntervals > w.firedIntervals {
		w.firedIntervals = staleIntervals

		return true
	}

	return false
}

// Timeout returns the stale-window length.
func (w *Watchdog) Timeout() time.Duration {
	return w.timeout
}
