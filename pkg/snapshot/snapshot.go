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

// Package snapshot decouples the single-threaded control loop from
// concurrent readers such as the debug HTTP endpoint. The loop publishes a
// deep copy of the debug report; readers get their own deep copy, so neither
// side can observe the other's mutations.
package snapshot

import (
	"sync"

	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/faultmon/pkg/logger"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
)

// Manager holds the last published debug report.
type Manager struct {
	report *models.DebugReport
	mu     sync.Mutex
	log    *zap.SugaredLogger
}

// NewManager creates an empty snapshot manager.
func NewManager() *Manager {
	return &Manager{
		log: logger.For(logger.ComponentSnapshotManager),
	}
}

// UpdateSnapshot stores a deep copy of report as the published snapshot.
func (m *Manager) UpdateSnapshot(report *models.DebugReport) {
	if report == nil {
		return
	}

	copied := &models.DebugReport{}
	if err := deepcopy.Copy(copied, report); err != nil {
		m.log.Errorw("Failed to deep copy debug report", zap.Error(err))

		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.report = copied
}

// GetSnapshot returns a deep copy of the published snapshot, or nil when
// nothing has been published yet.
func (m *Manager) GetSnapshot() *models.DebugReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.report == nil {
		return nil
	}

	copied := &models.DebugReport{}
	if err := deepcopy.Copy(copied, m.report); err != nil {
		m.log.Errorw("Failed to deep copy debug report", zap.Error(err))

		return nil
	}

	return copied
}

// GetDebugInfo implements metrics.DebugProvider.
func (m *Manager) GetDebugInfo() interface{} {
	snapshot := m.GetSnapshot()
	if snapshot == nil {
		return map[string]string{"status": "no_snapshot_published"}
	}

	return snapshot
}
