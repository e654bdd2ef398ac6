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

package snapshot_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/united-manufacturing-hub/faultmon/pkg/fsm/availability"
	"github.com/united-manufacturing-hub/faultmon/pkg/models"
	"github.com/united-manufacturing-hub/faultmon/pkg/snapshot"
)

func sampleReport() *models.DebugReport {
	return &models.DebugReport{
		State:         availability.StateRunning,
		Uptime:        42 * time.Second,
		FaultCount:    1,
		RecoveryCount: 1,
		RecentLogs: []models.LogEntry{
			{Severity: models.SeverityInfo, Message: "Monitor initialized"},
		},
		GeneratedAt: time.Now(),
	}
}

var _ = Describe("Manager", func() {
	var manager *snapshot.Manager

	BeforeEach(func() {
		manager = snapshot.NewManager()
	})

	It("returns nil before the first publish", func() {
		Expect(manager.GetSnapshot()).To(BeNil())
	})

	It("round-trips a published report", func() {
		manager.UpdateSnapshot(sampleReport())

		got := manager.GetSnapshot()
		Expect(got).NotTo(BeNil())
		Expect(got.State).To(Equal(availability.StateRunning))
		Expect(got.Uptime).To(Equal(42 * time.Second))
		Expect(got.RecentLogs).To(HaveLen(1))
	})

	It("isolates the published snapshot from later writer mutations", func() {
		report := sampleReport()
		manager.UpdateSnapshot(report)

		report.State = availability.StateFault
		report.RecentLogs[0].Message = "mutated"

		got := manager.GetSnapshot()
		Expect(got.State).To(Equal(availability.StateRunning))
		Expect(got.RecentLogs[0].Message).To(Equal("Monitor initialized"))
	})

	It("isolates readers from each other", func() {
		manager.UpdateSnapshot(sampleReport())

		first := manager.GetSnapshot()
		first.FaultCount = 99
		first.RecentLogs[0].Message = "scribbled"

		second := manager.GetSnapshot()
		Expect(second.FaultCount).To(Equal(uint32(1)))
		Expect(second.RecentLogs[0].Message).To(Equal("Monitor initialized"))
	})

	It("serves the debug endpoint a placeholder before the first publish", func() {
		Expect(manager.GetDebugInfo()).To(HaveKeyWithValue("status", "no_snapshot_published"))
	})

	It("ignores a nil publish", func() {
		manager.UpdateSnapshot(sampleReport())
		manager.UpdateSnapshot(nil)

		Expect(manager.GetSnapshot()).NotTo(BeNil())
	})
})
