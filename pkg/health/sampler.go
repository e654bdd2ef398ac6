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

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Sampler produces CPU and memory usage gauges in percent. The tracker
// clamps whatever a sampler returns to [0,100].
type Sampler interface {
	Sample(ctx context.Context) (cpuPercent, memoryPercent float64, err error)
}

// SimulatedSampler produces bounded pseudo-random gauges: CPU in [10,50),
// memory in [20,80). It stands in for real instrumentation on targets where
// none is available and keeps test runs deterministic when seeded.
type SimulatedSampler struct {
	rng *rand.Rand
}

// NewSimulatedSampler creates a sampler driven by rng.
func NewSimulatedSampler(rng *rand.Rand) *SimulatedSampler {
	return &SimulatedSampler{rng: rng}
}

// Sample returns the next pair of simulated gauges.
func (s *SimulatedSampler) Sample(_ context.Context) (float64, float64, error) {
	cpuPercent := 10.0 + s.rng.Float64()*40.0
	memoryPercent := 20.0 + s.rng.Float64()*60.0

	return cpuPercent, memoryPercent, nil
}

// SystemSampler reads real host gauges via gopsutil.
type SystemSampler struct{}

// NewSystemSampler creates a sampler backed by host instrumentation.
func NewSystemSampler() *SystemSampler {
	return &SystemSampler{}
}

// Sample returns the host's CPU and virtual memory usage.
func (s *SystemSampler) Sample(ctx context.Context) (float64, float64, error) {
	percentages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sample CPU usage: %w", err)
	}

	if len(percentages) == 0 {
		return 0, 0, fmt.Errorf("CPU sampler returned no data")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sample memory usage: %w", err)
	}

	return percentages[0], vm.UsedPercent, nil
}
