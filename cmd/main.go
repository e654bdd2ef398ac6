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

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/faultmon/internal/keyboard"
	"github.com/united-manufacturing-hub/faultmon/pkg/config"
	"github.com/united-manufacturing-hub/faultmon/pkg/control"
	"github.com/united-manufacturing-hub/faultmon/pkg/env"
	"github.com/united-manufacturing-hub/faultmon/pkg/logger"
	"github.com/united-manufacturing-hub/faultmon/pkg/metrics"
	"github.com/united-manufacturing-hub/faultmon/pkg/monitor"
	"github.com/united-manufacturing-hub/faultmon/pkg/plant"
	"github.com/united-manufacturing-hub/faultmon/pkg/snapshot"
	"github.com/united-manufacturing-hub/faultmon/pkg/standarderrors"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger.Initialize()

	log := logger.For(logger.ComponentCore)
	defer func() {
		_ = logger.Sync()
	}()

	configPath, err := env.GetAsString("FAULTMON_CONFIG", false, "faultmon.yaml")
	if err != nil {
		log.Warnf("Failed to read FAULTMON_CONFIG: %v", err)
	}

	cfg, err := config.LoadWithEnvOverrides(configPath, logger.For(logger.ComponentConfig))
	if err != nil {
		log.Errorw("Failed to load configuration", zap.Error(err))

		return 1
	}

	metricsServer := metrics.SetupMetricsEndpoint(fmt.Sprintf(":%d", cfg.MetricsPort))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warnw("Metrics endpoint shutdown failed", zap.Error(err))
		}
	}()

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))

	mon := monitor.New(cfg, rng)
	plt := plant.New(mon, rng)

	snapshots := snapshot.NewManager()
	metrics.RegisterDebugProvider("core", snapshots)

	defer metrics.UnregisterDebugProvider("core")

	commands, err := keyboard.NewReader()
	if err != nil {
		log.Errorw("Failed to set up keyboard input", zap.Error(err))

		return 1
	}

	defer commands.Restore()

	loop := control.NewLoop(mon, plt, snapshots, commands, os.Stdout, cfg.TickInterval, rng)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loop.Execute(ctx); err != nil {
		if standarderrors.IsUnrecoverableError(err) {
			log.Errorw("Shutdown violated a state invariant", zap.Error(err))

			return 1
		}

		log.Warnw("Shutdown completed with errors", zap.Error(err))
	}

	log.Info("Shutdown complete")

	return 0
}
