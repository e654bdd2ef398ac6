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

package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/united-manufacturing-hub/faultmon/pkg/constants"
	"github.com/united-manufacturing-hub/faultmon/pkg/env"
)

// Config holds the runtime configuration of the fault monitor.
type Config struct {
	// LogFilePath is the append-only text sink the log store is flushed to.
	LogFilePath string `yaml:"logFilePath"`

	// LogCapacity is the maximum number of entries the log store retains
	// before evicting the oldest.
	LogCapacity int `yaml:"logCapacity"`

	// FaultHistoryCapacity is the maximum number of fault records retained.
	FaultHistoryCapacity int `yaml:"faultHistoryCapacity"`

	// TickInterval is the control loop iteration interval.
	TickInterval time.Duration `yaml:"tickInterval"`

	// WatchdogTimeout is the stale-window length of the control loop watchdog.
	WatchdogTimeout time.Duration `yaml:"watchdogTimeout"`

	// RecoveryLatency is the simulated duration of a recovery attempt.
	RecoveryLatency time.Duration `yaml:"recoveryLatency"`

	// MetricsPort is the port of the /metrics and /debug/monitor endpoints.
	MetricsPort int `yaml:"metricsPort"`

	// UseSystemGauges selects real CPU/memory instrumentation instead of the
	// simulated bounded gauges.
	UseSystemGauges bool `yaml:"useSystemGauges"`
}

// DefaultConfig returns the configuration used when no file and no overrides
// are present.
func DefaultConfig() Config {
	return Config{
		LogFilePath:          constants.DefaultLogFilePath,
		LogCapacity:          constants.DefaultLogCapacity,
		FaultHistoryCapacity: constants.DefaultFaultHistoryCapacity,
		TickInterval:         constants.DefaultTickerTime,
		WatchdogTimeout:      constants.WatchdogTimeout,
		RecoveryLatency:      constants.DefaultRecoveryLatency,
		MetricsPort:          constants.DefaultMetricsPort,
		UseSystemGauges:      false,
	}
}

// Validate checks the configuration for values the monitor cannot run with.
func (c Config) Validate() error {
	if c.LogCapacity <= 0 {
		return fmt.Errorf("logCapacity must be positive, got %d", c.LogCapacity)
	}

	if c.FaultHistoryCapacity <= 0 {
		return fmt.Errorf("faultHistoryCapacity must be positive, got %d", c.FaultHistoryCapacity)
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("tickInterval must be positive, got %s", c.TickInterval)
	}

	if c.WatchdogTimeout <= 0 {
		return fmt.Errorf("watchdogTimeout must be positive, got %s", c.WatchdogTimeout)
	}

	if c.RecoveryLatency < 0 {
		return fmt.Errorf("recoveryLatency must not be negative, got %s", c.RecoveryLatency)
	}

	return nil
}

// LoadFile reads a YAML config file. A missing file is not an error: the
// defaults are returned so the monitor can run without any configuration.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadWithEnvOverrides loads the config file (if any) and applies environment
// variable overrides.
//
// Order of precedence (highest to lowest):
// 1. Environment variables (FAULTMON_*)
// 2. Config file values
// 3. Default values
func LoadWithEnvOverrides(path string, log *zap.SugaredLogger) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}

	cfg.LogFilePath, err = env.GetAsString("FAULTMON_LOG_FILE", false, cfg.LogFilePath)
	if err != nil {
		log.Warnf("Failed to read FAULTMON_LOG_FILE: %v", err)
	}

	cfg.LogCapacity, err = env.GetAsInt("FAULTMON_LOG_CAPACITY", false, cfg.LogCapacity)
	if err != nil {
		log.Warnf("Failed to read FAULTMON_LOG_CAPACITY: %v", err)
	}

	cfg.FaultHistoryCapacity, err = env.GetAsInt("FAULTMON_FAULT_HISTORY_CAPACITY", false, cfg.FaultHistoryCapacity)
	if err != nil {
		log.Warnf("Failed to read FAULTMON_FAULT_HISTORY_CAPACITY: %v", err)
	}

	cfg.TickInterval, err = env.GetAsDuration("FAULTMON_TICK_INTERVAL", false, cfg.TickInterval)
	if err != nil {
		log.Warnf("Failed to read FAULTMON_TICK_INTERVAL: %v", err)
	}

	cfg.WatchdogTimeout, err = env.GetAsDuration("FAULTMON_WATCHDOG_TIMEOUT", false, cfg.WatchdogTimeout)
	if err != nil {
		log.Warnf("Failed to read FAULTMON_WATCHDOG_TIMEOUT: %v", err)
	}

	cfg.RecoveryLatency, err = env.GetAsDuration("FAULTMON_RECOVERY_LATENCY", false, cfg.RecoveryLatency)
	if err != nil {
		log.Warnf("Failed to read FAULTMON_RECOVERY_LATENCY: %v", err)
	}

	cfg.MetricsPort, err = env.GetAsInt("FAULTMON_METRICS_PORT", false, cfg.MetricsPort)
	if err != nil {
		log.Warnf("Failed to read FAULTMON_METRICS_PORT: %v", err)
	}

	cfg.UseSystemGauges, err = env.GetAsBool("FAULTMON_USE_SYSTEM_GAUGES", false, cfg.UseSystemGauges)
	if err != nil {
		log.Warnf("Failed to read FAULTMON_USE_SYSTEM_GAUGES: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
