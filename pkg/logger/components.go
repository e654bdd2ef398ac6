package logger

// Component name constants for standardized logging
const (
	// Core components
	ComponentCore        = "Core"
	ComponentControlLoop = "ControlLoop"
	ComponentMonitor     = "Monitor"

	// Monitor-owned components
	ComponentLogStore        = "LogStore"
	ComponentFaultHistory    = "FaultHistory"
	ComponentHealthTracker   = "HealthTracker"
	ComponentWatchdog        = "Watchdog"
	ComponentStateMachine    = "StateMachine"
	ComponentFaultInjector   = "FaultInjector"
	ComponentRecovery        = "Recovery"
	ComponentPlant           = "Plant"
	ComponentSnapshotManager = "SnapshotManager"

	// Operator surface: entries of warning severity and above are mirrored
	// here immediately on append.
	ComponentOperator = "Operator"

	// Configuration
	ComponentConfig = "Config"
)
