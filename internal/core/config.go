package core

// RuntimeConfig contains the settings the frame loop is built with.
type RuntimeConfig struct {
	ClockSpeed  float64     // Instructions per second
	Timer       TimerPolicy // How the 60 Hz reference moves after a tick
	StrictTimer bool        // Tick only when strictly more than one period elapsed
	MaxSteps    int         // Per-frame step cap, 0 = uncapped
	RefreshRate int         // Host refresh rate for hosts that pace themselves
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ClockSpeed:  500,
		Timer:       TimerReset,
		StrictTimer: false,
		MaxSteps:    0,
		RefreshRate: 60,
	}
}

// Scheduler returns the scheduler described by the config.
func (c RuntimeConfig) Scheduler() Scheduler {
	return Scheduler{
		Policy:   c.Timer,
		Strict:   c.StrictTimer,
		MaxSteps: c.MaxSteps,
	}
}
