package core

import (
	"fmt"
	"math"
)

// TimerHz is the fixed rate of the delay and sound timers.
const TimerHz = 60

// TimerPeriod is the timer period in milliseconds.
const TimerPeriod = 1000.0 / TimerHz

// maxBurst bounds the float to int conversion of the step budget. It is not a
// policy cap; see Scheduler.MaxSteps for that.
const maxBurst = math.MaxInt32

// TimerPolicy decides how the timer reference moves after a tick.
type TimerPolicy int

const (
	// TimerReset sets the reference to the current time. Missed periods are
	// dropped, so the timers fall behind real time under sustained lag.
	TimerReset TimerPolicy = iota
	// TimerCatchUp advances the reference by exactly one period. Missed periods
	// are paid back one tick per frame.
	TimerCatchUp
)

// String returns the config name of the policy.
func (p TimerPolicy) String() string {
	switch p {
	case TimerReset:
		return "reset"
	case TimerCatchUp:
		return "catch_up"
	default:
		return "unknown"
	}
}

// ParseTimerPolicy converts a config name to a TimerPolicy.
func ParseTimerPolicy(s string) (TimerPolicy, error) {
	switch s {
	case "", "reset":
		return TimerReset, nil
	case "catch_up":
		return TimerCatchUp, nil
	default:
		return TimerReset, fmt.Errorf("core: unknown timer policy %q", s)
	}
}

// ClockState holds the timestamps of the previous frame and the previous timer
// tick. Both only ever move forward.
type ClockState struct {
	LastFrame float64
	LastTimer float64
}

// NewClockState starts both references at t.
func NewClockState(t float64) ClockState {
	return ClockState{LastFrame: t, LastTimer: t}
}

// Scheduler turns elapsed time and clock speed into a step budget and a timer
// tick decision. The zero value is the default: inclusive threshold, reset to
// the current time, no cap on the burst.
type Scheduler struct {
	Policy TimerPolicy
	// Strict compares with > instead of >=.
	Strict bool
	// MaxSteps caps the steps of one frame. 0 leaves the burst uncapped.
	MaxSteps int
}

// Advance computes the work for a frame at time t and updates st.
func (s Scheduler) Advance(t float64, st *ClockState, clockSpeed float64) (steps int, timerDue bool) {
	since := t - st.LastTimer
	timerDue = since >= TimerPeriod
	if s.Strict {
		timerDue = since > TimerPeriod
	}
	if timerDue {
		if s.Policy == TimerCatchUp {
			st.LastTimer += TimerPeriod
		} else {
			st.LastTimer = t
		}
	}

	steps = StepBudget(t-st.LastFrame, clockSpeed)
	if s.MaxSteps > 0 && steps > s.MaxSteps {
		steps = s.MaxSteps
	}
	if t > st.LastFrame {
		st.LastFrame = t
	}
	return steps, timerDue
}

// StepBudget returns floor(dt/1000 * clockSpeed). Negative or NaN inputs give 0.
func StepBudget(dt, clockSpeed float64) int {
	if !(dt > 0) || !(clockSpeed > 0) {
		return 0
	}
	n := math.Floor(dt * clockSpeed / 1000)
	if n >= maxBurst {
		return maxBurst
	}
	return int(n)
}
