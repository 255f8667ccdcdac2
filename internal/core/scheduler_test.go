package core

import (
	"math"
	"testing"
)

func TestStepBudgetFormula(t *testing.T) {
	tests := []struct {
		dt, speed float64
		want      int
	}{
		{20, 500, 10},
		{0, 500, 0},
		{16.7, 500, 8},
		{1000, 700, 700},
		{1, 999, 0},
		{50, 0, 0},
		{-5, 500, 0},
		{20, -100, 0},
		{math.NaN(), 500, 0},
	}

	for _, tt := range tests {
		if got := StepBudget(tt.dt, tt.speed); got != tt.want {
			t.Errorf("StepBudget(%v, %v) = %d, expected %d", tt.dt, tt.speed, got, tt.want)
		}
	}
}

func TestStepBudgetMonotonic(t *testing.T) {
	prev := 0
	for dt := 0.0; dt <= 500; dt += 0.37 {
		n := StepBudget(dt, 733)
		if n < prev {
			t.Fatalf("budget decreased in dt: %d -> %d at dt=%v", prev, n, dt)
		}
		prev = n
	}

	prev = 0
	for speed := 0.0; speed <= 5000; speed += 3.3 {
		n := StepBudget(16.667, speed)
		if n < prev {
			t.Fatalf("budget decreased in speed: %d -> %d at speed=%v", prev, n, speed)
		}
		prev = n
	}
}

func TestStepBudgetHugeIsBounded(t *testing.T) {
	if got := StepBudget(1e300, 1e300); got != math.MaxInt32 {
		t.Errorf("StepBudget(huge) = %d, expected %d", got, math.MaxInt32)
	}
}

func TestAdvanceEndToEnd(t *testing.T) {
	var s Scheduler
	st := NewClockState(1000)

	steps, _ := s.Advance(1020, &st, 500)
	if steps != 10 {
		t.Errorf("steps = %d, expected 10", steps)
	}
	if st.LastFrame != 1020 {
		t.Errorf("LastFrame = %v, expected 1020", st.LastFrame)
	}
}

func TestAdvancePausedClock(t *testing.T) {
	var s Scheduler
	st := NewClockState(0)
	for i := 1; i <= 100; i++ {
		steps, _ := s.Advance(float64(i*250), &st, 0)
		if steps != 0 {
			t.Fatalf("paused clock produced %d steps", steps)
		}
	}
}

func TestAdvanceOneTickPerFrameAt50ms(t *testing.T) {
	for _, policy := range []TimerPolicy{TimerReset, TimerCatchUp} {
		s := Scheduler{Policy: policy}
		st := NewClockState(0)
		for frame := 1; frame <= 20; frame++ {
			_, tick := s.Advance(float64(frame*50), &st, 500)
			if !tick {
				t.Fatalf("%s: frame %d did not tick", policy, frame)
			}
		}
	}
}

func TestAdvanceNoTickBeforePeriod(t *testing.T) {
	var s Scheduler
	st := NewClockState(0)

	if _, tick := s.Advance(10, &st, 500); tick {
		t.Error("tick fired after 10ms")
	}
	if _, tick := s.Advance(16, &st, 500); tick {
		t.Error("tick fired after 16ms")
	}
	if _, tick := s.Advance(17, &st, 500); !tick {
		t.Error("tick did not fire after 17ms")
	}
	if st.LastTimer != 17 {
		t.Errorf("LastTimer = %v, expected reset to 17", st.LastTimer)
	}
}

func TestAdvanceThresholdInclusiveVsStrict(t *testing.T) {
	inclusive := Scheduler{}
	st := ClockState{LastFrame: 0, LastTimer: 0}
	if _, tick := inclusive.Advance(TimerPeriod, &st, 0); !tick {
		t.Error("inclusive threshold should tick at exactly one period")
	}

	strict := Scheduler{Strict: true}
	st = ClockState{}
	if _, tick := strict.Advance(TimerPeriod, &st, 0); tick {
		t.Error("strict threshold should not tick at exactly one period")
	}
	if _, tick := strict.Advance(TimerPeriod+0.001, &st, 0); !tick {
		t.Error("strict threshold should tick past one period")
	}
}

func TestAdvanceResetDropsMissedPeriods(t *testing.T) {
	s := Scheduler{Policy: TimerReset}
	st := NewClockState(0)

	// One long frame covering six periods gives a single tick...
	if _, tick := s.Advance(100, &st, 0); !tick {
		t.Fatal("expected a tick after 100ms")
	}
	// ...and the reference moves to now, so the next short frame has none.
	if _, tick := s.Advance(105, &st, 0); tick {
		t.Error("reset policy should not pay back missed periods")
	}
}

func TestAdvanceCatchUpPaysBackMissedPeriods(t *testing.T) {
	s := Scheduler{Policy: TimerCatchUp}
	st := NewClockState(0)

	ticks := 0
	if _, tick := s.Advance(100, &st, 0); tick {
		ticks++
	}
	// Frames 1ms apart: the backlog of six periods drains one tick per frame.
	for i := 1; i <= 10; i++ {
		if _, tick := s.Advance(100+float64(i), &st, 0); tick {
			ticks++
		}
	}
	if ticks != 6 {
		t.Errorf("catch-up ticks = %d, expected 6", ticks)
	}
	if st.LastTimer > 110 {
		t.Errorf("LastTimer = %v ran ahead of the clock", st.LastTimer)
	}
}

func TestAdvanceMaxSteps(t *testing.T) {
	uncapped := Scheduler{}
	st := NewClockState(0)
	if steps, _ := uncapped.Advance(60000, &st, 1000); steps != 60000 {
		t.Errorf("uncapped burst = %d, expected 60000", steps)
	}

	capped := Scheduler{MaxSteps: 100}
	st = NewClockState(0)
	if steps, _ := capped.Advance(60000, &st, 1000); steps != 100 {
		t.Errorf("capped burst = %d, expected 100", steps)
	}
}

func TestAdvanceClockStateMonotonic(t *testing.T) {
	var s Scheduler
	st := NewClockState(100)

	steps, tick := s.Advance(50, &st, 1000)
	if steps != 0 || tick {
		t.Errorf("backwards clock gave steps=%d tick=%v", steps, tick)
	}
	if st.LastFrame != 100 || st.LastTimer != 100 {
		t.Errorf("clock state moved backwards: %+v", st)
	}
}

func TestParseTimerPolicy(t *testing.T) {
	for _, p := range []TimerPolicy{TimerReset, TimerCatchUp} {
		got, err := ParseTimerPolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseTimerPolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseTimerPolicy("sometimes"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
