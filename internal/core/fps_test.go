package core

import "testing"

func TestFPSMeter(t *testing.T) {
	var m FPSMeter
	if m.FPS() != 0 {
		t.Errorf("FPS() = %v before any window, expected 0", m.FPS())
	}

	// 50 frames, 20ms apart.
	for i := 0; i <= 50; i++ {
		m.Frame(float64(i * 20))
	}
	if m.FPS() != 50 {
		t.Errorf("FPS() = %v, expected 50", m.FPS())
	}
}
