package core

// FPSMeter measures frames per second over one-second windows.
type FPSMeter struct {
	start    float64
	count    int
	measured float64
	started  bool
}

// Frame records a frame at time now (milliseconds).
func (m *FPSMeter) Frame(now float64) {
	if !m.started {
		m.start = now
		m.started = true
		return
	}
	m.count++
	if elapsed := now - m.start; elapsed >= 1000 {
		m.measured = float64(m.count) * 1000 / elapsed
		m.count = 0
		m.start = now
	}
}

// FPS returns the last completed measurement.
func (m *FPSMeter) FPS() float64 {
	return m.measured
}
