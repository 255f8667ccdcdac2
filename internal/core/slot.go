package core

// Requester queues a callback for the next display refresh.
type Requester interface {
	RequestFrame(fn func())
}

// FrameSlot is a host-side scheduler holding at most one pending frame
// callback. The loop puts its continuation here at the end of every frame and
// the host drains it once per refresh.
type FrameSlot struct {
	fn func()
}

// RequestFrame stores fn, replacing any pending callback.
func (s *FrameSlot) RequestFrame(fn func()) {
	s.fn = fn
}

// Pending reports whether a callback is waiting.
func (s *FrameSlot) Pending() bool {
	return s.fn != nil
}

// Run takes the pending callback out of the slot and calls it. It returns
// false when nothing was queued.
func (s *FrameSlot) Run() bool {
	fn := s.fn
	if fn == nil {
		return false
	}
	s.fn = nil
	fn()
	return true
}
