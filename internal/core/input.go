package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// KeyCount is the size of the hexadecimal keypad.
const KeyCount = 16

// NoKey marks the absence of a pending release.
const NoKey = -1

// DefaultKeymap maps keypad values 0x0..0xF to keyboard keys, laid out so the
// 4x4 block 1234/qwer/asdf/zxcv matches the physical keypad.
const DefaultKeymap = "x123qweasdzc4rfv"

// ErrKeyOutOfRange is returned for key indices outside 0..15.
var ErrKeyOutOfRange = errors.New("core: key out of range")

// InputSink receives the latched keypad state.
type InputSink interface {
	UpdateInputs(keys [KeyCount]bool)
	KeyReleased(key int)
}

// InputLatch holds the keypad state between frames. Hosts either push a full
// snapshot or individual press and release events; the frame loop applies the
// result to the processor once per frame, before any step.
type InputLatch struct {
	keys     [KeyCount]bool
	released int
}

// NewInputLatch creates a latch with every key up.
func NewInputLatch() *InputLatch {
	return &InputLatch{released: NoKey}
}

// Snapshot replaces the whole keypad state. Keys that were down and are now up
// count as released.
func (l *InputLatch) Snapshot(keys [KeyCount]bool) {
	for k := range keys {
		if l.keys[k] && !keys[k] {
			l.released = k
		}
	}
	l.keys = keys
}

// Press marks key as down.
func (l *InputLatch) Press(key int) error {
	if key < 0 || key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
	}
	l.keys[key] = true
	return nil
}

// Release marks key as up and records it as the pending release.
func (l *InputLatch) Release(key int) error {
	if key < 0 || key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
	}
	l.keys[key] = false
	l.released = key
	return nil
}

// Pressed reports whether key is down.
func (l *InputLatch) Pressed(key int) bool {
	if key < 0 || key >= KeyCount {
		return false
	}
	return l.keys[key]
}

// State returns a copy of the keypad state.
func (l *InputLatch) State() [KeyCount]bool {
	return l.keys
}

// LastReleased returns the pending release or NoKey.
func (l *InputLatch) LastReleased() int {
	return l.released
}

// Apply pushes the state to sink, then delivers and clears the pending release.
func (l *InputLatch) Apply(sink InputSink) {
	sink.UpdateInputs(l.keys)
	if l.released != NoKey {
		sink.KeyReleased(l.released)
		l.released = NoKey
	}
}

// Keymap maps keyboard characters to keypad values.
type Keymap [KeyCount]rune

// ParseKeymap builds a Keymap from a 16-character string where the character
// at position i is the key for keypad value i.
func ParseKeymap(s string) (Keymap, error) {
	var km Keymap
	runes := []rune(strings.ToLower(s))
	if len(runes) != KeyCount {
		return km, fmt.Errorf("core: keymap must have %d keys, got %d", KeyCount, len(runes))
	}
	seen := make(map[rune]bool, KeyCount)
	for i, r := range runes {
		if seen[r] {
			return km, fmt.Errorf("core: keymap binds %q twice", r)
		}
		seen[r] = true
		km[i] = r
	}
	return km, nil
}

// Lookup returns the keypad value bound to r, or NoKey.
func (km Keymap) Lookup(r rune) int {
	r = unicode.ToLower(r)
	for i, k := range km {
		if k == r {
			return i
		}
	}
	return NoKey
}

// String returns the keymap in its config form.
func (km Keymap) String() string {
	return string(km[:])
}
