//go:build !headless

package window

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/chip8-runner/internal/core"
)

var runeKeys = map[rune]ebiten.Key{
	'a': ebiten.KeyA, 'b': ebiten.KeyB, 'c': ebiten.KeyC, 'd': ebiten.KeyD,
	'e': ebiten.KeyE, 'f': ebiten.KeyF, 'g': ebiten.KeyG, 'h': ebiten.KeyH,
	'i': ebiten.KeyI, 'j': ebiten.KeyJ, 'k': ebiten.KeyK, 'l': ebiten.KeyL,
	'm': ebiten.KeyM, 'n': ebiten.KeyN, 'o': ebiten.KeyO, 'p': ebiten.KeyP,
	'q': ebiten.KeyQ, 'r': ebiten.KeyR, 's': ebiten.KeyS, 't': ebiten.KeyT,
	'u': ebiten.KeyU, 'v': ebiten.KeyV, 'w': ebiten.KeyW, 'x': ebiten.KeyX,
	'y': ebiten.KeyY, 'z': ebiten.KeyZ,
	'0': ebiten.KeyDigit0, '1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2,
	'3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4, '5': ebiten.KeyDigit5,
	'6': ebiten.KeyDigit6, '7': ebiten.KeyDigit7, '8': ebiten.KeyDigit8,
	'9': ebiten.KeyDigit9,
}

// binding ties a physical key to a keypad value.
type binding struct {
	key   ebiten.Key
	value int
}

// bindKeymap resolves every keypad rune to a physical key, in keypad order.
func bindKeymap(pad core.Keymap) ([]binding, error) {
	out := make([]binding, 0, core.KeyCount)
	for value, r := range pad {
		k, ok := runeKeys[r]
		if !ok {
			return nil, fmt.Errorf("window: keypad %X is bound to %q, which has no window key", value, r)
		}
		out = append(out, binding{key: k, value: value})
	}
	return out, nil
}
