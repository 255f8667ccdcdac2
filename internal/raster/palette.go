package raster

import (
	"fmt"
	"strconv"
)

// RGB is a colour with components in [0, 1].
type RGB [3]float32

// Palette holds the two colours of the monochrome display.
type Palette struct {
	Foreground RGB
	Background RGB
}

// DefaultPalette is white on black.
var DefaultPalette = Palette{
	Foreground: RGB{1, 1, 1},
	Background: RGB{0, 0, 0},
}

// ColorParseError reports a colour string that is not of the form #RRGGBB.
type ColorParseError struct {
	Input string
	Err   error
}

func (e *ColorParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("raster: invalid colour %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("raster: invalid colour %q", e.Input)
}

func (e *ColorParseError) Unwrap() error {
	return e.Err
}

// ParseHex converts "#RRGGBB" to an RGB triple, each byte divided by 255.
func ParseHex(s string) (RGB, error) {
	var c RGB
	if len(s) != 7 || s[0] != '#' {
		return c, &ColorParseError{Input: s}
	}
	for i := range c {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return RGB{}, &ColorParseError{Input: s, Err: err}
		}
		c[i] = float32(v) / 0xFF
	}
	return c, nil
}

// ParsePalette parses a foreground and background colour pair.
func ParsePalette(fg, bg string) (Palette, error) {
	f, err := ParseHex(fg)
	if err != nil {
		return Palette{}, err
	}
	b, err := ParseHex(bg)
	if err != nil {
		return Palette{}, err
	}
	return Palette{Foreground: f, Background: b}, nil
}

// Hex formats the colour as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", toByte(c[0]), toByte(c[1]), toByte(c[2]))
}

// Bytes returns the colour as 8-bit channels.
func (c RGB) Bytes() (r, g, b uint8) {
	return toByte(c[0]), toByte(c[1]), toByte(c[2])
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xFF
	}
	return uint8(v*0xFF + 0.5)
}
