// Package raster turns the monochrome pixel grid of the virtual machine into a
// static quad mesh plus a per-frame colour buffer, and hands both to a Surface
// for drawing.
package raster

import (
	"errors"
	"fmt"
)

// Display dimensions of the virtual machine.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Per-pixel geometry constants.
const (
	VerticesPerPixel = 4 // one quad
	IndicesPerPixel  = 6 // two triangles
	FloatsPerVertex  = 3 // x, y, z for positions and r, g, b for colours
)

// Orientation selects how grid rows map onto the vertical NDC axis.
type Orientation int

const (
	// YDown puts grid row 0 at Bounds.MaxY (the top of the screen).
	YDown Orientation = iota
	// YUp puts grid row 0 at Bounds.MinY (the bottom of the screen).
	YUp
)

// String returns the config name of the orientation.
func (o Orientation) String() string {
	switch o {
	case YDown:
		return "y_down"
	case YUp:
		return "y_up"
	default:
		return "unknown"
	}
}

// ParseOrientation converts a config name to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "y_down":
		return YDown, nil
	case "y_up":
		return YUp, nil
	default:
		return YDown, fmt.Errorf("raster: unknown orientation %q", s)
	}
}

// Order selects the order pixels are laid out in the vertex buffer.
type Order int

const (
	// ColumnMajor walks x in the outer loop: base vertex (x*H + y)*4.
	ColumnMajor Order = iota
	// RowMajor walks y in the outer loop: base vertex (y*W + x)*4.
	RowMajor
)

// String returns the config name of the order.
func (o Order) String() string {
	switch o {
	case ColumnMajor:
		return "column_major"
	case RowMajor:
		return "row_major"
	default:
		return "unknown"
	}
}

// ParseOrder converts a config name to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "column_major":
		return ColumnMajor, nil
	case "row_major":
		return RowMajor, nil
	default:
		return ColumnMajor, fmt.Errorf("raster: unknown pixel order %q", s)
	}
}

// Bounds are the normalized device coordinates the grid is stretched over.
type Bounds struct {
	MinX, MaxX float32
	MinY, MaxY float32
}

// FullScreen covers the whole clip space.
var FullScreen = Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}

// Layout fixes the grid size, its placement in NDC, the vertical direction and
// the pixel order. The mesh and the colour buffer are both built from it so
// they always agree.
type Layout struct {
	Width       int
	Height      int
	Bounds      Bounds
	Orientation Orientation
	Order       Order
}

// DefaultLayout returns the 64x32 full-screen, top-down, column-major layout.
func DefaultLayout() Layout {
	return Layout{
		Width:       DisplayWidth,
		Height:      DisplayHeight,
		Bounds:      FullScreen,
		Orientation: YDown,
		Order:       ColumnMajor,
	}
}

// Validate checks that the layout can produce a mesh.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("raster: invalid grid size %dx%d", l.Width, l.Height)
	}
	if l.Bounds.MinX == l.Bounds.MaxX || l.Bounds.MinY == l.Bounds.MaxY {
		return errors.New("raster: bounds have zero area")
	}
	if _, err := ParseOrientation(l.Orientation.String()); err != nil {
		return err
	}
	if _, err := ParseOrder(l.Order.String()); err != nil {
		return err
	}
	return nil
}

// Pixels returns the number of pixels in the grid.
func (l Layout) Pixels() int {
	return l.Width * l.Height
}

// Base returns the index of the first of the four vertices of pixel (x, y).
func (l Layout) Base(x, y int) int {
	if l.Order == RowMajor {
		return (y*l.Width + x) * VerticesPerPixel
	}
	return (x*l.Height + y) * VerticesPerPixel
}

// Each calls fn for every pixel in vertex-buffer order.
func (l Layout) Each(fn func(x, y int)) {
	if l.Order == RowMajor {
		for y := 0; y < l.Height; y++ {
			for x := 0; x < l.Width; x++ {
				fn(x, y)
			}
		}
		return
	}
	for x := 0; x < l.Width; x++ {
		for y := 0; y < l.Height; y++ {
			fn(x, y)
		}
	}
}

// Map converts a grid coordinate (0..Width, 0..Height) to NDC.
func (l Layout) Map(gx, gy float32) (float32, float32) {
	b := l.Bounds
	nx := b.MinX + (b.MaxX-b.MinX)*gx/float32(l.Width)
	if l.Orientation == YUp {
		return nx, b.MinY + (b.MaxY-b.MinY)*gy/float32(l.Height)
	}
	return nx, b.MaxY - (b.MaxY-b.MinY)*gy/float32(l.Height)
}
