package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Software is a CPU Surface that rasterizes the triangle list into an RGBA
// image. It backs the terminal frontend, screenshots and tests.
type Software struct {
	width     int
	height    int
	positions []float32
	indices   []uint32
	colors    []float32
	img       *image.RGBA
	clear     color.RGBA
	draws     int
	uploads   int
}

// NewSoftware creates a software surface rendering into a width x height image.
func NewSoftware(width, height int) *Software {
	return &Software{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		clear:  color.RGBA{A: 0xFF},
	}
}

// Init stores the static buffers.
func (s *Software) Init(positions []float32, indices []uint32) error {
	if s.width <= 0 || s.height <= 0 {
		return fmt.Errorf("raster: invalid software target %dx%d", s.width, s.height)
	}
	if len(positions)%FloatsPerVertex != 0 {
		return errors.New("raster: position buffer is not a whole number of vertices")
	}
	vertices := uint32(len(positions) / FloatsPerVertex)
	for _, i := range indices {
		if i >= vertices {
			return fmt.Errorf("raster: index %d out of range (%d vertices)", i, vertices)
		}
	}

	s.positions = append([]float32(nil), positions...)
	s.indices = append([]uint32(nil), indices...)
	s.colors = make([]float32, len(positions))
	return nil
}

// UploadColors replaces the colour buffer.
func (s *Software) UploadColors(colors []float32) error {
	if s.positions == nil {
		return errors.New("raster: surface not initialised")
	}
	if len(colors) != len(s.colors) {
		return fmt.Errorf("raster: colour buffer has %d floats, want %d", len(colors), len(s.colors))
	}
	copy(s.colors, colors)
	s.uploads++
	return nil
}

// DrawIndexed clears the image and fills every triangle with the colour of its
// first vertex.
func (s *Software) DrawIndexed(count int) error {
	if count < 0 || count > len(s.indices) || count%3 != 0 {
		return fmt.Errorf("raster: invalid index count %d", count)
	}

	for i := 0; i < len(s.img.Pix); i += 4 {
		s.img.Pix[i+0] = s.clear.R
		s.img.Pix[i+1] = s.clear.G
		s.img.Pix[i+2] = s.clear.B
		s.img.Pix[i+3] = s.clear.A
	}

	for t := 0; t < count; t += 3 {
		s.fillTriangle(s.indices[t], s.indices[t+1], s.indices[t+2])
	}
	s.draws++
	return nil
}

// Image returns the last drawn frame.
func (s *Software) Image() *image.RGBA {
	return s.img
}

// Size returns the target dimensions in pixels.
func (s *Software) Size() (int, int) {
	return s.width, s.height
}

// Draws returns the number of completed draw calls.
func (s *Software) Draws() int {
	return s.draws
}

// Uploads returns the number of colour uploads.
func (s *Software) Uploads() int {
	return s.uploads
}

// Colors returns the last uploaded colour buffer.
func (s *Software) Colors() []float32 {
	return s.colors
}

// toImage maps NDC to image space, y pointing down.
func (s *Software) toImage(v uint32) (float64, float64) {
	p := s.positions[v*FloatsPerVertex:]
	x := (float64(p[0]) + 1) / 2 * float64(s.width)
	y := (1 - float64(p[1])) / 2 * float64(s.height)
	return x, y
}

func (s *Software) fillTriangle(a, b, c uint32) {
	ax, ay := s.toImage(a)
	bx, by := s.toImage(b)
	cx, cy := s.toImage(c)

	area := edge(ax, ay, bx, by, cx, cy)
	if area == 0 {
		return
	}

	minX := clampInt(int(min3(ax, bx, cx)), 0, s.width)
	maxX := clampInt(int(max3(ax, bx, cx))+1, 0, s.width)
	minY := clampInt(int(min3(ay, by, cy)), 0, s.height)
	maxY := clampInt(int(max3(ay, by, cy))+1, 0, s.height)

	cr := s.colors[a*FloatsPerVertex:]
	col := color.RGBA{A: 0xFF}
	col.R, col.G, col.B = RGB{cr[0], cr[1], cr[2]}.Bytes()

	const eps = 1e-9
	for y := minY; y < maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(bx, by, cx, cy, px, py) / area
			w1 := edge(cx, cy, ax, ay, px, py) / area
			w2 := edge(ax, ay, bx, by, px, py) / area
			if w0 >= -eps && w1 >= -eps && w2 >= -eps {
				s.img.SetRGBA(x, y, col)
			}
		}
	}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func min3(a, b, c float64) float64 {
	return min(a, min(b, c))
}

func max3(a, b, c float64) float64 {
	return max(a, max(b, c))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
