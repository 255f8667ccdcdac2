//go:build !headless

// Package window is the desktop frontend: an Ebitengine window whose update
// callback drives the frame loop and whose surface draws the pixel mesh with
// a Kage shader.
package window

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/chip8-runner/internal/raster"
)

// passthrough colours every fragment with the interpolated vertex colour.
var passthrough = []byte(`//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return color
}
`)

// Surface draws the mesh into an offscreen image of width x height pixels.
type Surface struct {
	width    int
	height   int
	shader   *ebiten.Shader
	target   *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint32
}

// NewSurface creates a surface rendering at width x height.
func NewSurface(width, height int) *Surface {
	return &Surface{width: width, height: height}
}

// Init compiles the shader, allocates the target and converts the position
// buffer from clip space to target pixels.
func (s *Surface) Init(positions []float32, indices []uint32) error {
	if s.width <= 0 || s.height <= 0 {
		return fmt.Errorf("window: invalid target %dx%d", s.width, s.height)
	}
	vertices, err := toVertices(positions, indices, s.width, s.height)
	if err != nil {
		return err
	}

	shader, err := ebiten.NewShader(passthrough)
	if err != nil {
		return fmt.Errorf("window: shader: %w", err)
	}

	s.vertices = vertices
	s.indices = append([]uint32(nil), indices...)
	s.shader = shader
	s.target = ebiten.NewImage(s.width, s.height)
	return nil
}

// toVertices maps clip-space positions onto a width x height target and
// checks every index against the vertex count.
func toVertices(positions []float32, indices []uint32, width, height int) ([]ebiten.Vertex, error) {
	if len(positions)%raster.FloatsPerVertex != 0 {
		return nil, errors.New("window: position buffer is not a whole number of vertices")
	}

	vertices := make([]ebiten.Vertex, len(positions)/raster.FloatsPerVertex)
	for v := range vertices {
		p := positions[v*raster.FloatsPerVertex:]
		vertices[v] = ebiten.Vertex{
			DstX:   (p[0] + 1) / 2 * float32(width),
			DstY:   (1 - p[1]) / 2 * float32(height),
			ColorA: 1,
		}
	}

	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("window: index %d out of range (%d vertices)", idx, len(vertices))
		}
	}
	return vertices, nil
}

// UploadColors copies the colour buffer into the vertex attributes.
func (s *Surface) UploadColors(colors []float32) error {
	if s.target == nil {
		return errors.New("window: surface not initialised")
	}
	if len(colors) != len(s.vertices)*raster.FloatsPerVertex {
		return fmt.Errorf("window: colour buffer has %d floats, want %d",
			len(colors), len(s.vertices)*raster.FloatsPerVertex)
	}
	for v := range s.vertices {
		c := colors[v*raster.FloatsPerVertex:]
		s.vertices[v].ColorR = c[0]
		s.vertices[v].ColorG = c[1]
		s.vertices[v].ColorB = c[2]
	}
	return nil
}

// DrawIndexed clears the target and draws the first count indices.
func (s *Surface) DrawIndexed(count int) error {
	if count < 0 || count > len(s.indices) || count%3 != 0 {
		return fmt.Errorf("window: invalid index count %d", count)
	}
	s.target.Clear()
	s.target.DrawTrianglesShader32(s.vertices, s.indices[:count], s.shader, &ebiten.DrawTrianglesShaderOptions{})
	return nil
}

// Image returns the offscreen target.
func (s *Surface) Image() *ebiten.Image {
	return s.target
}

// Snapshot reads the target back into memory. It must be called from the
// game loop.
func (s *Surface) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	s.target.ReadPixels(img.Pix)
	return img
}

// Size returns the target dimensions.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}
