package raster

import (
	"errors"
	"fmt"
)

// PixelSource is the read-only view of the virtual machine's display.
type PixelSource interface {
	PixelAt(x, y int) bool
}

// Surface is the drawing contract: one program taking a static position buffer
// and a colour buffer that is rewritten every frame, one static index buffer
// and an indexed triangle-list draw.
type Surface interface {
	// Init creates the program and the static buffers. An error here is fatal.
	Init(positions []float32, indices []uint32) error
	// UploadColors replaces the whole colour buffer.
	UploadColors(colors []float32) error
	// DrawIndexed draws the first count indices as a triangle list.
	DrawIndexed(count int) error
}

// Rasterizer owns the mesh and the colour buffer for one Surface.
type Rasterizer struct {
	layout  Layout
	mesh    Mesh
	colors  []float32
	palette Palette
	surface Surface
}

// NewRasterizer builds the mesh, initialises the surface with it and uploads a
// checkerboard so the surface has defined contents before the first frame.
func NewRasterizer(s Surface, l Layout) (*Rasterizer, error) {
	if s == nil {
		return nil, errors.New("raster: no surface")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	r := &Rasterizer{
		layout:  l,
		mesh:    NewMesh(l),
		colors:  make([]float32, l.Pixels()*VerticesPerPixel*FloatsPerVertex),
		palette: DefaultPalette,
		surface: s,
	}

	if err := s.Init(r.mesh.Positions, r.mesh.Indices); err != nil {
		return nil, fmt.Errorf("raster: surface init failed: %w", err)
	}

	for v := 0; v < r.mesh.VertexCount(); v++ {
		c := float32((v / 6) % 2)
		copy(r.colors[v*FloatsPerVertex:], []float32{c, c, c})
	}
	if err := s.UploadColors(r.colors); err != nil {
		return nil, fmt.Errorf("raster: initial colour upload failed: %w", err)
	}

	return r, nil
}

// Layout returns the layout the mesh was built from.
func (r *Rasterizer) Layout() Layout {
	return r.layout
}

// Mesh returns the static mesh.
func (r *Rasterizer) Mesh() Mesh {
	return r.mesh
}

// Colors returns the current colour buffer. The slice is reused between frames.
func (r *Rasterizer) Colors() []float32 {
	return r.colors
}

// Palette returns the active palette.
func (r *Rasterizer) Palette() Palette {
	return r.palette
}

// SetPalette replaces the active palette.
func (r *Rasterizer) SetPalette(p Palette) {
	r.palette = p
}

// Rebuild overwrites the whole colour buffer from the pixel source.
func (r *Rasterizer) Rebuild(src PixelSource) []float32 {
	fg, bg := r.palette.Foreground, r.palette.Background
	r.layout.Each(func(x, y int) {
		c := bg
		if src.PixelAt(x, y) {
			c = fg
		}
		base := r.layout.Base(x, y) * FloatsPerVertex
		for v := 0; v < VerticesPerPixel; v++ {
			copy(r.colors[base+v*FloatsPerVertex:], c[:])
		}
	})
	return r.colors
}

// Render rebuilds the colour buffer, uploads it and draws the full mesh.
func (r *Rasterizer) Render(src PixelSource) error {
	r.Rebuild(src)
	if err := r.surface.UploadColors(r.colors); err != nil {
		return fmt.Errorf("raster: colour upload failed: %w", err)
	}
	if err := r.surface.DrawIndexed(len(r.mesh.Indices)); err != nil {
		return fmt.Errorf("raster: draw failed: %w", err)
	}
	return nil
}
