package raster

// Mesh is the static geometry of the pixel grid: four vertices per pixel and
// two triangles per quad. It is generated once and never changes.
type Mesh struct {
	Positions []float32 // x, y, z per vertex
	Indices   []uint32
}

// NewMesh builds the quad mesh for the layout.
//
// Quad corners are emitted with the x offset in the outer loop and the y offset
// in the inner one, so vertex i+0 is (x, y), i+1 is (x, y+1), i+2 is (x+1, y) and
// i+3 is (x+1, y+1). The triangles [i, i+1, i+2] and [i+1, i+2, i+3] cover it.
func NewMesh(l Layout) Mesh {
	n := l.Pixels()
	m := Mesh{
		Positions: make([]float32, 0, n*VerticesPerPixel*FloatsPerVertex),
		Indices:   make([]uint32, 0, n*IndicesPerPixel),
	}

	l.Each(func(x, y int) {
		for xo := 0; xo < 2; xo++ {
			for yo := 0; yo < 2; yo++ {
				nx, ny := l.Map(float32(x+xo), float32(y+yo))
				m.Positions = append(m.Positions, nx, ny, 0)
			}
		}

		i := uint32(l.Base(x, y))
		m.Indices = append(m.Indices, i, i+1, i+2, i+1, i+2, i+3)
	})

	return m
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int {
	return len(m.Positions) / FloatsPerVertex
}

// Vertex returns the position of vertex i.
func (m Mesh) Vertex(i int) (x, y, z float32) {
	p := m.Positions[i*FloatsPerVertex:]
	return p[0], p[1], p[2]
}
