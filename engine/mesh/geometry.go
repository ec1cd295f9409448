package mesh

import "encoding/binary"

// DefaultSegments is the subdivision count used for gallery planes along each axis.
const DefaultSegments = 10

// PlaneGeometry is a subdivided rectangle centered on the origin of the XY plane, facing +Z.
// Vertices run row by row from the top edge down; UVs follow the convention u = column / segX and
// v = 1 - row / segY, so v is 1 on the top edge.
type PlaneGeometry struct {
	Width    float64
	Height   float64
	SegX     int
	SegY     int
	Vertices []GPUVertex
	Indices  []uint32
}

// NewPlaneGeometry builds a plane of the given size with segX by segY quads.
// Segment counts below one are raised to one. Zero sizes are valid and produce a collapsed plane.
//
// Parameters:
//   - width, height: plane size in world units
//   - segX, segY: number of quads along each axis
//
// Returns:
//   - *PlaneGeometry: the generated geometry
func NewPlaneGeometry(width, height float64, segX, segY int) *PlaneGeometry {
	segX = max(segX, 1)
	segY = max(segY, 1)

	g := &PlaneGeometry{
		Width:    width,
		Height:   height,
		SegX:     segX,
		SegY:     segY,
		Vertices: make([]GPUVertex, 0, (segX+1)*(segY+1)),
		Indices:  make([]uint32, 0, segX*segY*6),
	}

	halfW, halfH := width/2, height/2
	stepW, stepH := width/float64(segX), height/float64(segY)

	for iy := 0; iy <= segY; iy++ {
		y := halfH - float64(iy)*stepH
		for ix := 0; ix <= segX; ix++ {
			x := float64(ix)*stepW - halfW
			g.Vertices = append(g.Vertices, GPUVertex{
				Position: [3]float32{float32(x), float32(y), 0},
				TexCoord: [2]float32{float32(ix) / float32(segX), 1 - float32(iy)/float32(segY)},
			})
		}
	}

	row := uint32(segX + 1)
	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(iy)*row + uint32(ix)
			b := a + row
			c := b + 1
			d := a + 1
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}

	return g
}

// Degenerate reports whether the plane has zero area.
func (g *PlaneGeometry) Degenerate() bool {
	return g.Width <= 0 || g.Height <= 0
}

// VertexData returns the vertices packed for a GPU vertex buffer.
func (g *PlaneGeometry) VertexData() []byte {
	var v GPUVertex
	buf := make([]byte, 0, len(g.Vertices)*v.Size())
	for i := range g.Vertices {
		buf = append(buf, g.Vertices[i].Marshal()...)
	}
	return buf
}

// IndexData returns the indices packed as little-endian uint32 values.
func (g *PlaneGeometry) IndexData() []byte {
	buf := make([]byte, len(g.Indices)*4)
	for i, idx := range g.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// IndexCount returns the number of indices.
func (g *PlaneGeometry) IndexCount() int {
	return len(g.Indices)
}
