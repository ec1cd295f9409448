package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for plane pipelines.
// Matches GPUVertex layout exactly (20 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUPlaneUniformSource is the canonical WGSL definition of the PlaneUniform struct.
// It references MaterialUniform, so it must be included after material.GPUMaterialUniformSource.
//
//go:embed assets/plane_uniform.wgsl
var GPUPlaneUniformSource string

// GPUVertex is the GPU-aligned representation of a single plane vertex.
// Size: 20 bytes, tightly packed vertex buffer layout.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in plane space (12 bytes)
	TexCoord [2]float32 // offset 12: UV texture coordinate, v = 1 on the top edge (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 20-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.TexCoord[1]))
	return buf
}

// GPUPlaneUniform is the per-plane uniform block: the world offset of the plane followed by its material uniform.
// Size: 32 bytes.
type GPUPlaneUniform struct {
	Offset   [4]float32                  // offset  0: world position xyz, w unused
	Material material.GPUMaterialUniform // offset 16: material uniform (16 bytes)
}

// Size returns the size of the GPUPlaneUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUPlaneUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPlaneUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUPlaneUniform) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Offset[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Offset[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Offset[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Offset[3]))
	copy(buf[16:], g.Material.Marshal())
	return buf
}
