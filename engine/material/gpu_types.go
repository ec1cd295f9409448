package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialUniformSource is the canonical WGSL definition of the MaterialUniform struct.
// Matches GPUMaterialUniform layout exactly (16 bytes).
//
//go:embed assets/material_uniform.wgsl
var GPUMaterialUniformSource string

// PlaneVertexShaderSource is the annotated WGSL vertex stage of the gallery plane pipeline.
//
//go:embed assets/plane_vert.wgsl
var PlaneVertexShaderSource string

// PlaneFragmentShaderSource is the annotated WGSL fragment stage of the gallery plane pipeline.
//
//go:embed assets/plane_frag.wgsl
var PlaneFragmentShaderSource string

// GPUMaterialUniform is the GPU-aligned per-plane material uniform read by the plane fragment shader.
// Size: 16 bytes (one vec4 slot).
type GPUMaterialUniform struct {
	HoverPoint [2]float32 // offset  0: pointer UV on the plane, (0, 0) bottom left
	Time       float32    // offset  8: shared scene time
	HoverState float32    // offset 12: hover intensity in [0, 1]
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.HoverPoint[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.HoverPoint[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Time))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.HoverState))
	return buf
}
