package postprocess

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPostUniformSource is the canonical WGSL definition of the PostUniform struct.
// Matches GPUPostUniform layout exactly (16 bytes).
//
//go:embed assets/post_uniform.wgsl
var GPUPostUniformSource string

// VertexShaderSource is the full-screen triangle vertex stage of the distortion pass.
//
//go:embed assets/post_vert.wgsl
var VertexShaderSource string

// FragmentShaderSource is the annotated WGSL fragment stage of the distortion pass.
//
//go:embed assets/post_frag.wgsl
var FragmentShaderSource string

// GPUPostUniform is the GPU-aligned uniform block of the distortion pass.
// Size: 16 bytes.
type GPUPostUniform struct {
	Time        float32    // offset 0: shared scene time
	ScrollSpeed float32    // offset 4: smoothed signed scroll speed
	Resolution  [2]float32 // offset 8: output size in pixels
}

// Size returns the size of the GPUPostUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUPostUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPostUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPUPostUniform) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Time))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.ScrollSpeed))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Resolution[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Resolution[1]))
	return buf
}
