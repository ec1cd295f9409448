package postprocess

import "sync"

type stage struct {
	mu *sync.Mutex

	time        float64
	scrollSpeed float64
	width       int
	height      int
}

// Stage holds the per-frame parameters of the full-screen distortion pass.
// The base-pass texture it samples is owned by the renderer's offscreen target.
type Stage interface {
	// SetFrameUniforms stores the values the next Render call uploads.
	//
	// Parameters:
	//   - time: shared scene time, identical to the value written into every plane material
	//   - scrollSpeed: smoothed signed scroll speed
	SetFrameUniforms(time, scrollSpeed float64)

	// SetResolution stores the output size in pixels.
	SetResolution(width, height int)

	// Time returns the time of the last SetFrameUniforms call.
	Time() float64

	// ScrollSpeed returns the scroll speed of the last SetFrameUniforms call.
	ScrollSpeed() float64

	// Resolution returns the output size in pixels.
	Resolution() (int, int)

	// Uniform builds the GPU uniform block from the current values.
	//
	// Returns:
	//   - GPUPostUniform: the uniform block for upload
	Uniform() GPUPostUniform
}

var _ Stage = &stage{}

// NewStage creates a Stage with zeroed uniforms.
func NewStage() Stage {
	return &stage{mu: &sync.Mutex{}}
}

func (s *stage) SetFrameUniforms(time, scrollSpeed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.time = time
	s.scrollSpeed = scrollSpeed
}

func (s *stage) SetResolution(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *stage) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.time
}

func (s *stage) ScrollSpeed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollSpeed
}

func (s *stage) Resolution() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *stage) Uniform() GPUPostUniform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return GPUPostUniform{
		Time:        float32(s.time),
		ScrollSpeed: float32(s.scrollSpeed),
		Resolution:  [2]float32{float32(s.width), float32(s.height)},
	}
}
