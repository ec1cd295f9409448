package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/layout"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
	"github.com/Carmen-Shannon/oxy-gallery/engine/mesh"
)

// ErrAlreadyBuilt is returned by Build when the tracked set already exists. The set is fixed for the session.
var ErrAlreadyBuilt = errors.New("scene: already built")

// Backend owns the GPU side of every plane. The scene calls it between ticks only.
type Backend interface {
	// CreatePlane allocates vertex, index, texture and uniform resources for m.
	CreatePlane(m mesh.Mesh) error

	// ReplaceGeometry releases the current geometry buffers of m and uploads g.
	// The old buffers must be released before the call returns.
	ReplaceGeometry(m mesh.Mesh, g *mesh.PlaneGeometry) error

	// WritePlaneUniform queues the per-plane uniform block for upload.
	WritePlaneUniform(m mesh.Mesh, data []byte)

	// ReleasePlane frees every GPU resource held for m.
	ReleasePlane(m mesh.Mesh)
}

// TrackedImage binds a document element to its plane and caches the element rectangle.
// The cached rectangle is refreshed only on resize.
type TrackedImage struct {
	Index   int
	Element layout.Element
	Mesh    mesh.Mesh
	Rect    common.Rect
}

type scene struct {
	mu *sync.RWMutex

	name     string
	backend  Backend
	template material.Material
	segments int

	doc     layout.Document
	tracked []TrackedImage
	meshes  []mesh.Mesh
	built   bool

	viewportW float64
	viewportH float64
	scroll    float64
}

// Scene is the mesh synchronizer of the gallery. It turns every document element into one textured
// plane, keeps plane geometry in step with element size and places planes from the cached element
// rectangle, the scroll offset and the viewport size.
// Thread-safe for concurrent access, but the frame driver calls it from one thread only.
type Scene interface {
	// Name returns the scene identifier.
	Name() string

	// Build creates one TrackedImage and plane per document element, binds textures[i] to plane i,
	// registers the hover handlers and places every plane at scroll offset 0.
	// Missing textures leave the plane untextured. Build may only run once.
	//
	// Parameters:
	//   - doc: the laid-out document
	//   - textures: staged images in document order
	//
	// Returns:
	//   - error: ErrAlreadyBuilt, or a wrapped backend error
	Build(doc layout.Document, textures []common.TextureStagingData) error

	// Reposition places every plane for the scroll offset of fc:
	// x = left - vw/2 + w/2, y = scroll - top + vh/2 - h/2.
	//
	// Parameters:
	//   - fc: the frame context
	Reposition(fc common.FrameContext)

	// OnResize stores the new viewport, re-reads every element rectangle, replaces each plane
	// geometry (old GPU geometry released first) and repositions at the last scroll offset.
	//
	// Parameters:
	//   - vw, vh: viewport size in pixels
	//
	// Returns:
	//   - error: the first backend error, after all planes were attempted
	OnResize(vw, vh float64) error

	// PushUniforms writes fc.Time into every material and uploads each plane uniform block.
	//
	// Parameters:
	//   - fc: the frame context
	PushUniforms(fc common.FrameContext)

	// AdvanceTweens moves every hover tween forward by delta seconds.
	//
	// Parameters:
	//   - delta: elapsed wall-clock seconds
	AdvanceTweens(delta float64)

	// Meshes returns the planes in document order.
	Meshes() []mesh.Mesh

	// Tracked returns a copy of the tracked images in document order.
	Tracked() []TrackedImage

	// Len returns the number of tracked images.
	Len() int

	// Built reports whether Build completed.
	Built() bool

	// Viewport returns the viewport size used for placement.
	Viewport() (w, h float64)

	// SetViewport sets the viewport size without touching geometry.
	SetViewport(w, h float64)

	// Release frees every plane on the backend.
	Release()
}

var _ Scene = &scene{}

// NewScene creates an empty Scene bound to a GPU backend and a material template. Every plane receives
// a clone of the template. backend and template are required; NewScene panics if either is nil.
//
// Parameters:
//   - backend: the GPU plane backend
//   - template: the shared material template
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(backend Backend, template material.Material, options ...SceneBuilderOption) Scene {
	if backend == nil {
		panic("scene: NewScene requires a non-nil Backend")
	}
	if template == nil {
		panic("scene: NewScene requires a non-nil material template")
	}

	s := &scene{
		mu:        &sync.RWMutex{},
		name:      "gallery",
		backend:   backend,
		template:  template,
		segments:  mesh.DefaultSegments,
		viewportW: 1,
		viewportH: 1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// PlanePosition maps a document rectangle to the world position of its plane center.
//
// Parameters:
//   - r: document rectangle, top-left origin
//   - scroll: scroll offset in pixels
//   - vw, vh: viewport size in pixels
//
// Returns:
//   - x, y: world coordinates of the plane center
func PlanePosition(r common.Rect, scroll, vw, vh float64) (x, y float64) {
	x = r.Left - vw/2 + r.Width/2
	y = scroll - r.Top + vh/2 - r.Height/2
	return x, y
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Build(doc layout.Document, textures []common.TextureStagingData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.built {
		return ErrAlreadyBuilt
	}

	tracked := make([]TrackedImage, 0, doc.Len())
	meshes := make([]mesh.Mesh, 0, doc.Len())

	for i := range doc.Len() {
		el := doc.Element(i)
		rect := doc.Bounds(i)

		mat := s.template.Clone()
		if i < len(textures) {
			mat.SetTexture(textures[i])
		}

		m := mesh.NewMesh(
			mesh.WithID(i),
			mesh.WithName(fmt.Sprintf("%s_plane_%d", s.name, i)),
			mesh.WithGeometry(mesh.NewPlaneGeometry(rect.Width, rect.Height, s.segments, s.segments)),
			mesh.WithMaterial(mat),
		)
		if rect.Degenerate() {
			common.Logger().Warn("element has no area, plane will be invisible", "index", i, "name", el.Name)
		}

		if err := s.backend.CreatePlane(m); err != nil {
			for _, created := range meshes {
				s.backend.ReleasePlane(created)
			}
			return fmt.Errorf("scene %q: create plane %d: %w", s.name, i, err)
		}

		doc.OnPointerEnter(i, func() { mat.Hover(1) })
		doc.OnPointerLeave(i, func() { mat.Hover(0) })

		tracked = append(tracked, TrackedImage{Index: i, Element: el, Mesh: m, Rect: rect})
		meshes = append(meshes, m)
	}

	s.doc = doc
	s.tracked = tracked
	s.meshes = meshes
	s.built = true
	s.scroll = 0
	s.repositionLocked()

	common.Logger().Info("scene built", "scene", s.name, "planes", len(meshes))
	return nil
}

func (s *scene) Reposition(fc common.FrameContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scroll = fc.ScrollOffset
	s.repositionLocked()
}

// repositionLocked places every plane from the cached rects. Caller must hold the write lock.
func (s *scene) repositionLocked() {
	for _, t := range s.tracked {
		x, y := PlanePosition(t.Rect, s.scroll, s.viewportW, s.viewportH)
		t.Mesh.SetPosition(x, y)
	}
}

func (s *scene) OnResize(vw, vh float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewportW, s.viewportH = vw, vh
	if !s.built {
		return nil
	}

	var errs []error
	for i := range s.tracked {
		t := &s.tracked[i]
		rect := s.doc.Bounds(t.Index)

		// A failed replacement keeps the old geometry and the rect it was built from.
		g := mesh.NewPlaneGeometry(rect.Width, rect.Height, s.segments, s.segments)
		if err := s.backend.ReplaceGeometry(t.Mesh, g); err != nil {
			errs = append(errs, fmt.Errorf("scene %q: replace geometry %d: %w", s.name, t.Index, err))
			continue
		}
		t.Rect = rect
		t.Mesh.SetGeometry(g)
	}

	s.repositionLocked()
	common.Logger().Debug("scene resized", "scene", s.name, "width", vw, "height", vh)
	return errors.Join(errs...)
}

func (s *scene) PushUniforms(fc common.FrameContext) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.meshes {
		m.Material().SetTime(fc.Time)
		u := m.Uniform()
		s.backend.WritePlaneUniform(m, u.Marshal())
	}
}

func (s *scene) AdvanceTweens(delta float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.meshes {
		m.Material().AdvanceHover(delta)
	}
}

func (s *scene) Meshes() []mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meshes
}

func (s *scene) Tracked() []TrackedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TrackedImage(nil), s.tracked...)
}

func (s *scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracked)
}

func (s *scene) Built() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built
}

func (s *scene) Viewport() (w, h float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewportW, s.viewportH
}

func (s *scene) SetViewport(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewportW, s.viewportH = w, h
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.meshes {
		s.backend.ReleasePlane(m)
	}
	s.meshes = nil
	s.tracked = nil
}
