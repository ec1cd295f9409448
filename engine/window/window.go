package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the native host of the gallery: a GLFW window with a WebGPU surface, its
// message loop and the input signals the gallery reacts to.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration, after events
	// of that iteration were dispatched.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetWheelCallback sets the callback for vertical mouse wheel and touchpad scrolling.
	//
	// Parameters:
	//   - callback: function receiving the movement in wheel lines, positive scrolls the content down
	SetWheelCallback(callback func(lines float64))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code (see common key codes)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetPointerMoveCallback sets the callback for cursor movement inside the window.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in framebuffer pixels
	SetPointerMoveCallback(callback func(x, y float64))

	// SetPointerLeaveCallback sets the callback for the cursor leaving the window.
	SetPointerLeaveCallback(callback func())

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the window message loop on the calling thread.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// Size limits applied while the user resizes the window.
	maxWidth, maxHeight int
	minWidth, minHeight int

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	// pixelRatio converts cursor coordinates (screen units) to framebuffer pixels.
	pixelRatio float64

	// native is nil until the GLFW window is open.
	native *glfwWindow

	onUpdate       func()
	onResize       func(width, height int)
	onWheel        func(lines float64)
	onKeyDown      func(keyCode uint32)
	onKeyUp        func(keyCode uint32)
	onPointerMove  func(x, y float64)
	onPointerLeave func()
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order. Panics if the platform window
// cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:      "oxy gallery",
		maxWidth:   3840,
		maxHeight:  2160,
		minWidth:   320,
		minHeight:  240,
		width:      1280,
		height:     720,
		pixelRatio: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	native, err := openGLFW(w)
	if err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	w.native = native
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetWheelCallback(callback func(lines float64)) {
	w.onWheel = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float64)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SetPointerLeaveCallback(callback func()) {
	w.onPointerLeave = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.native == nil {
		return nil
	}
	return w.native.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.native != nil && w.native.open()
}

func (w *engineWindow) Close() error {
	if w.native == nil {
		return errNotInitialized
	}
	w.native.destroy()
	w.native = nil
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() && w.native.poll() {
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// wheelLines converts a GLFW vertical scroll offset to content lines; GLFW reports positive
// offsets when the wheel moves away from the user, which scrolls the content up.
func wheelLines(yoff float64) float64 {
	return -yoff
}

// limit maps a non-positive size limit to GLFW's DontCare.
func limit(v int) int {
	if v <= 0 {
		return dontCare
	}
	return v
}
