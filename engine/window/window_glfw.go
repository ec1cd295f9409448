package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// dontCare disables a GLFW size limit.
const dontCare = glfw.DontCare

var errNotInitialized = errors.New("window is not initialized")

// glfwWindow is the native side of an engineWindow.
type glfwWindow struct {
	win     *glfw.Window
	closing bool
}

// openGLFW initializes GLFW on the calling (locked) thread and opens a window without a client API,
// since WebGPU owns the surface.
// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
func openGLFW(w *engineWindow) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create GLFW window: %w", err)
	}
	win.SetSizeLimits(limit(w.minWidth), limit(w.minHeight), limit(w.maxWidth), limit(w.maxHeight))

	g := &glfwWindow{win: win}
	g.bind(w)

	// The framebuffer can differ from the requested size on high-DPI displays.
	w.width, w.height = win.GetFramebufferSize()
	w.pixelRatio = g.pixelRatio()
	return g, nil
}

// bind forwards GLFW input to the engineWindow callbacks. Callbacks are read at event time, so they
// can be installed after the window opens.
func (g *glfwWindow) bind(w *engineWindow) {
	g.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			g.closing = true
			g.win.SetShouldClose(true)
			return
		}
		switch {
		case action == glfw.Release && w.onKeyUp != nil:
			w.onKeyUp(uint32(key))
		case action != glfw.Release && w.onKeyDown != nil:
			w.onKeyDown(uint32(key))
		}
	})

	g.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if yoff != 0 && w.onWheel != nil {
			w.onWheel(wheelLines(yoff))
		}
	})

	// Cursor positions arrive in screen coordinates; layout and picking work in framebuffer pixels.
	g.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onPointerMove != nil {
			w.onPointerMove(x*w.pixelRatio, y*w.pixelRatio)
		}
	})

	g.win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered && w.onPointerLeave != nil {
			w.onPointerLeave()
		}
	})

	g.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		w.pixelRatio = g.pixelRatio()
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
}

// pixelRatio returns framebuffer pixels per screen coordinate, 1 while minimized.
func (g *glfwWindow) pixelRatio() float64 {
	ww, _ := g.win.GetSize()
	fw, _ := g.win.GetFramebufferSize()
	if ww <= 0 || fw <= 0 {
		return 1
	}
	return float64(fw) / float64(ww)
}

// surfaceDescriptor uses the wgpuglfw bridge, which covers Windows, X11, Wayland and Metal.
func (g *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) open() bool {
	return !g.closing && !g.win.ShouldClose()
}

// poll dispatches pending events without blocking and reports whether the window is still open.
func (g *glfwWindow) poll() bool {
	glfw.PollEvents()
	return g.open()
}

func (g *glfwWindow) destroy() {
	g.closing = true
	g.win.SetShouldClose(true)
	g.win.Destroy()
	glfw.Terminate()
}
