package window

import "testing"

func TestWheelLines(t *testing.T) {
	if got := wheelLines(1); got != -1 {
		t.Errorf("wheel away = %v, want -1 (content up)", got)
	}
	if got := wheelLines(-2.5); got != 2.5 {
		t.Errorf("wheel towards = %v, want 2.5 (content down)", got)
	}
}

func TestLimit(t *testing.T) {
	if limit(0) != dontCare || limit(-5) != dontCare {
		t.Error("non-positive limits should map to DontCare")
	}
	if limit(640) != 640 {
		t.Errorf("limit(640) = %d", limit(640))
	}
}

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720}
	for _, opt := range []WindowBuilderOption{
		WithTitle("gallery"),
		WithSize(800, 0),
		WithMinSize(320, 240),
		WithMaxSize(0, 0),
	} {
		opt(w)
	}

	if w.title != "gallery" {
		t.Errorf("title = %q", w.title)
	}
	if w.width != 800 || w.height != 720 {
		t.Errorf("size = %dx%d, want 800x720", w.width, w.height)
	}
	if w.minWidth != 320 || w.minHeight != 240 || w.maxWidth != 0 || w.maxHeight != 0 {
		t.Errorf("limits = %d,%d %d,%d", w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	}
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{}
	if w.IsRunning() {
		t.Error("uninitialized window reports running")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("uninitialized window has a surface descriptor")
	}
	if err := w.Close(); err == nil {
		t.Error("Close on uninitialized window should fail")
	}
}
