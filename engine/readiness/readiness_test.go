package readiness

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGateResolves(t *testing.T) {
	dir := t.TempDir()
	small := writePNG(t, dir, "small.png", 40, 20)
	large := writePNG(t, dir, "large.png", 300, 150)

	var calls, lastTotal atomic.Int64
	g := NewGate(
		WithFonts(Source{Name: "Go Regular", Data: goregular.TTF}),
		WithImages(Source{Name: "small", Path: small}, Source{Name: "large", Path: large}),
		WithMaxTextureSize(100),
		WithWorkers(2),
		WithProgress(func(done, total int) {
			calls.Add(1)
			lastTotal.Store(int64(total))
		}),
	)

	if g.State() != StatePending {
		t.Fatalf("initial State() = %v", g.State())
	}

	assets, err := g.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if g.State() != StateReady {
		t.Fatalf("State() = %v, want ready", g.State())
	}

	if len(assets.Fonts) != 1 || assets.Fonts[0].Font == nil {
		t.Fatalf("fonts = %+v", assets.Fonts)
	}
	if len(assets.Images) != 2 {
		t.Fatalf("images = %d, want 2", len(assets.Images))
	}

	s := assets.Images[0]
	if s.Name != "small" || s.Texture.Width != 40 || s.Texture.Height != 20 || len(s.Texture.Pixels) != 40*20*4 {
		t.Fatalf("small image = %s %dx%d", s.Name, s.Texture.Width, s.Texture.Height)
	}
	l := assets.Images[1]
	if l.NaturalWidth != 300 || l.NaturalHeight != 150 || l.Texture.Width != 100 || l.Texture.Height != 50 {
		t.Fatalf("large image natural %dx%d texture %dx%d", l.NaturalWidth, l.NaturalHeight, l.Texture.Width, l.Texture.Height)
	}

	if calls.Load() != 3 || lastTotal.Load() != 3 {
		t.Fatalf("progress calls = %d, total = %d, want 3 and 3", calls.Load(), lastTotal.Load())
	}

	again, err := g.Wait(context.Background())
	if err != nil || again != assets {
		t.Fatal("second Wait() did not return the cached result")
	}
	select {
	case <-g.Done():
	default:
		t.Fatal("Done() not closed after resolve")
	}
}

func TestGateBlocksOnBadImage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := NewGate(WithImages(Source{Name: "bad", Path: bad}))
	assets, err := g.Wait(context.Background())

	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("Wait() error = %v, want ErrBlocked", err)
	}
	if assets != nil || g.State() != StateBlocked || g.Err() == nil {
		t.Fatalf("assets = %v, state = %v, err = %v", assets, g.State(), g.Err())
	}
}

func TestGateBlocksOnMissingFont(t *testing.T) {
	g := NewGate(WithFonts(Source{Name: "missing", Path: filepath.Join(t.TempDir(), "nope.ttf")}))
	_, err := g.Wait(context.Background())
	if !errors.Is(err, ErrBlocked) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestGateBlocksOnCancelledContext(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "a.png", 8, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGate(
		WithFonts(Source{Name: "Go Regular", Data: goregular.TTF}),
		WithImages(Source{Name: "a", Path: img}),
	)
	_, err := g.Wait(ctx)
	if !errors.Is(err, ErrBlocked) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want blocked by cancellation", err)
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, maxSize int
		wantW, wantH  int
	}{
		{100, 50, 200, 100, 50},
		{400, 200, 100, 100, 50},
		{200, 400, 100, 50, 100},
		{1000, 1, 100, 100, 1},
		{500, 500, 0, 500, 500},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, tt.maxSize)
		if w != tt.wantW || h != tt.wantH {
			t.Fatalf("FitSize(%d, %d, %d) = %d, %d, want %d, %d", tt.w, tt.h, tt.maxSize, w, h, tt.wantW, tt.wantH)
		}
	}
}
