package readiness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/go-text/typesetting/font"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ErrBlocked is returned when an asset fails to load or the gate times out. The cause is wrapped alongside it.
var ErrBlocked = errors.New("readiness: blocked")

// State is the observable state of a Gate.
type State int32

const (
	StatePending State = iota
	StateReady
	StateBlocked
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Source names one asset and where its bytes come from. Data takes precedence over Path.
type Source struct {
	Name string
	Path string
	Data []byte
}

// DecodedImage is a preloaded image staged for texture upload.
type DecodedImage struct {
	Name string
	// NaturalWidth and NaturalHeight are the decoded size before any downscale.
	NaturalWidth  int
	NaturalHeight int
	Texture       common.TextureStagingData
}

// LoadedFont is a parsed font face.
type LoadedFont struct {
	Name string
	Font *font.Font
}

// Assets is the result of a resolved Gate, in configuration order.
type Assets struct {
	Images []DecodedImage
	Fonts  []LoadedFont
}

type gateImpl struct {
	once *sync.Once

	fonts          []Source
	images         []Source
	timeout        time.Duration
	maxTextureSize int
	workers        int
	progress       func(done, total int)

	state  atomic.Int32
	assets *Assets
	err    error
	done   chan struct{}
}

// Gate blocks gallery construction until every configured font and image has loaded.
// The gate resolves exactly once; later calls to Wait return the cached result.
type Gate interface {
	// Wait loads all assets, or returns the cached outcome of the first call.
	// Concurrent callers block until the first call resolves.
	//
	// Parameters:
	//   - ctx: cancels the load; the configured timeout applies on top of it
	//
	// Returns:
	//   - *Assets: the loaded assets, nil when blocked
	//   - error: nil, or an error wrapping ErrBlocked and the cause
	Wait(ctx context.Context) (*Assets, error)

	// State returns the current gate state.
	State() State

	// Err returns the blocking error, or nil.
	Err() error

	// Done is closed once the gate has resolved either way.
	Done() <-chan struct{}
}

var _ Gate = &gateImpl{}

// NewGate creates a Gate. Defaults: 30s timeout, 2048px max texture size, NumCPU decode workers.
//
// Parameters:
//   - options: variadic list of GateBuilderOption functions
//
// Returns:
//   - Gate: the configured gate
func NewGate(options ...GateBuilderOption) Gate {
	g := &gateImpl{
		once:           &sync.Once{},
		timeout:        30 * time.Second,
		maxTextureSize: 2048,
		workers:        max(runtime.NumCPU(), 1),
		done:           make(chan struct{}),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *gateImpl) Wait(ctx context.Context) (*Assets, error) {
	g.once.Do(func() {
		g.assets, g.err = g.load(ctx)
		if g.err != nil {
			g.assets = nil
			g.err = fmt.Errorf("%w: %w", ErrBlocked, g.err)
			g.state.Store(int32(StateBlocked))
			common.Logger().Error("readiness gate blocked", "error", g.err)
		} else {
			g.state.Store(int32(StateReady))
			common.Logger().Info("readiness gate resolved", "images", len(g.assets.Images), "fonts", len(g.assets.Fonts))
		}
		close(g.done)
	})

	<-g.done
	return g.assets, g.err
}

func (g *gateImpl) State() State {
	return State(g.state.Load())
}

func (g *gateImpl) Err() error {
	select {
	case <-g.done:
		return g.err
	default:
		return nil
	}
}

func (g *gateImpl) Done() <-chan struct{} {
	return g.done
}

// load joins font parsing and image preloading.
func (g *gateImpl) load(ctx context.Context) (*Assets, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	total := len(g.fonts) + len(g.images)
	var finished atomic.Int64
	tick := func() {
		n := finished.Add(1)
		if g.progress != nil {
			g.progress(int(n), total)
		}
	}

	assets := &Assets{
		Images: make([]DecodedImage, len(g.images)),
		Fonts:  make([]LoadedFont, len(g.fonts)),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		for i, src := range g.fonts {
			if err := egCtx.Err(); err != nil {
				return err
			}
			f, err := loadFont(src)
			if err != nil {
				return err
			}
			assets.Fonts[i] = f
			tick()
		}
		return nil
	})
	eg.Go(func() error {
		return g.loadImages(egCtx, assets.Images, tick)
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

// loadImages decodes every image on a worker pool and waits for all of them or for ctx.
func (g *gateImpl) loadImages(ctx context.Context, out []DecodedImage, tick func()) error {
	if len(g.images) == 0 {
		return nil
	}

	pool := worker.NewDynamicWorkerPool(min(g.workers, len(g.images)), len(g.images), 1*time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, src := range g.images {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}

				img, err := decodeImage(src, g.maxTextureSize)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return nil, err
				}

				out[i] = img
				tick()
				return nil, nil
			},
		})
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		return fmt.Errorf("preload images: %w", ctx.Err())
	}

	mu.Lock()
	defer mu.Unlock()
	return firstErr
}

func readSource(src Source) ([]byte, error) {
	if src.Data != nil {
		return src.Data, nil
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func loadFont(src Source) (LoadedFont, error) {
	data, err := readSource(src)
	if err != nil {
		return LoadedFont{}, fmt.Errorf("font %q: %w", src.Name, err)
	}

	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return LoadedFont{}, fmt.Errorf("font %q: parse: %w", src.Name, err)
	}

	common.Logger().Debug("font loaded", "name", src.Name, "bytes", len(data))
	return LoadedFont{Name: src.Name, Font: face.Font}, nil
}

func decodeImage(src Source, maxSize int) (DecodedImage, error) {
	data, err := readSource(src)
	if err != nil {
		return DecodedImage{}, fmt.Errorf("image %q: %w", src.Name, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return DecodedImage{}, fmt.Errorf("image %q: decode: %w", src.Name, err)
	}

	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	}

	common.Logger().Debug("image decoded", "name", src.Name, "format", format, "width", b.Dx(), "height", b.Dy(), "texture_width", w, "texture_height", h)
	return DecodedImage{
		Name:          src.Name,
		NaturalWidth:  b.Dx(),
		NaturalHeight: b.Dy(),
		Texture: common.TextureStagingData{
			Pixels: dst.Pix,
			Width:  uint32(w),
			Height: uint32(h),
		},
	}, nil
}

// FitSize scales (w, h) down so that neither side exceeds maxSize, keeping the aspect ratio.
// Sizes already within bounds, and maxSize <= 0, are returned unchanged. Results are at least 1.
func FitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(h*maxSize/w, 1)
	}
	return max(w*maxSize/h, 1), maxSize
}
