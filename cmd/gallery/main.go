// Command gallery renders a scroll-driven image gallery: every configured image becomes a textured
// plane, the wheel scrolls the column and a full-screen pass distorts the frame by scroll speed.
//
// Usage:
//
//	gallery -config gallery.yaml [-profile] [-clock fixed|delta] [-log debug]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/schollz/progressbar/v3"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/config"
	"github.com/Carmen-Shannon/oxy-gallery/engine/layout"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
	"github.com/Carmen-Shannon/oxy-gallery/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-gallery/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gallery/engine/readiness"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scroll"
	"github.com/Carmen-Shannon/oxy-gallery/engine/window"
)

const (
	exitFailure = 1
	exitBlocked = 2
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath string
	profile    bool
	clock      string
	logLevel   string
}

func main() {
	opts := options{}
	flag.StringVar(&opts.configPath, "config", "gallery.yaml", "path to the gallery configuration")
	flag.BoolVar(&opts.profile, "profile", false, "log frame and memory statistics")
	flag.StringVar(&opts.clock, "clock", "", "scene clock: fixed or delta (overrides the configuration)")
	flag.StringVar(&opts.logLevel, "log", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "gallery: %v\n", err)
		if errors.Is(err, readiness.ErrBlocked) {
			os.Exit(exitBlocked)
		}
		os.Exit(exitFailure)
	}
}

func run(opts options) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid -log level %q: %w", opts.logLevel, err)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.clock != "" {
		cfg.Clock.Mode = opts.clock
	}
	clockMode, err := engine.ParseClockMode(cfg.Clock.Mode)
	if err != nil {
		return err
	}
	clockValue := cfg.Clock.Step
	if clockMode == engine.ClockDelta {
		clockValue = cfg.Clock.Rate
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	presentMode := renderer.PresentModeVSync
	if cfg.Renderer.PresentMode == "uncapped" {
		presentMode = renderer.PresentModeUncapped
	}
	c := cfg.Renderer.ClearColor
	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithClearColor(wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()

	// ── Camera + GPU targets ────────────────────────────────────────────
	cam := camera.NewCamera(camera.WithViewport(win.Width(), win.Height()))

	planes, err := renderer.NewPlaneBackend(r, cam)
	if err != nil {
		return fmt.Errorf("create plane backend: %w", err)
	}
	defer planes.Release()

	post, err := renderer.NewPostTarget(r)
	if err != nil {
		return fmt.Errorf("create post target: %w", err)
	}
	defer post.Release()

	compositor := postprocess.NewCompositor(post, planes)

	// ── Readiness ───────────────────────────────────────────────────────
	fonts, images := cfg.FontSources(), cfg.ImageSources()
	bar := progressbar.Default(int64(len(fonts)+len(images)), "preloading")
	gate := readiness.NewGate(
		readiness.WithFonts(fonts...),
		readiness.WithImages(images...),
		readiness.WithTimeout(cfg.Readiness.Timeout),
		readiness.WithMaxTextureSize(cfg.Readiness.MaxTextureSize),
		readiness.WithWorkers(cfg.Readiness.Workers),
		readiness.WithProgress(func(done, total int) {
			_ = bar.Set(done)
		}),
	)

	// ── Engine ──────────────────────────────────────────────────────────
	engineOpts := []engine.EngineBuilderOption{
		engine.WithCamera(cam),
		engine.WithClock(clockMode, clockValue),
		engine.WithMaterial(material.NewMaterial(
			material.WithName("gallery"),
			material.WithPipelineKey(renderer.PlanePipelineKey),
			material.WithHoverTiming(cfg.Hover.Duration, cfg.HoverEase()),
		)),
		engine.WithScroll(scroll.NewScroll(
			scroll.WithEase(cfg.Scroll.Ease),
			scroll.WithSpeedSmoothing(cfg.Scroll.SpeedSmoothing),
			scroll.WithMaxDelta(cfg.Scroll.MaxDelta),
			scroll.WithWheelScale(cfg.Scroll.WheelScale),
		)),
		engine.WithDocumentOptions(
			layout.WithWidthFraction(cfg.Layout.WidthFraction),
			layout.WithGap(cfg.Layout.Gap),
			layout.WithPadding(cfg.Layout.Padding),
		),
		engine.WithFixedRects(cfg.FixedRects()...),
		engine.WithPageRatio(cfg.Scroll.PageRatio),
	}
	if opts.profile || cfg.Profile.Enabled {
		engineOpts = append(engineOpts, engine.WithProfiler(profiler.NewProfiler(cfg.Profile.Interval)))
	}
	eng := engine.NewEngine(win, gate, planes, compositor, engineOpts...)
	defer eng.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = eng.Start(ctx)
	_ = bar.Finish()
	if err != nil {
		return err
	}
	return eng.Run()
}
