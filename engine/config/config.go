// Package config loads the gallery's YAML configuration. Defaults are applied first and the file is
// decoded on top of them, so a file only needs the keys it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/readiness"
	"github.com/Carmen-Shannon/oxy-gallery/engine/tween"
)

// Config is the complete gallery configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Clock     ClockConfig     `yaml:"clock"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Layout    LayoutConfig    `yaml:"layout"`
	Hover     HoverConfig     `yaml:"hover"`
	Readiness ReadinessConfig `yaml:"readiness"`
	Profile   ProfileConfig   `yaml:"profile"`
	Fonts     []string        `yaml:"fonts"`
	Images    []ImageConfig   `yaml:"images"`

	// dir is the directory of the loaded file; relative asset paths resolve against it.
	dir string
}

// WindowConfig contains the native window settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RendererConfig contains GPU settings.
type RendererConfig struct {
	PresentMode   string     `yaml:"present_mode"` // vsync, uncapped
	MSAA          int        `yaml:"msaa"`         // 1, 4, 8, 16
	ClearColor    [4]float64 `yaml:"clear_color"`  // rgba in [0, 1]
	ForceSoftware bool       `yaml:"force_software"`
}

// ClockConfig selects how scene time advances.
type ClockConfig struct {
	Mode string  `yaml:"mode"` // fixed, delta
	Step float64 `yaml:"step"` // seconds added per tick in fixed mode
	Rate float64 `yaml:"rate"` // wall-clock multiplier in delta mode
}

// ScrollConfig contains the smoothed scroll settings.
type ScrollConfig struct {
	Ease           float64 `yaml:"ease"`
	SpeedSmoothing float64 `yaml:"speed_smoothing"`
	MaxDelta       float64 `yaml:"max_delta"`   // pixels per tick mapped to speed 1
	WheelScale     float64 `yaml:"wheel_scale"` // pixels per wheel line
	PageRatio      float64 `yaml:"page_ratio"`  // viewport fraction per Page Up/Down
}

// LayoutConfig contains the automatic column layout.
type LayoutConfig struct {
	WidthFraction float64 `yaml:"width_fraction"`
	Gap           float64 `yaml:"gap"`
	Padding       float64 `yaml:"padding"`
}

// HoverConfig contains the hover tween timing.
type HoverConfig struct {
	Duration float64 `yaml:"duration"` // seconds
	Ease     string  `yaml:"ease"`     // power1.out, linear
}

// ReadinessConfig contains asset preloading settings.
type ReadinessConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	MaxTextureSize int           `yaml:"max_texture_size"`
	Workers        int           `yaml:"workers"` // 0 uses one worker per CPU
}

// ProfileConfig contains frame statistics logging.
type ProfileConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// ImageConfig is one gallery image.
type ImageConfig struct {
	Path string `yaml:"path"`
	Name string `yaml:"name,omitempty"`
	// Rect pins the image to a document rectangle instead of the automatic column.
	Rect *common.Rect `yaml:"rect,omitempty"`
}

var (
	presentModes = []string{"vsync", "uncapped"}
	msaaCounts   = []int{1, 4, 8, 16}
	clockModes   = []string{"fixed", "delta"}
	eases        = map[string]tween.Ease{
		"power1.out": tween.Power1Out,
		"linear":     tween.Linear,
	}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "oxy gallery",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
			ClearColor:  [4]float64{1, 1, 1, 1},
		},
		Clock: ClockConfig{
			Mode: "fixed",
			Step: 0.05,
			Rate: 3.0,
		},
		Scroll: ScrollConfig{
			Ease:           0.1,
			SpeedSmoothing: 0.2,
			MaxDelta:       200,
			WheelScale:     100,
			PageRatio:      0.9,
		},
		Layout: LayoutConfig{
			WidthFraction: 0.6,
			Gap:           80,
			Padding:       120,
		},
		Hover: HoverConfig{
			Duration: 1,
			Ease:     "power1.out",
		},
		Readiness: ReadinessConfig{
			Timeout:        30 * time.Second,
			MaxTextureSize: 2048,
		},
		Profile: ProfileConfig{
			Interval: time.Second,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
//
// Parameters:
//   - path: the configuration file
//
// Returns:
//   - *Config: the merged configuration
//   - error: a read, parse or validation error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Relative paths resolve against the
// working directory.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - *Config: the merged configuration
//   - error: a parse or validation error
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every field and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(slices.Contains(presentModes, c.Renderer.PresentMode), "renderer.present_mode %q must be one of %v", c.Renderer.PresentMode, presentModes)
	check(slices.Contains(msaaCounts, c.Renderer.MSAA), "renderer.msaa %d must be one of %v", c.Renderer.MSAA, msaaCounts)
	for i, v := range c.Renderer.ClearColor {
		check(v >= 0 && v <= 1, "renderer.clear_color[%d] %v must be in [0, 1]", i, v)
	}

	check(slices.Contains(clockModes, c.Clock.Mode), "clock.mode %q must be one of %v", c.Clock.Mode, clockModes)
	check(c.Clock.Step > 0, "clock.step must be positive")
	check(c.Clock.Rate > 0, "clock.rate must be positive")

	check(c.Scroll.Ease > 0 && c.Scroll.Ease <= 1, "scroll.ease %v must be in (0, 1]", c.Scroll.Ease)
	check(c.Scroll.SpeedSmoothing > 0 && c.Scroll.SpeedSmoothing <= 1, "scroll.speed_smoothing %v must be in (0, 1]", c.Scroll.SpeedSmoothing)
	check(c.Scroll.MaxDelta > 0, "scroll.max_delta must be positive")
	check(c.Scroll.WheelScale > 0, "scroll.wheel_scale must be positive")
	check(c.Scroll.PageRatio > 0, "scroll.page_ratio must be positive")

	check(c.Layout.WidthFraction > 0 && c.Layout.WidthFraction <= 1, "layout.width_fraction %v must be in (0, 1]", c.Layout.WidthFraction)
	check(c.Layout.Gap >= 0, "layout.gap must not be negative")
	check(c.Layout.Padding >= 0, "layout.padding must not be negative")

	check(c.Hover.Duration > 0, "hover.duration must be positive")
	_, ok := eases[c.Hover.Ease]
	check(ok, "hover.ease %q is not a known ease", c.Hover.Ease)

	check(c.Readiness.Timeout > 0, "readiness.timeout must be positive")
	check(c.Readiness.MaxTextureSize > 0, "readiness.max_texture_size must be positive")
	check(c.Readiness.Workers >= 0, "readiness.workers must not be negative")
	check(!c.Profile.Enabled || c.Profile.Interval > 0, "profile.interval must be positive")

	check(len(c.Images) > 0, "at least one image is required")
	for i, img := range c.Images {
		check(img.Path != "", "images[%d].path is required", i)
		if img.Rect != nil {
			check(img.Rect.Width >= 0 && img.Rect.Height >= 0, "images[%d].rect size must not be negative", i)
		}
	}
	for i, f := range c.Fonts {
		check(f != "", "fonts[%d] is empty", i)
	}
	return errors.Join(errs...)
}

// HoverEase returns the configured hover ease.
func (c *Config) HoverEase() tween.Ease {
	if e, ok := eases[c.Hover.Ease]; ok {
		return e
	}
	return tween.Power1Out
}

// ImageSources returns the readiness sources of the images, in configuration order.
func (c *Config) ImageSources() []readiness.Source {
	out := make([]readiness.Source, len(c.Images))
	for i, img := range c.Images {
		name := img.Name
		if name == "" {
			name = filepath.Base(img.Path)
		}
		out[i] = readiness.Source{Name: name, Path: c.resolve(img.Path)}
	}
	return out
}

// FontSources returns the readiness sources of the fonts, in configuration order.
func (c *Config) FontSources() []readiness.Source {
	out := make([]readiness.Source, len(c.Fonts))
	for i, f := range c.Fonts {
		out[i] = readiness.Source{Name: filepath.Base(f), Path: c.resolve(f)}
	}
	return out
}

// FixedRects returns the pinned rectangle of every image, nil where the image uses the column layout.
func (c *Config) FixedRects() []*common.Rect {
	out := make([]*common.Rect, len(c.Images))
	for i, img := range c.Images {
		if img.Rect != nil {
			r := *img.Rect
			out[i] = &r
		}
	}
	return out
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}
