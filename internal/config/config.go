package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"shapecanvas/internal/canvas"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Shapes struct {
	MinSize      float64  `yaml:"min_size"`
	MaxSize      float64  `yaml:"max_size"`
	SpawnMinSize float64  `yaml:"spawn_min_size"`
	SpawnMaxSize float64  `yaml:"spawn_max_size"`
	Growth       string   `yaml:"growth"`
	Colors       string   `yaml:"colors"`
	Palette      []string `yaml:"palette"`
}

type Zoom struct {
	Factor   float64 `yaml:"factor"`
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
}

type Modes struct {
	Activation string `yaml:"activation"`
	Initial    string `yaml:"initial"`
}

type Config struct {
	Window   Window `yaml:"window"`
	Shapes   Shapes `yaml:"shapes"`
	Zoom     Zoom   `yaml:"zoom"`
	Modes    Modes  `yaml:"modes"`
	Seed     uint64 `yaml:"seed"`
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	palette := canvas.DefaultPalette()
	hex := make([]string, len(palette))
	for i, c := range palette {
		hex[i] = c.Hex()
	}
	return Config{
		Window: Window{Width: 1280, Height: 800, Title: "Shape Canvas"},
		Shapes: Shapes{
			MinSize:      50,
			MaxSize:      150,
			SpawnMinSize: 50,
			SpawnMaxSize: 100,
			Growth:       canvas.GrowthStep.String(),
			Colors:       canvas.ColorRandom.String(),
			Palette:      hex,
		},
		Zoom:     Zoom{Factor: 1.1, MinScale: 0.1, MaxScale: 10},
		Modes:    Modes{Activation: canvas.ActivationToggle.String(), Initial: canvas.ModePlaceOnClick.String()},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, rejecting unknown keys.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	s := c.Shapes
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case s.MinSize <= 0 || s.MaxSize < s.MinSize:
		return fmt.Errorf("%w: size range [%v,%v]", ErrInvalid, s.MinSize, s.MaxSize)
	case s.SpawnMinSize < s.MinSize || s.SpawnMaxSize > s.MaxSize || s.SpawnMaxSize < s.SpawnMinSize:
		return fmt.Errorf("%w: spawn range [%v,%v] outside [%v,%v]", ErrInvalid, s.SpawnMinSize, s.SpawnMaxSize, s.MinSize, s.MaxSize)
	case c.Zoom.Factor <= 1:
		return fmt.Errorf("%w: zoom factor %v must exceed 1", ErrInvalid, c.Zoom.Factor)
	case c.Zoom.MinScale <= 0 || c.Zoom.MaxScale < c.Zoom.MinScale:
		return fmt.Errorf("%w: scale range [%v,%v]", ErrInvalid, c.Zoom.MinScale, c.Zoom.MaxScale)
	}
	if _, err := c.CanvasOptions(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// CanvasOptions converts the file form into session options.
func (c Config) CanvasOptions() (canvas.Options, error) {
	opts := canvas.DefaultOptions()
	opts.Sizes = canvas.SizeLimits{
		Min:      c.Shapes.MinSize,
		Max:      c.Shapes.MaxSize,
		SpawnMin: c.Shapes.SpawnMinSize,
		SpawnMax: c.Shapes.SpawnMaxSize,
	}
	opts.Zoom = canvas.ZoomLimits{Factor: c.Zoom.Factor, MinScale: c.Zoom.MinScale, MaxScale: c.Zoom.MaxScale}

	var err error
	if opts.Growth, err = canvas.ParseGrowth(c.Shapes.Growth); err != nil {
		return canvas.Options{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if opts.Colors, err = canvas.ParseColorPolicy(c.Shapes.Colors); err != nil {
		return canvas.Options{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if opts.Activation, err = canvas.ParseActivation(c.Modes.Activation); err != nil {
		return canvas.Options{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if opts.InitialMode, err = canvas.ParseMode(c.Modes.Initial); err != nil {
		return canvas.Options{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(c.Shapes.Palette) > 0 {
		opts.Palette = make([]canvas.RGB, 0, len(c.Shapes.Palette))
		for _, h := range c.Shapes.Palette {
			rgb, err := canvas.ParseHex(h)
			if err != nil {
				return canvas.Options{}, fmt.Errorf("%w: palette: %v", ErrInvalid, err)
			}
			opts.Palette = append(opts.Palette, rgb)
		}
	}
	return opts, nil
}

// ParseLevel maps a log level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, name)
	}
	return lvl, nil
}
