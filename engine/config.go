package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned by LoadConfig and Config.Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config is the application-level configuration of an Engine, usually loaded from a TOML file.
// Zero-valued fields in a file keep their DefaultConfig values.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Render    RenderConfig    `toml:"render"`
	Texture   TextureConfig   `toml:"texture"`
	Profiling ProfilingConfig `toml:"profiling"`
}

// WindowConfig configures the window the engine opens when none is supplied.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Hidden bool   `toml:"hidden"`
	VSync  bool   `toml:"vsync"`
}

// RenderConfig configures the frame loop.
type RenderConfig struct {
	// ClearColor is the RGBA colour the colour buffer is cleared to each frame.
	ClearColor [4]float32 `toml:"clear_color"`
	DepthTest  bool       `toml:"depth_test"`
	// FrameLimit caps frames per second; 0 is uncapped.
	FrameLimit float64 `toml:"frame_limit"`
	// TickRate is the fixed update rate of the tick callback in ticks per second.
	TickRate float64 `toml:"tick_rate"`
}

// TextureConfig configures the decode pool shared by textures created through Engine.NewTexture.
type TextureConfig struct {
	DecodeWorkers    int  `toml:"decode_workers"`
	QueueSize        int  `toml:"queue_size"`
	OriginBottomLeft bool `toml:"origin_bottom_left"`
}

// ProfilingConfig configures the profiler.
type ProfilingConfig struct {
	Enabled    bool `toml:"enabled"`
	IntervalMS int  `toml:"interval_ms"`
}

// DefaultConfig returns the configuration used when no file is given.
//
// Returns:
//   - Config: the defaults
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-gl",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0, 0, 0, 1},
			DepthTest:  true,
			TickRate:   60,
		},
		Texture: TextureConfig{
			DecodeWorkers:    1,
			QueueSize:        16,
			OriginBottomLeft: true,
		},
		Profiling: ProfilingConfig{
			IntervalMS: 1000,
		},
	}
}

// ParseConfig decodes TOML on top of DefaultConfig. Unknown keys are rejected.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the merged configuration
//   - error: a decode error or ErrInvalidConfig
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML file and decodes it with ParseConfig.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: a read, decode or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks ranges that would otherwise surface as GL or worker pool misbehaviour.
//
// Returns:
//   - error: nil, or ErrInvalidConfig wrapped with the offending field
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Render.FrameLimit < 0:
		return fmt.Errorf("%w: render.frame_limit %v", ErrInvalidConfig, c.Render.FrameLimit)
	case c.Render.TickRate <= 0:
		return fmt.Errorf("%w: render.tick_rate %v", ErrInvalidConfig, c.Render.TickRate)
	case c.Texture.DecodeWorkers <= 0:
		return fmt.Errorf("%w: texture.decode_workers %d", ErrInvalidConfig, c.Texture.DecodeWorkers)
	case c.Texture.QueueSize <= 0:
		return fmt.Errorf("%w: texture.queue_size %d", ErrInvalidConfig, c.Texture.QueueSize)
	case c.Profiling.IntervalMS < 0:
		return fmt.Errorf("%w: profiling.interval_ms %d", ErrInvalidConfig, c.Profiling.IntervalMS)
	}
	for _, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: render.clear_color %v", ErrInvalidConfig, c.Render.ClearColor)
		}
	}
	return nil
}
