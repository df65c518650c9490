// Package engine runs the frame loop: it swaps decoded textures to the front, clears the framebuffer, draws
// registered programs in order, presents and reports profiling stats, all on the thread owning the GL context.
package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built around a bare GPU context.
var ErrNoWindow = errors.New("engine has no window")

// Drawer is anything the frame loop can draw, typically a program.Program.
type Drawer interface {
	Draw()
}

// engine implements the Engine interface.
type engine struct {
	cfg    Config
	window window.Window
	ctx    gpu.Context

	profiler         *profiler.Profiler
	profilingEnabled bool

	decodePool worker.DynamicWorkerPool
	textures   []texture.Texture

	drawers map[int]Drawer
	order   []int

	tickRate     time.Duration
	tickCallback func(deltaTime float32)
	tickBacklog  time.Duration

	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration

	lastFrame time.Time
	quit      bool
	closed    bool
}

// Engine is the main entry point. It owns the frame loop and the texture decode pool.
// All methods must be called on the goroutine that owns the GL context.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	Window() window.Window

	// GL returns the GPU context every program, drawable and texture of this engine must use.
	GL() gpu.Context

	// Config returns the configuration the engine was built with.
	Config() Config

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Profiler returns the profiler, whether or not it is enabled.
	Profiler() *profiler.Profiler

	// SetTickRate sets the fixed update rate of the tick callback.
	//
	// Parameters:
	//   - tps: ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetTickCallback registers the function called at the fixed tick rate, before drawing. Several ticks run
	// in one frame when rendering falls behind.
	//
	// Parameters:
	//   - callback: function receiving the fixed tick duration in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each frame after the registered drawers have drawn.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous frame in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop.
	SetRenderFrameLimit(fps float64)

	// NewTexture creates a texture sharing the engine's decode pool and registers it for swapping at the start
	// of every frame.
	//
	// Parameters:
	//   - options: texture options, applied after the engine's
	//
	// Returns:
	//   - texture.Texture: the texture
	NewTexture(options ...texture.TextureBuilderOption) texture.Texture

	// AddTexture registers a texture for swapping at the start of every frame.
	AddTexture(tex texture.Texture)

	// RemoveTexture stops swapping a texture. The texture is not closed.
	RemoveTexture(tex texture.Texture)

	// AddDrawer registers a drawer at the given key. Drawers draw in ascending key order; a drawer already at
	// the key is replaced.
	//
	// Parameters:
	//   - key: the draw order key (lower draws first)
	//   - d: the drawer
	AddDrawer(key int, d Drawer)

	// RemoveDrawer removes the drawer at the given key.
	RemoveDrawer(key int)

	// Drawer returns the drawer at the given key, or nil.
	Drawer(key int) Drawer

	// Frame runs one iteration of the loop: swap textures, run due ticks, clear, draw, run the render
	// callback, present and tick the profiler.
	Frame()

	// Run processes window events and runs frames until the window closes or Quit is called, then releases
	// the engine.
	//
	// Returns:
	//   - error: ErrNoWindow for a headless engine
	Run() error

	// Quit makes Run return after the current frame.
	Quit()

	// Close stops the decode pool, closes every registered texture and closes the window.
	// Safe to call more than once.
	Close()
}

var _ Engine = &engine{}

// NewEngine creates an Engine. Without WithWindow or WithContext a window is opened from the configuration,
// which requires a display.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine
//   - error: ErrInvalidConfig, or a window creation error
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		cfg:     DefaultConfig(),
		drawers: make(map[int]Drawer),
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	if e.window == nil && e.ctx == nil {
		w, err := window.NewWindow(
			window.WithTitle(e.cfg.Window.Title),
			window.WithWidth(e.cfg.Window.Width),
			window.WithHeight(e.cfg.Window.Height),
			window.WithHidden(e.cfg.Window.Hidden),
			window.WithVSync(e.cfg.Window.VSync),
		)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.window = w
	}
	if e.ctx == nil {
		e.ctx = e.window.GL()
	}

	e.profilingEnabled = e.profilingEnabled || e.cfg.Profiling.Enabled
	e.profiler = profiler.NewProfiler(time.Duration(e.cfg.Profiling.IntervalMS) * time.Millisecond)
	e.tickRate = tickDuration(e.cfg.Render.TickRate)
	e.renderFrameLimit = frameDuration(e.cfg.Render.FrameLimit)
	e.decodePool = worker.NewDynamicWorkerPool(e.cfg.Texture.DecodeWorkers, e.cfg.Texture.QueueSize, time.Minute)

	if e.cfg.Render.DepthTest {
		e.ctx.Enable(gpu.DEPTH_TEST)
	}
	if e.window != nil {
		e.ctx.Viewport(0, 0, int32(e.window.Width()), int32(e.window.Height()))
		e.window.SetResizeCallback(func(width, height int) {
			e.ctx.Viewport(0, 0, int32(width), int32(height))
		})
	}

	common.Logger().Debug("engine created", "decode_workers", e.cfg.Texture.DecodeWorkers, "headless", e.window == nil)
	return e, nil
}

func tickDuration(tps float64) time.Duration {
	if tps <= 0 {
		tps = 60
	}
	return time.Duration(float64(time.Second) / tps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) GL() gpu.Context {
	return e.ctx
}

func (e *engine) Config() Config {
	return e.cfg
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) SetTickRate(tps float64) {
	e.tickRate = tickDuration(tps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) NewTexture(options ...texture.TextureBuilderOption) texture.Texture {
	opts := append([]texture.TextureBuilderOption{
		texture.WithDecodePool(e.decodePool),
		texture.WithOriginBottomLeft(e.cfg.Texture.OriginBottomLeft),
	}, options...)
	tex := texture.NewTexture(e.ctx, opts...)
	e.AddTexture(tex)
	return tex
}

func (e *engine) AddTexture(tex texture.Texture) {
	if !slices.Contains(e.textures, tex) {
		e.textures = append(e.textures, tex)
	}
}

func (e *engine) RemoveTexture(tex texture.Texture) {
	e.textures = slices.DeleteFunc(e.textures, func(t texture.Texture) bool { return t == tex })
}

func (e *engine) AddDrawer(key int, d Drawer) {
	e.drawers[key] = d
	e.order = slices.Sorted(maps.Keys(e.drawers))
}

func (e *engine) RemoveDrawer(key int) {
	delete(e.drawers, key)
	e.order = slices.Sorted(maps.Keys(e.drawers))
}

func (e *engine) Drawer(key int) Drawer {
	return e.drawers[key]
}

func (e *engine) Frame() {
	now := time.Now()
	if e.lastFrame.IsZero() {
		e.lastFrame = now
	}
	dt := now.Sub(e.lastFrame)
	e.lastFrame = now

	swaps := 0
	for _, tex := range e.textures {
		if tex.Swap() {
			swaps++
		}
	}

	if e.tickCallback != nil {
		// Bound the backlog so a long stall does not turn into a burst of ticks.
		e.tickBacklog = min(e.tickBacklog+dt, 5*e.tickRate)
		for e.tickBacklog >= e.tickRate {
			e.tickCallback(float32(e.tickRate.Seconds()))
			e.tickBacklog -= e.tickRate
		}
	}

	c := e.cfg.Render.ClearColor
	e.ctx.ClearColor(c[0], c[1], c[2], c[3])
	mask := gpu.COLOR_BUFFER_BIT
	if e.cfg.Render.DepthTest {
		mask |= gpu.DEPTH_BUFFER_BIT
	}
	e.ctx.Clear(mask)

	for _, key := range e.order {
		e.drawers[key].Draw()
	}

	if e.renderCallback != nil {
		e.renderCallback(float32(dt.Seconds()))
	}

	if e.window != nil {
		e.window.SwapBuffers()
	}

	if e.profilingEnabled {
		e.profiler.AddDraws(len(e.order))
		e.profiler.AddTextureSwaps(swaps)
		e.profiler.Tick()
	}
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	defer e.Close()

	e.quit = false
	for !e.quit && e.window.PollEvents() {
		start := time.Now()
		e.Frame()

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	return nil
}

func (e *engine) Quit() {
	e.quit = true
}

func (e *engine) Close() {
	if e.closed {
		return
	}
	e.closed = true

	for _, tex := range e.textures {
		tex.Close()
	}
	e.textures = nil
	e.decodePool.Stop()

	if e.window != nil {
		if err := e.window.Close(); err != nil {
			common.Logger().Warn("window close failed", "err", err)
		}
	}
}
