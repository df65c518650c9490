package engine

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDrawer struct {
	name string
	log  *[]string
}

func (d recordingDrawer) Draw() { *d.log = append(*d.log, d.name) }

func headless(t *testing.T, options ...EngineBuilderOption) (*engine, *gputest.Context) {
	t.Helper()
	ctx := gputest.New()
	e, err := NewEngine(append([]EngineBuilderOption{WithContext(ctx)}, options...)...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e.(*engine), ctx
}

func TestNewEngineHeadless(t *testing.T) {
	e, ctx := headless(t)

	assert.Nil(t, e.Window())
	assert.Same(t, ctx, e.GL())
	assert.True(t, ctx.Enabled[gpu.DEPTH_TEST])
	assert.ErrorIs(t, e.Run(), ErrNoWindow)
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Texture.QueueSize = 0
	_, err := NewEngine(WithContext(gputest.New()), WithConfig(cfg))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFrameDrawsInKeyOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.ClearColor = [4]float32{1, 0, 0, 1}
	e, ctx := headless(t, WithConfig(cfg))

	var log []string
	e.AddDrawer(10, recordingDrawer{"ui", &log})
	e.AddDrawer(-1, recordingDrawer{"background", &log})
	e.AddDrawer(3, recordingDrawer{"scene", &log})
	e.AddDrawer(3, recordingDrawer{"scene2", &log})
	e.SetRenderCallback(func(float32) { log = append(log, "callback") })

	e.Frame()
	assert.Equal(t, []string{"background", "scene2", "ui", "callback"}, log)
	assert.Equal(t, 1, ctx.Count("Clear"))
	assert.Equal(t, []byte{255, 0, 0, 255}, ctx.ReadPixels(0, 0, 1, 1))

	e.RemoveDrawer(3)
	assert.Nil(t, e.Drawer(3))
	log = nil
	e.Frame()
	assert.Equal(t, []string{"background", "ui", "callback"}, log)
}

func TestFrameSwapsEngineTextures(t *testing.T) {
	e, ctx := headless(t)

	tex := e.NewTexture()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	tex.SetAsyncImage(img)
	require.Eventually(t, tex.Pending, 2*time.Second, 5*time.Millisecond)

	assert.Zero(t, tex.ID())
	e.EnableProfiler()
	e.Frame()
	require.NotZero(t, tex.ID())
	assert.Equal(t, []byte{10, 20, 30, 255}, ctx.Textures[tex.ID()].Pixels)

	e.RemoveTexture(tex)
	assert.Empty(t, e.textures)
	tex.Close()
}

func TestFrameRunsFixedTicks(t *testing.T) {
	e, _ := headless(t)
	e.SetTickRate(100)

	var ticks []float32
	e.SetTickCallback(func(dt float32) { ticks = append(ticks, dt) })

	e.lastFrame = time.Now().Add(-35 * time.Millisecond)
	e.Frame()
	require.Len(t, ticks, 3)
	assert.InDelta(t, 0.01, ticks[0], 1e-6)

	// A long stall is capped at five ticks.
	ticks = nil
	e.tickBacklog = 0
	e.lastFrame = time.Now().Add(-time.Second)
	e.Frame()
	assert.Len(t, ticks, 5)
}

func TestCloseIsIdempotent(t *testing.T) {
	e, ctx := headless(t)

	tex := e.NewTexture()
	require.NoError(t, tex.Set([]byte{1, 2, 3, 4}, 1, 1, gpu.RGBA))
	id := tex.ID()

	e.Close()
	e.Close()
	assert.True(t, ctx.IsDeleted(gputest.ObjectTexture, id))
	assert.Len(t, ctx.Deleted[gputest.ObjectTexture], 1)
}
