package texture_test

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond

// stripe is a 1 pixel wide image, red on the top row and blue below.
func stripe(height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	for y := 1; y < height; y++ {
		img.Set(0, y, color.RGBA{B: 255, A: 255})
	}
	return img
}

func TestSet(t *testing.T) {
	ctx := gputest.New()
	tex := texture.NewTexture(ctx)
	defer tex.Close()

	assert.Zero(t, tex.ID())
	require.NoError(t, tex.Set([]byte{1, 2, 3, 4, 5, 6}, 2, 1, gpu.RGB))
	first := tex.ID()
	require.NotZero(t, first)

	state := ctx.Textures[first]
	assert.Equal(t, int32(2), state.Width)
	assert.Equal(t, int32(1), state.Height)
	assert.Equal(t, gpu.RGB, state.Format)
	assert.Equal(t, int32(0), state.Params[gpu.TEXTURE_BASE_LEVEL])
	assert.Equal(t, int32(0), state.Params[gpu.TEXTURE_MAX_LEVEL])
	assert.Equal(t, int32(gpu.NEAREST), state.Params[gpu.TEXTURE_MAG_FILTER])

	require.NoError(t, tex.Set([]byte{1, 2, 3, 4}, 1, 1, gpu.RGBA))
	assert.NotEqual(t, first, tex.ID())
	assert.True(t, ctx.IsDeleted(gputest.ObjectTexture, first))
}

func TestSetFailures(t *testing.T) {
	ctx := gputest.New()
	tex := texture.NewTexture(ctx)
	defer tex.Close()

	assert.ErrorIs(t, tex.Set([]byte{1, 2, 3}, 2, 2, gpu.RGBA), texture.ErrPixelSize)
	assert.ErrorIs(t, tex.Set([]byte{1, 2, 3, 4}, 1, 1, gpu.Enum(0)), texture.ErrPixelSize)

	require.NoError(t, tex.Set([]byte{1, 2, 3, 4}, 1, 1, gpu.RGBA))
	front := tex.ID()

	ctx.FailAllocation(gputest.ObjectTexture, 0)
	assert.ErrorIs(t, tex.Set([]byte{1, 2, 3, 4}, 1, 1, gpu.RGBA), gpu.ErrAllocation)
	assert.Equal(t, front, tex.ID())
	assert.False(t, ctx.IsDeleted(gputest.ObjectTexture, front))
}

func TestSetAsyncSwap(t *testing.T) {
	ctx := gputest.New()
	tex := texture.NewTexture(ctx, texture.WithUnit(2))
	defer tex.Close()

	tex.SetAsyncImage(stripe(2))
	tex.Bind()
	assert.Zero(t, ctx.BoundTextures[gpu.TEXTURE0+2], "nothing is bound before the first swap")

	require.Eventually(t, tex.Pending, waitFor, tick)
	assert.Zero(t, tex.ID(), "decoding must not touch the front texture")

	require.True(t, tex.Swap())
	assert.False(t, tex.Pending())
	require.NotZero(t, tex.ID())

	tex.Bind()
	assert.Equal(t, gpu.TEXTURE0+2, ctx.ActiveUnit)
	assert.Equal(t, tex.ID(), ctx.BoundTextures[gpu.TEXTURE0+2])

	// bottom-left origin: the blue bottom row comes first
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, ctx.Textures[tex.ID()].Pixels)
	assert.Equal(t, gpu.RGBA, ctx.Textures[tex.ID()].Format)

	assert.False(t, tex.Swap(), "swapping an empty back slot is a no-op")
}

func TestSetAsyncReplacesFront(t *testing.T) {
	ctx := gputest.New()
	tex := texture.NewTexture(ctx, texture.WithOriginBottomLeft(false))
	defer tex.Close()

	require.NoError(t, tex.Set([]byte{9, 9, 9, 9}, 1, 1, gpu.RGBA))
	old := tex.ID()

	tex.SetAsyncImage(stripe(2))
	require.Eventually(t, tex.Pending, waitFor, tick)
	require.True(t, tex.Swap())

	assert.NotEqual(t, old, tex.ID())
	assert.True(t, ctx.IsDeleted(gputest.ObjectTexture, old))
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, ctx.Textures[tex.ID()].Pixels)
}

func TestSetAsyncLastDecodeWins(t *testing.T) {
	ctx := gputest.New()
	tex := texture.NewTexture(ctx)
	defer tex.Close()

	tex.SetAsyncImage(stripe(2))
	tex.SetAsyncImage(stripe(3))
	require.Eventually(t, func() bool { return tex.Decoding() == 0 }, waitFor, tick)

	require.True(t, tex.Swap())
	assert.Equal(t, int32(3), ctx.Textures[tex.ID()].Height)
}

func TestSetAsyncDoesNotBlockOnBusyPool(t *testing.T) {
	ctx := gputest.New()
	pool := worker.NewDynamicWorkerPool(1, 1, time.Second)
	defer pool.Stop()

	// Occupy the only worker until released.
	started, release := make(chan struct{}), make(chan struct{})
	pool.SubmitTask(worker.Task{ID: -1, Do: func() (any, error) {
		close(started)
		<-release
		return nil, nil
	}})
	<-started

	tex := texture.NewTexture(ctx, texture.WithDecodePool(pool))
	defer tex.Close()

	submitted := make(chan struct{})
	go func() {
		for h := 1; h <= 10; h++ {
			tex.SetAsyncImage(stripe(h))
		}
		close(submitted)
	}()
	select {
	case <-submitted:
	case <-time.After(waitFor):
		close(release)
		t.Fatal("SetAsync blocked while the decode queue was full")
	}
	assert.Equal(t, 1, tex.Decoding(), "waiting requests collapse into one")

	close(release)
	require.Eventually(t, func() bool { return tex.Decoding() == 0 }, waitFor, tick)
	require.True(t, tex.Swap())
	assert.Equal(t, int32(10), ctx.Textures[tex.ID()].Height)
}

func TestSetAsyncDecodeFailure(t *testing.T) {
	ctx := gputest.New()
	tex := texture.NewTexture(ctx)
	defer tex.Close()

	tex.SetAsync(common.ImageSource{Name: "garbage", Data: []byte("not an image")})
	tex.SetAsyncFile("does/not/exist.png")
	require.Eventually(t, func() bool { return tex.Decoding() == 0 }, waitFor, tick)

	assert.False(t, tex.Pending())
	assert.False(t, tex.Swap())
	assert.Zero(t, tex.ID())
	assert.Zero(t, ctx.Count("GenTexture"))
}

func TestSharedDecodePool(t *testing.T) {
	ctx := gputest.New()
	pool := worker.NewDynamicWorkerPool(1, 4, time.Second)
	defer pool.Stop()

	a := texture.NewTexture(ctx, texture.WithDecodePool(pool))
	b := texture.NewTexture(ctx, texture.WithDecodePool(pool))
	a.Close()

	b.SetAsyncImage(stripe(1))
	require.Eventually(t, b.Pending, waitFor, tick, "closing a texture must not stop a shared pool")
	b.Close()
}

func TestClose(t *testing.T) {
	ctx := gputest.New()
	tex := texture.NewTexture(ctx)
	require.NoError(t, tex.Set([]byte{1, 2, 3, 4}, 1, 1, gpu.RGBA))
	id := tex.ID()

	tex.Close()
	tex.Close()
	assert.Zero(t, tex.ID())
	assert.True(t, ctx.IsDeleted(gputest.ObjectTexture, id))

	assert.ErrorIs(t, tex.Set([]byte{1, 2, 3, 4}, 1, 1, gpu.RGBA), texture.ErrClosed)
	tex.SetAsyncImage(stripe(1))
	assert.Zero(t, tex.Decoding())
}
