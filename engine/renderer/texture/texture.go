// Package texture manages a 2D texture whose contents can be replaced without stalling the render loop. Image
// decoding happens on a worker pool and lands in a back slot; the goroutine owning the GPU context uploads the
// back slot and retires the old texture in Swap, so drawing never observes a half-written texture.
package texture

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
)

// ErrPixelSize reports pixel data too short for the given dimensions and format.
var ErrPixelSize = errors.New("texture: pixel data does not match dimensions")

// ErrClosed reports use of a texture after Close.
var ErrClosed = errors.New("texture: texture is closed")

// texture is the implementation of the Texture interface.
type texture struct {
	ctx  gpu.Context
	id   uint32
	unit gpu.Enum

	originBottomLeft bool

	// mu guards back, the only state shared with decode workers.
	mu   sync.Mutex
	back *common.TextureStagingData

	pool      worker.DynamicWorkerPool
	ownsPool  bool
	workers   int
	queueSize int
	taskID    atomic.Int64
	inFlight  atomic.Int32
	closed    atomic.Bool

	// next is the request waiting for the drain task. A newer request replaces it.
	next      atomic.Pointer[common.ImageSource]
	scheduled atomic.Bool
}

// Texture is a 2D texture with a front handle used for drawing and a back slot filled by asynchronous decodes.
// Every method except SetAsync, SetAsyncFile, SetAsyncImage and Pending must be called from the goroutine
// owning the GPU context.
type Texture interface {
	// ID returns the front texture handle, or 0 if nothing has been uploaded yet.
	ID() uint32

	// Unit returns the texture unit Bind activates.
	Unit() gpu.Enum

	// Set uploads pixel data synchronously and makes it the front texture, releasing the previous one.
	//
	// Parameters:
	//   - pixels: tightly packed unsigned-byte rows, bottom row first
	//   - width: width in pixels
	//   - height: height in pixels
	//   - format: gpu.RGB or gpu.RGBA
	//
	// Returns:
	//   - error: ErrPixelSize, gpu.ErrAllocation, or ErrClosed
	Set(pixels []byte, width, height int32, format gpu.Enum) error

	// SetAsync queues a decode of src. The decoded pixels replace whatever is waiting in the back slot and
	// become visible at the next Swap. A decode failure is logged and leaves the back slot untouched.
	// A texture keeps at most one request waiting: calling SetAsync again before the decode starts replaces
	// that request, so repeated calls never pile up work. A pool shared by more textures than its queue size
	// can still block the caller until a worker frees a slot.
	//
	// Parameters:
	//   - src: where to read the image from
	SetAsync(src common.ImageSource)

	// SetAsyncFile queues a decode of an image file.
	SetAsyncFile(path string)

	// SetAsyncImage queues a conversion of an already decoded image.
	SetAsyncImage(img image.Image)

	// Swap uploads the back slot, if any, as the new front texture and releases the old one.
	//
	// Returns:
	//   - bool: true if a new front texture was adopted
	Swap() bool

	// Pending reports whether decoded pixels are waiting for Swap.
	Pending() bool

	// Decoding reports how many requests are waiting or being decoded: at most one of each.
	Decoding() int

	// Bind activates the texture's unit and binds the front texture to it. Binding with no front texture binds 0.
	Bind()

	// Close stops an owned decode pool, drops the back slot and releases the front texture.
	Close()
}

var _ Texture = &texture{}

// NewTexture creates an empty texture. Without WithDecodePool the texture starts its own single-worker pool,
// which serialises its decodes.
//
// Parameters:
//   - ctx: the GPU context uploads are issued on
//   - options: functional options
//
// Returns:
//   - Texture: the texture, with front handle 0
func NewTexture(ctx gpu.Context, options ...TextureBuilderOption) Texture {
	t := &texture{
		ctx:              ctx,
		unit:             gpu.TEXTURE0,
		originBottomLeft: true,
		workers:          1,
		queueSize:        16,
	}
	for _, opt := range options {
		opt(t)
	}
	if t.pool == nil {
		t.pool = worker.NewDynamicWorkerPool(t.workers, t.queueSize, time.Second)
		t.ownsPool = true
	}
	return t
}

func (t *texture) ID() uint32 {
	return t.id
}

func (t *texture) Unit() gpu.Enum {
	return t.unit
}

func (t *texture) Set(pixels []byte, width, height int32, format gpu.Enum) error {
	if t.closed.Load() {
		return ErrClosed
	}
	bpp := gpu.BytesPerPixel(format)
	if bpp == 0 || width <= 0 || height <= 0 || len(pixels) < int(width)*int(height)*bpp {
		return fmt.Errorf("%w: %d bytes for %dx%d format 0x%x", ErrPixelSize, len(pixels), width, height, uint32(format))
	}

	id := t.ctx.GenTexture()
	if id == 0 {
		common.Logger().Error("texture allocation failed", "width", width, "height", height)
		return fmt.Errorf("texture: %w", gpu.ErrAllocation)
	}

	t.ctx.ActiveTexture(t.unit)
	t.ctx.BindTexture(gpu.TEXTURE_2D, id)
	t.ctx.TexParameteri(gpu.TEXTURE_2D, gpu.TEXTURE_BASE_LEVEL, 0)
	t.ctx.TexParameteri(gpu.TEXTURE_2D, gpu.TEXTURE_MAX_LEVEL, 0)
	t.ctx.TexParameteri(gpu.TEXTURE_2D, gpu.TEXTURE_MAG_FILTER, int32(gpu.NEAREST))
	t.ctx.TexParameteri(gpu.TEXTURE_2D, gpu.TEXTURE_MIN_FILTER, int32(gpu.NEAREST))
	t.ctx.TexImage2D(gpu.TEXTURE_2D, width, height, format, pixels)

	if t.id != 0 {
		t.ctx.DeleteTexture(t.id)
	}
	t.id = id
	return nil
}

func (t *texture) SetAsync(src common.ImageSource) {
	if t.closed.Load() {
		common.Logger().Warn("ignoring decode request for closed texture", "image", src.Label())
		return
	}
	if replaced := t.next.Swap(&src); replaced != nil {
		common.Logger().Debug("replacing queued decode request", "image", replaced.Label())
	} else {
		t.inFlight.Add(1)
	}
	if !t.scheduled.CompareAndSwap(false, true) {
		return
	}
	t.pool.SubmitTask(worker.Task{
		ID: int(t.taskID.Add(1)),
		Do: t.drain,
	})
}

// drain decodes requests until none is waiting. Only one drain task per texture is queued or running at a time.
func (t *texture) drain() (any, error) {
	for {
		src := t.next.Swap(nil)
		if src == nil {
			t.scheduled.Store(false)
			// A request stored between the Swap and the Store above found scheduled set and did not submit.
			if t.next.Load() == nil || !t.scheduled.CompareAndSwap(false, true) {
				return nil, nil
			}
			continue
		}
		t.decode(*src)
		t.inFlight.Add(-1)
	}
}

func (t *texture) decode(src common.ImageSource) {
	data, err := src.Decode(t.originBottomLeft)
	if err != nil {
		common.Logger().Error("texture decode failed", "image", src.Label(), "err", err)
		return
	}
	t.mu.Lock()
	t.back = data
	t.mu.Unlock()
}

func (t *texture) SetAsyncFile(path string) {
	t.SetAsync(common.ImageSource{Path: path})
}

func (t *texture) SetAsyncImage(img image.Image) {
	t.SetAsync(common.ImageSource{Image: img})
}

func (t *texture) Swap() bool {
	t.mu.Lock()
	back := t.back
	t.back = nil
	t.mu.Unlock()

	if back == nil {
		return false
	}
	if err := t.Set(back.Pixels, int32(back.Width), int32(back.Height), gpu.RGBA); err != nil {
		common.Logger().Error("texture swap failed, keeping previous texture", "err", err)
		return false
	}
	return true
}

func (t *texture) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.back != nil
}

func (t *texture) Decoding() int {
	return int(t.inFlight.Load())
}

func (t *texture) Bind() {
	t.ctx.ActiveTexture(t.unit)
	t.ctx.BindTexture(gpu.TEXTURE_2D, t.id)
}

func (t *texture) Close() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	if t.ownsPool {
		t.pool.Stop()
	}
	t.mu.Lock()
	t.back = nil
	t.mu.Unlock()
	if t.id != 0 {
		t.ctx.DeleteTexture(t.id)
		t.id = 0
	}
}
