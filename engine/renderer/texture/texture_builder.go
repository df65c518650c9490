package texture

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/engine/gpu"
)

// TextureBuilderOption is a functional option for configuring a Texture via NewTexture.
type TextureBuilderOption func(*texture)

// WithUnit selects the texture unit Bind activates.
//
// Parameters:
//   - unit: zero-based unit index, added to gpu.TEXTURE0
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithUnit(unit int) TextureBuilderOption {
	return func(t *texture) {
		t.unit = gpu.TEXTURE0 + gpu.Enum(unit)
	}
}

// WithDecodePool shares an existing worker pool for decodes instead of starting one per texture.
// The texture does not stop a shared pool on Close.
//
// Parameters:
//   - pool: the pool decode tasks are submitted to
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithDecodePool(pool worker.DynamicWorkerPool) TextureBuilderOption {
	return func(t *texture) {
		t.pool = pool
	}
}

// WithDecodeWorkers sets the worker count of the texture's own pool. More than one worker lets decodes finish
// out of submission order.
//
// Parameters:
//   - n: number of workers (default 1)
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithDecodeWorkers(n int) TextureBuilderOption {
	return func(t *texture) {
		if n > 0 {
			t.workers = n
		}
	}
}

// WithQueueSize sets the capacity of an owned decode pool's queue. Each texture queues at most one decode, so the
// size only matters for pools shared through WithDecodePool, where SetAsync blocks once that many textures
// are waiting for a worker.
//
// Parameters:
//   - size: queue capacity (default 16)
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithQueueSize(size int) TextureBuilderOption {
	return func(t *texture) {
		if size > 0 {
			t.queueSize = size
		}
	}
}

// WithOriginBottomLeft controls whether decoded images are flipped so their first row is the bottom row
// (default true), matching texture coordinate (0, 0) at the image's bottom-left corner.
//
// Parameters:
//   - enabled: false to upload rows top first
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithOriginBottomLeft(enabled bool) TextureBuilderOption {
	return func(t *texture) {
		t.originBottomLeft = enabled
	}
}
