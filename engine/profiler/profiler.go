// Package profiler reports frame rate, draw counts and memory statistics through the shared logger.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// Stats is one reporting interval's worth of measurements.
type Stats struct {
	FPS           float64
	Frames        int
	Draws         int
	TextureSwaps  int
	HeapMB        float64
	AllocRateMBps float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
	SysMB         float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	drawCount      int
	swapCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	now            func() time.Time
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - interval: how often stats are reported; values <= 0 mean one second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	p := &Profiler{
		updateInterval: interval,
		now:            time.Now,
	}
	p.lastTime = p.now()
	return p
}

// AddDraws records program draws issued during the current frame.
func (p *Profiler) AddDraws(n int) { p.drawCount += n }

// AddTextureSwaps records texture back-to-front swaps performed during the current frame.
func (p *Profiler) AddTextureSwaps(n int) { p.swapCount += n }

// Last returns the most recently reported stats.
func (p *Profiler) Last() Stats { return p.last }

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows and measures churn, Sys is the process footprint.
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.last = Stats{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		Frames:        p.frameCount,
		Draws:         p.drawCount,
		TextureSwaps:  p.swapCount,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMBps: float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       gcCount,
		LastPauseUs:   lastPauseUs,
		MaxPauseUs:    maxPauseUs,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
	}
	common.Logger().Info("profiler",
		"fps", p.last.FPS,
		"frames", p.last.Frames,
		"draws", p.last.Draws,
		"texture_swaps", p.last.TextureSwaps,
		"heap_mb", p.last.HeapMB,
		"alloc_rate_mbps", p.last.AllocRateMBps,
		"gc", gcCount,
		"gc_last_pause_us", lastPauseUs,
		"gc_max_pause_us", maxPauseUs,
		"sys_mb", p.last.SysMB,
	)

	p.frameCount = 0
	p.drawCount = 0
	p.swapCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
