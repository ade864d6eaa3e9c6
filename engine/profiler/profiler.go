package profiler

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Profiler tracks frame rate and memory statistics of a draw loop.
// Outputs stats to its logger at a configurable interval.
type Profiler struct {
	logger         *zap.Logger
	frameCount     int
	totalFrames    uint64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	lastFPS        float64
}

// NewProfiler creates a new Profiler logging through logger.
// Update interval defaults to 1 second; values <= 0 keep the default.
//
// Parameters:
//   - logger: destination for stats lines (nil for none)
//   - interval: how often stats are logged
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *zap.Logger, interval time.Duration) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		logger:         logger,
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Tick should be called once per frame to track frame timing.
// Logs FPS, heap usage, allocation rate and GC count when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	p.totalFrames++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	p.lastFPS = float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap; TotalAlloc only grows, so its delta is the allocation churn.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	p.logger.Info("frame stats",
		zap.Float64("fps", p.lastFPS),
		zap.Uint64("frames", p.totalFrames),
		zap.Float64("heapMB", allocMB),
		zap.Float64("allocRateMBps", allocRateMB),
		zap.Uint32("gc", p.memStats.NumGC))

	p.frameCount = 0
	p.lastTime = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// FPS returns the frame rate measured over the last completed interval.
func (p *Profiler) FPS() float64 {
	return p.lastFPS
}

// Frames returns the number of ticks since the profiler was created.
func (p *Profiler) Frames() uint64 {
	return p.totalFrames
}
