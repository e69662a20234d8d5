package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
)

// Profiler tracks frame rate, memory and shadow statistics. It logs one summary line per
// update interval.
type Profiler struct {
	logger         *log.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32

	// Shadow counters summed over the interval
	draws  int
	culled int
}

// Report is the summary produced at the end of an interval.
type Report struct {
	FPS        float64
	HeapMB     float64
	GCCount    uint32
	MaxPauseUs uint64
	// AvgDraws and AvgCulled are per-frame averages of shadow depth draws and culled draws.
	AvgDraws  float64
	AvgCulled float64
	// Shadow is the most recent shadow Stats, carrying the current slot and layer counts.
	Shadow shadow.Stats
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - logger: destination of the summary line; nil uses the standard logger
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *log.Logger) *Profiler {
	if logger == nil {
		logger = log.Default()
	}
	p := &Profiler{
		logger:         logger,
		now:            time.Now,
		updateInterval: time.Second,
	}
	p.lastTime = p.now()
	return p
}

// SetInterval changes how often a summary is produced.
//
// Parameters:
//   - d: the interval; non-positive values are ignored
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// Tick should be called once per frame after the shadow render.
//
// Parameters:
//   - stats: the shadow Stats of this frame
//
// Returns:
//   - Report: the interval summary, valid only when the bool is true
//   - bool: true if an interval elapsed and a line was logged this tick
func (p *Profiler) Tick(stats shadow.Stats) (Report, bool) {
	p.frameCount++
	p.draws += stats.Draws
	p.culled += stats.Culled

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Report{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	// PauseNs is a circular buffer of the last 256 GC pauses.
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	frames := float64(p.frameCount)
	r := Report{
		FPS:        frames / elapsed.Seconds(),
		HeapMB:     float64(p.memStats.Alloc) / 1024 / 1024,
		GCCount:    gcCount,
		MaxPauseUs: maxPauseUs,
		AvgDraws:   float64(p.draws) / frames,
		AvgCulled:  float64(p.culled) / frames,
		Shadow:     stats,
	}

	p.logger.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | GC: %d (max: %d µs) | Shadow slots: %d cascade, %d world | Layers: %d/%d | Draws: %.1f (culled %.1f) | Allocations: %d",
		r.FPS, r.HeapMB, r.GCCount, r.MaxPauseUs,
		stats.CascadeSlots, stats.WorldSlots, stats.CascadeLayers, stats.WorldLayers,
		r.AvgDraws, r.AvgCulled, stats.Allocations)

	p.frameCount = 0
	p.draws, p.culled = 0, 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	return r, true
}
