package monitoring

import (
	"math"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// Monitor counts HTTP traffic and samples runtime statistics for /healthz
type Monitor struct {
	clock     ports.TimeProvider
	startedAt time.Time
	cache     ports.CacheStatsProvider

	mu             sync.Mutex
	requests       int64
	serverErrors   int64
	averageLatency time.Duration
}

// NewMonitor creates a monitor. cache is optional; when set its statistics
// are included in snapshots.
func NewMonitor(clock ports.TimeProvider, cache ports.CacheStatsProvider) *Monitor {
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	return &Monitor{
		clock:     clock,
		startedAt: clock.Now(),
		cache:     cache,
	}
}

// RecordHTTPRequest counts a finished request
func (m *Monitor) RecordHTTPRequest(status int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	if status >= http.StatusInternalServerError {
		m.serverErrors++
	}

	// Exponential moving average
	if m.averageLatency == 0 {
		m.averageLatency = duration
	} else {
		alpha := 0.1
		m.averageLatency = time.Duration(float64(m.averageLatency)*(1-alpha) + float64(duration)*alpha)
	}
}

// Snapshot returns the current counters with fresh memory statistics
func (m *Monitor) Snapshot() entities.RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.mu.Lock()
	stats := entities.RuntimeStats{
		UptimeSeconds:    m.clock.Now().Sub(m.startedAt).Seconds(),
		HTTPRequests:     m.requests,
		HTTPServerErrors: m.serverErrors,
		AverageLatencyMs: float64(m.averageLatency) / float64(time.Millisecond),
	}
	m.mu.Unlock()

	stats.Goroutines = runtime.NumGoroutine()
	stats.HeapAllocBytes = safeUint64ToInt64(memStats.HeapAlloc)
	stats.GCCount = memStats.NumGC

	if m.cache != nil {
		cacheStats := m.cache.Stats()
		stats.RenderCache = &cacheStats
	}
	return stats
}

// safeUint64ToInt64 safely converts uint64 to int64, capping at max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

// Ensure Monitor implements ports.MetricsRecorder
var _ ports.MetricsRecorder = (*Monitor)(nil)
