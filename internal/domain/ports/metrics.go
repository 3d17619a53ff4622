package ports

import (
	"time"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// MetricsRecorder collects request counters for the health endpoint
type MetricsRecorder interface {
	RecordHTTPRequest(status int, duration time.Duration)
	Snapshot() entities.RuntimeStats
}

// CacheStatsProvider is implemented by caches that report their statistics
type CacheStatsProvider interface {
	Stats() entities.CacheStats
}
