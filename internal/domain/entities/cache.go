package entities

// CacheStats represents render cache statistics
type CacheStats struct {
	// Hits is the number of cache hits
	Hits int64 `json:"hits"`

	// Misses is the number of cache misses
	Misses int64 `json:"misses"`

	// Evictions is the number of entries dropped to stay under MaxBytes
	Evictions int64 `json:"evictions"`

	// Entries is the current number of items in cache
	Entries int `json:"entries"`

	// Bytes is the current estimated size of all entries
	Bytes int64 `json:"bytes"`

	// MaxBytes is the size budget
	MaxBytes int64 `json:"max_bytes"`

	// HitRate is the fraction of lookups that hit
	HitRate float64 `json:"hit_rate"`
}

// RuntimeStats is the process snapshot reported by the health endpoint
type RuntimeStats struct {
	UptimeSeconds    float64     `json:"uptime_seconds"`
	HTTPRequests     int64       `json:"http_requests"`
	HTTPServerErrors int64       `json:"http_server_errors"`
	AverageLatencyMs float64     `json:"average_latency_ms"`
	Goroutines       int         `json:"goroutines"`
	HeapAllocBytes   int64       `json:"heap_alloc_bytes"`
	GCCount          uint32      `json:"gc_count"`
	RenderCache      *CacheStats `json:"render_cache,omitempty"`
}
