package ports

import "time"

// TimeProvider abstracts the clock for testability
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider implements TimeProvider using the standard time package
type RealTimeProvider struct{}

// NewRealTimeProvider creates a new real time provider implementation
func NewRealTimeProvider() TimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current time
func (tp *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// FixedTimeProvider always returns the same instant
type FixedTimeProvider struct {
	T time.Time
}

// Now returns the fixed time
func (tp FixedTimeProvider) Now() time.Time {
	return tp.T
}
