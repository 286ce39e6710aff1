package usecase

import "time"

// ImageMetrics records image resolution outcomes
type ImageMetrics interface {
	IncrementResolution(source string)
	IncrementStageFailure(stage string)
	ObserveStageLatency(stage string, d time.Duration)
	IncrementCacheLookup(hit bool)
}

// FilterMetrics records recommendation filter passes
type FilterMetrics interface {
	ObserveFilter(results, skipped int)
}

type noopMetrics struct{}

func (noopMetrics) IncrementResolution(string)                 {}
func (noopMetrics) IncrementStageFailure(string)               {}
func (noopMetrics) ObserveStageLatency(string, time.Duration) {}
func (noopMetrics) IncrementCacheLookup(bool)                  {}
func (noopMetrics) ObserveFilter(int, int)                     {}
