package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// MetricsSnapshot is a point-in-time view of the collected metrics
type MetricsSnapshot struct {
	Requests   uint64            `json:"requests"`
	Errors     uint64            `json:"errors"`
	AvgLatency map[string]string `json:"avgLatency"`
	Uptime     string            `json:"uptime"`
}

// Snapshot returns request/error totals and the average latency per
// operation, for the health endpoint.
func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	avgLatency := make(map[string]string, len(mc.operationTimes))
	for op, samples := range mc.operationTimes {
		if len(samples) == 0 {
			continue
		}
		var total int64
		for _, s := range samples {
			total += s
		}
		avgLatency[op] = time.Duration(total / int64(len(samples))).String()
	}
	return MetricsSnapshot{
		Requests:   mc.requestCount,
		Errors:     mc.errorCount,
		AvgLatency: avgLatency,
		Uptime:     time.Since(mc.systemStartTime).String(),
	}
}
