package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector methods are no-ops on a nil receiver.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	recordsComputed uint64
	validationFails uint64

	mu      sync.Mutex
	exports map[string]uint64
}

func New() *Collector {
	return &Collector{exports: map[string]uint64{}}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordsComputed(n int) {
	if c == nil || n <= 0 {
		return
	}
	atomic.AddUint64(&c.recordsComputed, uint64(n))
}

func (c *Collector) ValidationFailed() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.validationFails, 1)
}

func (c *Collector) Exported(format string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.exports[format]++
	c.mu.Unlock()
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	exports := make(map[string]uint64, len(c.exports))
	for format, n := range c.exports {
		exports[format] = n
	}
	c.mu.Unlock()

	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           errs,
		"rateLimitedTotal":      limited,
		"avgDurationMs":         avg,
		"totalDurationMs":       totalMs,
		"recordsComputedTotal":  atomic.LoadUint64(&c.recordsComputed),
		"validationFailedTotal": atomic.LoadUint64(&c.validationFails),
		"exportsTotal":          exports,
	}
}
