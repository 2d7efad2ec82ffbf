// Package metrics is a small process-wide registry of the counters and
// timers the node's components update as they run: admission queue depth,
// verify latency, sign counts, and prune counts.
package metrics

import (
	"sync/atomic"
	"time"
)

// Counter is a monotonically increasing process-wide count.
type Counter struct {
	v int64
}

// Inc adds 1 to the counter.
func (c *Counter) Inc() { atomic.AddInt64(&c.v, 1) }

// Add adds delta to the counter.
func (c *Counter) Add(delta int64) { atomic.AddInt64(&c.v, delta) }

// Value returns the counter's current value.
func (c *Counter) Value() int64 { return atomic.LoadInt64(&c.v) }

// Gauge is a value that can move up or down, such as admission queue depth.
type Gauge struct {
	v int64
}

// Set overwrites the gauge's value.
func (g *Gauge) Set(v int64) { atomic.StoreInt64(&g.v, v) }

// Value returns the gauge's current value.
func (g *Gauge) Value() int64 { return atomic.LoadInt64(&g.v) }

// Histogram tracks a running count and sum of observed durations, enough to
// report a mean without pulling in a full metrics backend.
type Histogram struct {
	count int64
	sumNs int64
}

// Observe records one duration sample.
func (h *Histogram) Observe(d time.Duration) {
	atomic.AddInt64(&h.count, 1)
	atomic.AddInt64(&h.sumNs, int64(d))
}

// Mean returns the mean observed duration, or 0 if nothing was recorded.
func (h *Histogram) Mean() time.Duration {
	c := atomic.LoadInt64(&h.count)
	if c == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&h.sumNs) / c)
}

// Registry is the node's single set of process-wide metrics. The signing
// service and the pruner update it; SliceDataBytesRead is not updated by
// any component.
var Registry = struct {
	SignRequestsOngoing  Gauge
	SignRequestsTotal    Counter
	SignRequestsRejected Counter
	VerifyLatency        Histogram
	BlobsVerified        Counter
	EpochsPruned         Counter
	SliceDataBytesRead   Counter
}{}
