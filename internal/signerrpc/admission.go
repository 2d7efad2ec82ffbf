package signerrpc

import (
	"sync/atomic"

	"github.com/0glabs/0g-da-node/internal/metrics"
)

// admission bounds the number of BatchSign calls being processed
// concurrently, rejecting overflow with RESOURCE_EXHAUSTED rather than
// queuing and risking unbounded memory growth from oversized slice batches.
type admission struct {
	max     int32
	ongoing int32
}

func newAdmission(max int32) *admission {
	return &admission{max: max}
}

// acquire returns a release func and true if the caller may proceed, or a
// nil func and false if the node is already at max ongoing requests.
func (a *admission) acquire() (release func(), ok bool) {
	n := atomic.AddInt32(&a.ongoing, 1)
	metrics.Registry.SignRequestsOngoing.Set(int64(n))
	if n > a.max {
		atomic.AddInt32(&a.ongoing, -1)
		metrics.Registry.SignRequestsOngoing.Set(int64(n - 1))
		metrics.Registry.SignRequestsRejected.Inc()
		return nil, false
	}
	return func() {
		left := atomic.AddInt32(&a.ongoing, -1)
		metrics.Registry.SignRequestsOngoing.Set(int64(left))
	}, true
}
