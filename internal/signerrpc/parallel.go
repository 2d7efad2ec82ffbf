package signerrpc

import (
	"sync"

	"github.com/JekaMas/workerpool"
)

// parallelEach runs fn(0..n-1) on pool, blocking until every task has
// returned, and reports the first error encountered (in task-completion
// order, which is not necessarily index order). Used for the CPU-bound
// per-slice deserialize and verify steps so a batch of many slices is not
// serialized behind a single goroutine.
func parallelEach(pool *workerpool.WorkerPool, n int, fn func(i int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		pool.Submit(func() {
			defer wg.Done()
			if err := fn(i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return firstErr
}
