// Package worker provides the concurrency primitives used by the
// augmentation batch: a bounded order-preserving fan-out and a per-endpoint
// rate limiter.
package worker

import (
	"context"
	"sync"
)

// RunIndexed executes fn for every index in [0, n) using at most workers
// goroutines. Each call writes into its own slot, so callers collect
// results in submission order regardless of completion order. Indexes not
// started before ctx is cancelled are skipped.
func RunIndexed(ctx context.Context, n, workers int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			fn(ctx, idx)
		}(i)
	}

	wg.Wait()
}
