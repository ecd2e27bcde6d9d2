package bulk

import (
	"context"
	"sync"
)

// runWaves executes run(i) for i in [0, n) in fixed-size waves. The next wave
// starts only after every goroutine in the current wave has returned, so there
// is never overlap between waves.
func runWaves(ctx context.Context, n, batchSize int, run func(ctx context.Context, i int)) {
	if batchSize < 1 {
		batchSize = 1
	}
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				run(ctx, i)
			}(i)
		}
		wg.Wait()
	}
}
