package parallel

import (
	"context"
	"runtime"
	"sync"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// Parallelize divides items into one contiguous [start, end) chunk per CPU
// core and runs fn on each chunk concurrently. It returns the first error
// reported by a chunk; a panicking chunk is reported as *errors.PanicError.
// Chunks that have not started when ctx is cancelled are skipped.
func Parallelize(ctx context.Context, items int, fn func(start, end int) error) error {
	if items == 0 {
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	record := func(err error) {
		if err != nil {
			once.Do(func() { firstErr = err })
		}
	}

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				record(err)
				return
			}
			record(errors.SafeExecute("parallel.Parallelize", func() error {
				return fn(s, e)
			}))
		}(start, end)
	}

	wg.Wait()
	return firstErr
}

// ParallelizeWithThreshold runs fn sequentially over [0, items) when items is
// at or below threshold, and through Parallelize otherwise.
func ParallelizeWithThreshold(ctx context.Context, items, threshold int, fn func(start, end int) error) error {
	if items <= threshold {
		if err := ctx.Err(); err != nil {
			return err
		}
		return errors.SafeExecute("parallel.ParallelizeWithThreshold", func() error {
			return fn(0, items)
		})
	}
	return Parallelize(ctx, items, fn)
}
