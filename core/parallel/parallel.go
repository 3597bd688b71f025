// Package parallel provides the worker fan-out primitive used by the
// iterative trainers. Work over an index range is split into contiguous
// chunks, one per worker, and the call returns only after every worker has
// finished (barrier semantics).
package parallel

import (
	"runtime"
	"sync"
)

// Workers runs fn across numWorkers goroutines, giving each a contiguous
// [start, end) slice of the items range together with its worker index.
// Chunk boundaries depend only on items and numWorkers, so a caller that
// keeps per-worker state indexed by worker can merge it in a fixed order
// afterwards.
//
// numWorkers <= 1 runs fn(0, 0, items) on the calling goroutine.
func Workers(numWorkers, items int, fn func(worker, start, end int)) {
	if items == 0 {
		return
	}
	if numWorkers <= 1 {
		fn(0, 0, items)
		return
	}
	if numWorkers > items {
		numWorkers = items // No need for more workers than items
	}

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}

		// Skip if there's no range to handle
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			fn(w, s, e)
		}(i, start, end)
	}

	// Wait for all workers to finish processing
	wg.Wait()
}

// NumChunks reports how many chunks Workers will actually create for the
// given worker count and item count. Callers sizing per-worker accumulator
// buffers should use this rather than the raw worker count.
func NumChunks(numWorkers, items int) int {
	if items == 0 {
		return 0
	}
	if numWorkers <= 1 {
		return 1
	}
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers
	return (items + chunkSize - 1) / chunkSize
}

// Parallelize divides the specified total number (items) according to the
// number of CPU cores, and executes the specified function (fn) in parallel
// for each range (start, end)
func Parallelize(items int, fn func(start, end int)) {
	Workers(runtime.NumCPU(), items, func(_, start, end int) {
		fn(start, end)
	})
}

// ParallelizeWithThreshold performs parallelization only when the number of
// items exceeds the threshold. If below threshold, normal sequential
// processing is performed
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		// Sequential processing when below threshold
		fn(0, items)
		return
	}

	Parallelize(items, fn)
}
