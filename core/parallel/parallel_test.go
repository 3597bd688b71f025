package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkersCoversAllItems(t *testing.T) {
	tests := []struct {
		name       string
		numWorkers int
		items      int
	}{
		{name: "single worker", numWorkers: 1, items: 100},
		{name: "even split", numWorkers: 4, items: 100},
		{name: "uneven split", numWorkers: 3, items: 100},
		{name: "more workers than items", numWorkers: 16, items: 5},
		{name: "one item", numWorkers: 8, items: 1},
		{name: "no items", numWorkers: 4, items: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visited := make([]int32, tt.items)
			Workers(tt.numWorkers, tt.items, func(_, start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&visited[i], 1)
				}
			})

			for i, count := range visited {
				if count != 1 {
					t.Errorf("item %d visited %d times, want exactly once", i, count)
				}
			}
		})
	}
}

func TestWorkersChunkBoundariesDeterministic(t *testing.T) {
	type chunk struct{ start, end int }

	collect := func() map[int]chunk {
		var mu sync.Mutex
		chunks := make(map[int]chunk)
		Workers(4, 103, func(worker, start, end int) {
			mu.Lock()
			chunks[worker] = chunk{start, end}
			mu.Unlock()
		})
		return chunks
	}

	first := collect()
	for i := 0; i < 10; i++ {
		if got := collect(); len(got) != len(first) {
			t.Fatalf("chunk count changed between runs: %d != %d", len(got), len(first))
		} else {
			for w, c := range got {
				if first[w] != c {
					t.Fatalf("worker %d got chunk %v, want %v", w, c, first[w])
				}
			}
		}
	}
}

func TestWorkersSingleWorkerRunsOnCaller(t *testing.T) {
	calls := 0
	Workers(1, 50, func(worker, start, end int) {
		calls++
		if worker != 0 || start != 0 || end != 50 {
			t.Errorf("got (worker=%d, start=%d, end=%d), want (0, 0, 50)", worker, start, end)
		}
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestNumChunksMatchesWorkers(t *testing.T) {
	tests := []struct {
		numWorkers int
		items      int
	}{
		{1, 10},
		{4, 100},
		{3, 100},
		{7, 20},
		{16, 5},
		{8, 1},
		{4, 0},
	}

	for _, tt := range tests {
		var invoked int32
		Workers(tt.numWorkers, tt.items, func(_, _, _ int) {
			atomic.AddInt32(&invoked, 1)
		})

		if got := NumChunks(tt.numWorkers, tt.items); got != int(invoked) {
			t.Errorf("NumChunks(%d, %d) = %d, but Workers invoked fn %d times",
				tt.numWorkers, tt.items, got, invoked)
		}
	}
}

func TestParallelizeWithThreshold(t *testing.T) {
	t.Run("below threshold runs sequentially", func(t *testing.T) {
		calls := 0
		ParallelizeWithThreshold(10, 100, func(start, end int) {
			calls++
			if start != 0 || end != 10 {
				t.Errorf("got (start=%d, end=%d), want (0, 10)", start, end)
			}
		})
		if calls != 1 {
			t.Errorf("fn called %d times, want 1", calls)
		}
	})

	t.Run("above threshold covers all items", func(t *testing.T) {
		items := 500
		visited := make([]int32, items)
		ParallelizeWithThreshold(items, 100, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&visited[i], 1)
			}
		})
		for i, count := range visited {
			if count != 1 {
				t.Errorf("item %d visited %d times, want exactly once", i, count)
			}
		}
	})
}
