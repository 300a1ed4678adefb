package compute

import (
	"runtime"
	"sync"
)

// CPU fans chunks out over worker goroutines. Ranges below minChunk run
// serially since goroutine overhead dominates tiny grids.
type CPU struct {
	workers  int
	minChunk int
}

func NewCPU() *CPU {
	return &CPU{
		workers:  runtime.NumCPU(),
		minChunk: 64,
	}
}

func (c *CPU) Name() string    { return "cpu" }
func (c *CPU) Available() bool { return c.workers > 0 }
func (c *CPU) Cleanup()        {}

func (c *CPU) For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < c.minChunk || c.workers <= 1 {
		fn(0, n)
		return
	}

	workers := c.workers
	if n/c.minChunk < workers {
		workers = n / c.minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if start >= n {
			break
		}
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
