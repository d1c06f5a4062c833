package calibration

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// forEachOrdered runs fn for every index in [0, n) on up to workers
// goroutines. Each fn writes only its own slot of the caller's output. If any
// call fails, the error for the lowest index is returned so results don't
// depend on scheduling.
func forEachOrdered(n, workers int, fn func(i int) error) error {
	if workers < 1 {
		workers = 1
	}
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			errs[i] = fn(i)
			return errs[i]
		})
	}
	if g.Wait() == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
