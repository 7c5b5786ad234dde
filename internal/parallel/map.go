// Package parallel runs independent sampling tasks across goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every index in [0, n) using at most workers goroutines
// and returns the results in index order. If workers is 0 or negative,
// GOMAXPROCS is used.
//
// Indexes are handed out in contiguous chunks so that tiny tasks do not pay
// one goroutine each. fn must not retain or share state across indexes.
func Map[T any](n, workers int, fn func(i int) T) []T {
	out := make([]T, n)
	if n == 0 {
		return out
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || n == 1 {
		for i := range out {
			out[i] = fn(i)
		}
		return out
	}

	chunk := (n + workers*4 - 1) / (workers * 4)
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Flatten concatenates the per-index slices produced by Map.
func Flatten[T any](parts [][]T) []T {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
