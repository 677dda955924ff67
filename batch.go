package lexcalc

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk is the fewest rows worth handing to a goroutine.
const minChunk = 64

// forRows calls fn over disjoint ranges [lo, hi) covering [0, n), in parallel
// when n is large enough.
func forRows(n int, fn func(lo, hi int)) {
	if n <= minChunk {
		fn(0, n)
		return
	}
	procs := runtime.GOMAXPROCS(0)
	chunk := (n + procs - 1) / procs
	if chunk < minChunk {
		chunk = minChunk
	}
	var g errgroup.Group
	g.SetLimit(procs)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	g.Wait()
}
