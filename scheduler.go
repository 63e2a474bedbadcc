package fractal

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// defaultBatchSize is the smallest number of parts handed to one worker.
// Always a multiple of Branching so sibling groups stay together.
const defaultBatchSize = 125

// scheduler runs one level at a time, fanning the level's parts out over a
// bounded set of goroutines and waiting for all of them before returning.
type scheduler struct {
	workers int
	batch   int
}

func newScheduler(workers, batch int) scheduler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if batch <= 0 {
		batch = defaultBatchSize
	}
	if r := batch % Branching; r != 0 {
		batch += Branching - r
	}
	return scheduler{workers: workers, batch: batch}
}

// batchSize returns the chunk size for a range of n indices: at least the
// configured minimum, otherwise about four chunks per worker.
func (s scheduler) batchSize(n int) int {
	size := n / (s.workers * 4)
	if r := size % Branching; r != 0 {
		size += Branching - r
	}
	if size < s.batch {
		size = s.batch
	}
	return size
}

// parallelFor calls fn over [0, n) split into disjoint chunks. It returns
// once every chunk has finished. Ranges that fit in a single chunk run on
// the calling goroutine.
func (s scheduler) parallelFor(n int, fn func(lo, hi int)) {
	size := s.batchSize(n)
	if s.workers == 1 || n <= size {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// updateLevel advances every part of a level from its already-updated
// parent level. Part i reads parents[i/5] and writes only parts[i] and
// matrices[i], so chunks never overlap.
func (s scheduler) updateLevel(parents, parts []Part, matrices []Matrix3x4, scale, dt float32) {
	s.parallelFor(len(parts), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			parent := &parents[ParentIndex(i)]
			advance(&parts[i], parent.WorldRotation, parent.WorldPosition, scale, dt, &matrices[i])
		}
	})
}

// updateTree advances levels 1..depth-1 in order. Level 0 must already be
// up to date. rootScale is the external object's scale; each level halves it.
func (s scheduler) updateTree(t *Tree, rootScale, dt float32) {
	scale := rootScale
	for l := 1; l < t.depth; l++ {
		scale *= 0.5
		parents := t.level(l - 1)
		level := t.level(l)
		s.updateLevel(parents.Parts, level.Parts, level.Matrices, scale, dt)
	}
}
