package fractal

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewSchedulerRoundsBatchToSiblingGroups(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{1, 5},
		{5, 5},
		{7, 10},
		{124, 125},
		{0, defaultBatchSize},
	}
	for _, tt := range tests {
		if got := newScheduler(2, tt.in).batch; got != tt.want {
			t.Errorf("newScheduler(2, %d).batch = %d, want %d", tt.in, got, tt.want)
		}
	}
	if s := newScheduler(0, 0); s.workers < 1 {
		t.Errorf("default workers = %d, want >= 1", s.workers)
	}
}

func TestBatchSizeKeepsSiblingsTogether(t *testing.T) {
	s := newScheduler(3, 5)
	for _, n := range []int{5, 25, 125, 625, 3125, 15625, 78125} {
		size := s.batchSize(n)
		if size%Branching != 0 {
			t.Errorf("batchSize(%d) = %d, not a multiple of 5", n, size)
		}
		if size < s.batch {
			t.Errorf("batchSize(%d) = %d, below minimum %d", n, size, s.batch)
		}
	}
}

func TestParallelForCoversRangeOnce(t *testing.T) {
	s := newScheduler(4, 5)
	const n = 3125
	counts := make([]int, n)

	var mu sync.Mutex
	var starts []int
	s.parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			counts[i]++
		}
		mu.Lock()
		starts = append(starts, lo)
		mu.Unlock()
	})

	for i, c := range counts {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
	if len(starts) < 2 {
		t.Fatalf("expected the range to be split, got %d chunk(s)", len(starts))
	}
	for _, lo := range starts {
		if lo%Branching != 0 {
			t.Errorf("chunk starts at %d, splitting a sibling group", lo)
		}
	}
}

func TestParallelForSmallRangeRunsInline(t *testing.T) {
	s := newScheduler(8, 125)
	calls := 0
	s.parallelFor(25, func(lo, hi int) {
		calls++
		if lo != 0 || hi != 25 {
			t.Errorf("chunk [%d, %d), want [0, 25)", lo, hi)
		}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestParallelForEmptyRange(t *testing.T) {
	s := newScheduler(4, 5)
	s.parallelFor(0, func(lo, hi int) {
		if hi > lo {
			t.Errorf("unexpected chunk [%d, %d)", lo, hi)
		}
	})
}

func TestUpdateLevelReadsParentByIndex(t *testing.T) {
	parents := []Part{
		{WorldRotation: mgl32.QuatIdent(), WorldPosition: mgl32.Vec3{0, 0, 0}},
		{WorldRotation: mgl32.QuatIdent(), WorldPosition: mgl32.Vec3{10, 0, 0}},
	}
	parts := make([]Part, 10)
	for i := range parts {
		parts[i] = Part{Rotation: CanonicalRotation(i % 5)}
	}
	matrices := make([]Matrix3x4, len(parts))

	newScheduler(2, 5).updateLevel(parents, parts, matrices, 1, 0)

	// Slot 0 sits 1.5 straight above its parent.
	assertVec3(t, "child 0", parts[0].WorldPosition, mgl32.Vec3{0, 1.5, 0})
	assertVec3(t, "child 5", parts[5].WorldPosition, mgl32.Vec3{10, 1.5, 0})
	for i := range parts {
		assertVec3(t, "matrix translation", matrices[i].Translation(), parts[i].WorldPosition)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 6

	seq := mustEnable(t, cfg, WithWorkers(1))
	par := mustEnable(t, cfg, WithWorkers(8), WithBatchSize(5))

	root := IdentityRoot()
	for i := 0; i < 5; i++ {
		root.Rotation = mgl32.QuatRotate(float32(i)*0.1, mgl32.Vec3{0, 1, 0})
		a := seq.Tick(1.0/60, root)
		b := par.Tick(1.0/60, root)
		for l := range a.Levels {
			am, bm := a.Levels[l].Matrices, b.Levels[l].Matrices
			for j := range am {
				if am[j] != bm[j] {
					t.Fatalf("tick %d level %d part %d: sequential %v != parallel %v", i, l, j, am[j], bm[j])
				}
			}
		}
	}
}
