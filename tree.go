package fractal

import (
	"fmt"
	"math/rand/v2"
)

// Level is a view of one generation of the tree. Parts and Matrices alias
// the tree's arenas; they are only valid until the tree is released.
type Level struct {
	Index    int
	Parts    []Part
	Matrices []Matrix3x4
	Sequence [4]float32
}

// levelSpan locates a level inside the arenas.
type levelSpan struct {
	offset, length int
}

// Tree owns every part of a fractal in two flat arenas, one for part
// records and one for output matrices, indexed level by level. Level l
// starts at offset (5^l-1)/4 and holds 5^l entries.
type Tree struct {
	depth    int
	parts    []Part
	matrices []Matrix3x4
	levels   []levelSpan
	sequence [][4]float32
	released bool
}

// BuildTree allocates a tree for cfg and draws every part's constants and
// every level's sequence numbers from rng. Sequence numbers for all levels
// are drawn first, then parts level by level.
func BuildTree(cfg Config, rng *rand.Rand) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("fractal: BuildTree requires a random source")
	}

	total := TotalParts(cfg.Depth)
	t := &Tree{
		depth:    cfg.Depth,
		parts:    make([]Part, total),
		matrices: make([]Matrix3x4, total),
		levels:   make([]levelSpan, cfg.Depth),
		sequence: make([][4]float32, cfg.Depth),
	}

	for l, length := 0, 1; l < cfg.Depth; l, length = l+1, length*Branching {
		t.levels[l] = levelSpan{offset: levelOffset(l), length: length}
		t.sequence[l] = [4]float32{rng.Float32(), rng.Float32(), rng.Float32(), rng.Float32()}
	}

	t.parts[0] = newPart(0, &cfg, rng)
	for l := 1; l < cfg.Depth; l++ {
		span := t.levels[l]
		level := t.parts[span.offset : span.offset+span.length]
		for i := range level {
			level[i] = newPart(ChildSlot(i), &cfg, rng)
		}
	}
	return t, nil
}

// Depth returns the number of levels.
func (t *Tree) Depth() int { return t.depth }

// PartCount returns the total number of parts across all levels.
func (t *Tree) PartCount() int { return len(t.parts) }

// Released reports whether Release has been called.
func (t *Tree) Released() bool { return t.released }

// Level returns a view of level l. Panics if l is out of range or the tree
// has been released.
func (t *Tree) Level(l int) Level {
	t.checkLive("Level")
	if l < 0 || l >= t.depth {
		panic(fmt.Sprintf("fractal: level %d out of range [0, %d)", l, t.depth))
	}
	return t.level(l)
}

func (t *Tree) level(l int) Level {
	span := t.levels[l]
	end := span.offset + span.length
	return Level{
		Index:    l,
		Parts:    t.parts[span.offset:end:end],
		Matrices: t.matrices[span.offset:end:end],
		Sequence: t.sequence[l],
	}
}

// Release drops the arenas. Further use of the tree panics. Calling Release
// twice is a no-op.
func (t *Tree) Release() {
	if t.released {
		return
	}
	t.parts = nil
	t.matrices = nil
	t.levels = nil
	t.sequence = nil
	t.released = true
}

func (t *Tree) checkLive(op string) {
	if t.released {
		panic(fmt.Sprintf("fractal: %s on released tree", op))
	}
}
