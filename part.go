package fractal

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Branching is the number of children per part.
const Branching = 5

// Part is one rigid element of the tree. Parts are plain values addressed by
// their index within a level; parent and child relations are arithmetic
// (see ParentIndex and ChildRange) and never stored.
type Part struct {
	// Computed every tick.
	WorldPosition mgl32.Vec3
	WorldRotation mgl32.Quat

	// Rotation is the fixed local offset selecting the child slot.
	Rotation mgl32.Quat

	// SpinAngle accumulates SpinVelocity*dt. Radians.
	SpinAngle float32

	// Immutable after build. Radians and radians per second.
	MaxSagAngle  float32
	SpinVelocity float32
}

var canonicalRotations = [Branching]mgl32.Quat{
	mgl32.QuatIdent(),
	mgl32.QuatRotate(-0.5*math.Pi, mgl32.Vec3{0, 0, 1}),
	mgl32.QuatRotate(0.5*math.Pi, mgl32.Vec3{0, 0, 1}),
	mgl32.QuatRotate(0.5*math.Pi, mgl32.Vec3{1, 0, 0}),
	mgl32.QuatRotate(-0.5*math.Pi, mgl32.Vec3{1, 0, 0}),
}

// CanonicalRotation returns the fixed local rotation of child slot k:
// identity, -90° and +90° about Z, +90° and -90° about X.
func CanonicalRotation(k int) mgl32.Quat {
	return canonicalRotations[k]
}

// ParentIndex returns the index of part i's parent in the previous level.
func ParentIndex(i int) int { return i / Branching }

// ChildSlot returns which of the parent's five slots part i occupies.
func ChildSlot(i int) int { return i % Branching }

// ChildRange returns the half-open index range [lo, hi) of parent p's
// children in the next level.
func ChildRange(p int) (lo, hi int) {
	return p * Branching, p*Branching + Branching
}

// LevelSize returns the number of parts on level l (5^l).
func LevelSize(l int) int {
	n := 1
	for i := 0; i < l; i++ {
		n *= Branching
	}
	return n
}

// TotalParts returns the part count of a tree with the given depth,
// (5^depth - 1) / 4.
func TotalParts(depth int) int {
	return (LevelSize(depth) - 1) / (Branching - 1)
}

// levelOffset returns the arena offset of level l's first part.
func levelOffset(l int) int {
	return TotalParts(l)
}

// newPart draws the constants of a part occupying child slot k.
func newPart(k int, cfg *Config, rng *rand.Rand) Part {
	sag := degToRad(uniform(rng, cfg.SagAngle))
	spin := degToRad(uniform(rng, cfg.SpinSpeed))
	if rng.Float32() < cfg.ReverseSpinChance {
		spin = -spin
	}
	return Part{
		Rotation:      canonicalRotations[k],
		WorldRotation: mgl32.QuatIdent(),
		MaxSagAngle:   sag,
		SpinVelocity:  spin,
	}
}

func uniform(rng *rand.Rand, r Range) float32 {
	return r.Min + (r.Max-r.Min)*rng.Float32()
}

func degToRad(d float32) float32 {
	return d * (math.Pi / 180)
}
