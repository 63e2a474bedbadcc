package fractal

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingRenderer keeps a summary of each draw it receives.
type recordingRenderer struct {
	draws []LevelDraw
}

func (r *recordingRenderer) DrawLevel(d *LevelDraw) {
	r.draws = append(r.draws, *d)
}

func TestPackageMeshSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 5
	cfg.BranchMesh = "branch"
	cfg.LeafMesh = "leafy"
	f := mustEnable(t, cfg)
	pkg := f.Tick(0.1, IdentityRoot())

	for l, d := range pkg.Levels {
		leaf := l == cfg.Depth-1
		if d.Leaf != leaf {
			t.Errorf("level %d Leaf = %v, want %v", l, d.Leaf, leaf)
		}
		want := cfg.BranchMesh
		if leaf {
			want = cfg.LeafMesh
		}
		if d.Mesh != want {
			t.Errorf("level %d mesh = %q, want %q", l, d.Mesh, want)
		}
		if d.Index != l {
			t.Errorf("level %d index = %d", l, d.Index)
		}
		if d.Count() != LevelSize(l) {
			t.Errorf("level %d count = %d, want %d", l, d.Count(), LevelSize(l))
		}
	}
	if pkg.InstanceCount() != TotalParts(cfg.Depth) {
		t.Errorf("InstanceCount() = %d, want %d", pkg.InstanceCount(), TotalParts(cfg.Depth))
	}
}

func TestPackageColors(t *testing.T) {
	red := Color{R: 1, A: 1}
	blue := Color{B: 1, A: 1}
	cfg := DefaultConfig()
	cfg.Depth = 4
	cfg.GradientA = NewGradient(red, blue)
	cfg.GradientB = NewGradient(blue, red)
	cfg.LeafColorA = Color{G: 1, A: 1}
	cfg.LeafColorB = Color{G: 0.5, A: 1}
	f := mustEnable(t, cfg)
	pkg := f.Tick(0, IdentityRoot())

	// Branch levels 0..2 sample t = 0, 0.5, 1.
	assertColor(t, "level 0 A", pkg.Levels[0].ColorA, red)
	assertColor(t, "level 0 B", pkg.Levels[0].ColorB, blue)
	assertColor(t, "level 1 A", pkg.Levels[1].ColorA, Color{R: 0.5, B: 0.5, A: 1})
	assertColor(t, "level 2 A", pkg.Levels[2].ColorA, blue)
	assertColor(t, "level 2 B", pkg.Levels[2].ColorB, red)
	assertColor(t, "leaf A", pkg.Levels[3].ColorA, cfg.LeafColorA)
	assertColor(t, "leaf B", pkg.Levels[3].ColorB, cfg.LeafColorB)
}

func TestGradientTimeSpansBranchLevels(t *testing.T) {
	for depth := MinDepth; depth <= MaxDepth; depth++ {
		if got := gradientTime(0, depth); got != 0 {
			t.Errorf("depth %d: first level t = %v, want 0", depth, got)
		}
		if got := gradientTime(depth-2, depth); got != 1 {
			t.Errorf("depth %d: last branch level t = %v, want 1", depth, got)
		}
	}
}

func TestPackageSequenceNumbersFixed(t *testing.T) {
	f := mustEnable(t, DefaultConfig())
	a := f.Tick(0.1, IdentityRoot())
	seq := make([][4]float32, len(a.Levels))
	for l := range a.Levels {
		seq[l] = a.Levels[l].Sequence
		if seq[l] != f.Tree().Level(l).Sequence {
			t.Fatalf("level %d sequence differs from the tree's", l)
		}
	}
	b := f.Tick(0.1, IdentityRoot())
	for l := range b.Levels {
		if b.Levels[l].Sequence != seq[l] {
			t.Fatalf("level %d sequence changed between ticks", l)
		}
	}
}

func TestPackageBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 7
	f := mustEnable(t, cfg)
	root := RootTransform{
		Position: mgl32.Vec3{2, -1, 4},
		Rotation: mgl32.QuatRotate(1.1, mgl32.Vec3{0, 0, 1}),
		Scale:    3,
	}
	var pkg *RenderPackage
	for i := 0; i < 10; i++ {
		pkg = f.Tick(0.2, root)
	}

	assertVec3(t, "center", pkg.Bounds.Center, root.Position)
	assertVec3(t, "extents", pkg.Bounds.Extents, mgl32.Vec3{4.5, 4.5, 4.5})
	assertVec3(t, "size", pkg.Bounds.Size(), mgl32.Vec3{9, 9, 9})
	for l, d := range pkg.Levels {
		if d.Bounds != pkg.Bounds {
			t.Errorf("level %d bounds %v differ from package bounds %v", l, d.Bounds, pkg.Bounds)
		}
		for i := range d.Matrices {
			p := d.Matrices[i].Translation()
			if !pkg.Bounds.Contains(p) {
				t.Fatalf("level %d part %d at %v outside bounds %v", l, i, p, pkg.Bounds)
			}
		}
	}
}

func TestSubmitInLevelOrder(t *testing.T) {
	f := mustEnable(t, DefaultConfig())
	f.Tick(0.1, IdentityRoot())

	r := &recordingRenderer{}
	f.Draw(r)
	if len(r.draws) != f.Tree().Depth() {
		t.Fatalf("renderer got %d draws, want %d", len(r.draws), f.Tree().Depth())
	}
	for i, d := range r.draws {
		if d.Index != i {
			t.Errorf("draw %d has level index %d", i, d.Index)
		}
	}
}

func TestPackageMatricesAliasTree(t *testing.T) {
	f := mustEnable(t, DefaultConfig())
	pkg := f.Tick(0.1, IdentityRoot())
	level := f.Tree().Level(2)
	if &pkg.Levels[2].Matrices[0] != &level.Matrices[0] {
		t.Fatal("package matrices should alias the tree arena")
	}
}

func TestDisableClearsPackage(t *testing.T) {
	f := mustEnable(t, DefaultConfig())
	pkg := f.Tick(0.1, IdentityRoot())
	f.Disable()
	if len(pkg.Levels) != 0 {
		t.Fatalf("package still has %d levels after Disable", len(pkg.Levels))
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Center: mgl32.Vec3{1, 1, 1}, Extents: mgl32.Vec3{1, 2, 3}}
	tests := []struct {
		name string
		p    mgl32.Vec3
		want bool
	}{
		{"center", mgl32.Vec3{1, 1, 1}, true},
		{"corner", mgl32.Vec3{2, 3, 4}, true},
		{"outside x", mgl32.Vec3{2.1, 1, 1}, false},
		{"outside z", mgl32.Vec3{1, 1, -2.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func assertColor(t *testing.T, name string, got, want Color) {
	t.Helper()
	if !approxEqual(got.R, want.R, epsilon) || !approxEqual(got.G, want.G, epsilon) ||
		!approxEqual(got.B, want.B, epsilon) || !approxEqual(got.A, want.A, epsilon) {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}
