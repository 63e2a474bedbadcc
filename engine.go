package fractal

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// RootTransform is the external transform the root part hangs off.
type RootTransform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    float32
}

// IdentityRoot returns a root at the origin with no rotation and scale 1.
func IdentityRoot() RootTransform {
	return RootTransform{Rotation: mgl32.QuatIdent(), Scale: 1}
}

// rotationTolerance is how far a root rotation's length may stray from 1.
const rotationTolerance = 1e-3

// MaxTimeStep is the largest dt Tick accepts, in seconds.
const MaxTimeStep = 1

// Validate reports non-finite components and a rotation that is not a unit
// quaternion.
func (r RootTransform) Validate() error {
	for i := 0; i < 3; i++ {
		if !finite(r.Position[i]) {
			return fmt.Errorf("fractal: root position %v is not finite", r.Position)
		}
	}
	q := r.Rotation
	if !finite(q.W) || !finite(q.V[0]) || !finite(q.V[1]) || !finite(q.V[2]) {
		return fmt.Errorf("fractal: root rotation %v is not finite", q)
	}
	if n := q.Len(); n == 0 {
		return fmt.Errorf("fractal: root rotation is zero")
	} else if n < 1-rotationTolerance || n > 1+rotationTolerance {
		return fmt.Errorf("fractal: root rotation %v is not normalized (length %v)", q, n)
	}
	if !finite(r.Scale) {
		return fmt.Errorf("fractal: root scale %v is not finite", r.Scale)
	}
	return nil
}

// Option configures a Fractal.
type Option func(*Fractal)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Fractal) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithWorkers bounds the number of goroutines updating one level. Zero or
// less uses GOMAXPROCS; 1 updates every level on the calling goroutine.
func WithWorkers(n int) Option {
	return func(f *Fractal) { f.workers = n }
}

// WithBatchSize sets the minimum number of parts handed to one goroutine.
// Rounded up to a multiple of five.
func WithBatchSize(n int) Option {
	return func(f *Fractal) { f.batch = n }
}

// Fractal drives a tree of parts: build, per-tick update and packaging for
// a renderer. It is not safe for concurrent use; the caller owns the frame
// loop and calls Tick once per frame.
type Fractal struct {
	cfg     Config
	tree    *Tree
	pkg     RenderPackage
	sched   scheduler
	logger  *zap.Logger
	workers int
	batch   int

	ticks uint64
	debug bool
	stats tickStats
}

// New validates cfg and returns a disabled Fractal. Call Enable to build the
// tree.
func New(cfg Config, opts ...Option) (*Fractal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Fractal{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	f.sched = newScheduler(f.workers, f.batch)
	return f, nil
}

// Config returns the active configuration.
func (f *Fractal) Config() Config { return f.cfg }

// Enabled reports whether the tree is built.
func (f *Fractal) Enabled() bool { return f.tree != nil }

// Tree returns the live tree, or nil when disabled.
func (f *Fractal) Tree() *Tree { return f.tree }

// Ticks returns the number of ticks since the last build.
func (f *Fractal) Ticks() uint64 { return f.ticks }

// Enable builds the tree. Calling Enable on an enabled Fractal is a no-op.
func (f *Fractal) Enable() error {
	if f.tree != nil {
		return nil
	}
	rng := rand.New(rand.NewPCG(f.cfg.Seed, 0))
	t, err := BuildTree(f.cfg, rng)
	if err != nil {
		return err
	}
	f.tree = t
	f.ticks = 0
	resetPackage(&f.pkg, t, &f.cfg)
	f.logger.Info("fractal built",
		zap.Int("depth", t.depth),
		zap.Int("parts", t.PartCount()),
		zap.Uint64("seed", f.cfg.Seed),
		zap.Int("workers", f.sched.workers),
	)
	return nil
}

// Disable releases the tree. Calling Disable on a disabled Fractal is a
// no-op.
func (f *Fractal) Disable() {
	if f.tree == nil {
		return
	}
	clearPackage(&f.pkg)
	f.tree.Release()
	f.tree = nil
	f.logger.Debug("fractal released", zap.Uint64("ticks", f.ticks))
}

// SetConfig replaces the configuration. When enabled, the tree is released
// and rebuilt at once: spin angles restart from zero and constants are
// redrawn from the new config's seed. Must not be called during a Tick.
func (f *Fractal) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.cfg = cfg
	if f.tree == nil {
		return nil
	}
	f.logger.Debug("fractal config changed, rebuilding", zap.Int("depth", cfg.Depth))
	f.Disable()
	return f.Enable()
}

// Rebuild releases and rebuilds the tree with the current configuration.
func (f *Fractal) Rebuild() error {
	return f.SetConfig(f.cfg)
}

// Tick advances the whole tree by dt seconds under the given root transform
// and returns the render package. The package is reused by the next tick.
//
// Tick panics if the Fractal is disabled, if dt is not finite or lies
// outside [0, MaxTimeStep], or if root fails Validate.
func (f *Fractal) Tick(dt float32, root RootTransform) *RenderPackage {
	if f.tree == nil {
		panic("fractal: Tick on disabled fractal (call Enable first)")
	}
	f.tree.checkLive("Tick")
	if !finite(dt) || dt < 0 || dt > MaxTimeStep {
		panic(fmt.Sprintf("fractal: Tick with dt %v outside [0, %v]", dt, MaxTimeStep))
	}
	if err := root.Validate(); err != nil {
		panic(err.Error())
	}

	var t0 time.Time
	if f.debug {
		t0 = time.Now()
	}

	t := f.tree
	advanceRoot(&t.parts[0], root, dt, &t.matrices[0])

	if f.debug {
		f.stats.root = time.Since(t0)
		t0 = time.Now()
	}

	f.sched.updateTree(t, root.Scale, dt)

	if f.debug {
		f.stats.levels = time.Since(t0)
		t0 = time.Now()
	}

	pack(&f.pkg, t, treeBounds(root.Position, root.Scale))
	f.ticks++

	if f.debug {
		f.stats.pack = time.Since(t0)
		f.stats.parts = t.PartCount()
		f.debugLog(f.stats)
	}
	return &f.pkg
}

// Package returns the package produced by the last tick.
func (f *Fractal) Package() *RenderPackage {
	if f.tree == nil {
		panic("fractal: Package on disabled fractal")
	}
	return &f.pkg
}

// Draw submits the last tick's package to r.
func (f *Fractal) Draw(r Renderer) {
	if f.tree == nil {
		panic("fractal: Draw on disabled fractal")
	}
	f.pkg.Submit(r)
}

// SetDebugMode enables per-tick timing logs at debug level.
func (f *Fractal) SetDebugMode(enabled bool) {
	f.debug = enabled
}
