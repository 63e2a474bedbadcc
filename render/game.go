package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/phanxgames/fractal"
)

// orbitStep is how far one arrow-key press turns the camera.
const orbitStep = math.Pi / 4

var background = color.RGBA{R: 24, G: 26, B: 32, A: 255}

// Game adapts a fractal to the ebiten.Game interface.
type Game struct {
	fractal  *fractal.Fractal
	renderer *Renderer
	hud      *HUD
	logger   *zap.Logger

	// TurnSpeed spins the whole tree about world Y, radians per second.
	TurnSpeed float32

	root   fractal.RootTransform
	turn   float32
	paused bool
	ticked bool
	debug  bool

	width, height int

	reloads chan fractal.Config
}

// NewGame constructs a Game for an enabled fractal.
func NewGame(f *fractal.Fractal, logger *zap.Logger, width, height int) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		fractal:   f,
		renderer:  NewRenderer(NewCamera()),
		hud:       NewHUD(),
		logger:    logger,
		TurnSpeed: 0.1,
		root:      fractal.IdentityRoot(),
		width:     width,
		height:    height,
		reloads:   make(chan fractal.Config, 1),
	}
}

// Reload queues cfg to replace the fractal's configuration on the next
// Update. Safe to call from any goroutine; only the latest queued config is
// applied.
func (g *Game) Reload(cfg fractal.Config) {
	for {
		select {
		case g.reloads <- cfg:
			return
		default:
		}
		select {
		case <-g.reloads:
		default:
		}
	}
}

// applyReload rebuilds the fractal with a queued config, if any.
func (g *Game) applyReload() {
	select {
	case cfg := <-g.reloads:
		if err := g.fractal.SetConfig(cfg); err != nil {
			g.logger.Error("config rejected", zap.Error(err))
			return
		}
		g.ticked = false
	default:
	}
}

// Renderer returns the renderer used by Draw.
func (g *Game) Renderer() *Renderer { return g.renderer }

// Update handles input and advances the fractal by one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	g.applyReload()
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.fractal.Rebuild(); err != nil {
			g.logger.Error("rebuild failed", zap.Error(err))
		}
		g.ticked = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
		g.fractal.SetDebugMode(g.debug)
	}

	cam := g.renderer.Camera
	if !cam.Orbiting() {
		if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
			cam.OrbitTo(cam.Yaw-orbitStep, 0.6, ease.InOutQuad)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
			cam.OrbitTo(cam.Yaw+orbitStep, 0.6, ease.InOutQuad)
		}
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		cam.SetPitch(cam.Pitch + 0.02)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		cam.SetPitch(cam.Pitch - 0.02)
	}

	dt := float32(1 / float64(ebiten.TPS()))
	cam.Update(dt)

	if !g.paused || !g.ticked {
		if !g.paused {
			g.turn += g.TurnSpeed * dt
		}
		g.root.Rotation = mgl32.QuatRotate(g.turn, mgl32.Vec3{0, 1, 0})
		step := dt
		if g.paused {
			step = 0
		}
		g.fractal.Tick(step, g.root)
		g.ticked = true
	}

	parts := 0
	if t := g.fractal.Tree(); t != nil {
		parts = t.PartCount()
	}
	drawn, _ := g.renderer.Stats()
	g.hud.Update(dt, parts, drawn, g.paused)
	return nil
}

// Draw renders the last tick.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	if g.ticked {
		g.renderer.Begin(screen)
		g.fractal.Draw(g.renderer)
		g.renderer.End()
	}
	g.hud.Draw(screen)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
