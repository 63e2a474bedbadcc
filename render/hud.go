package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudInterval is how often the HUD text is refreshed, seconds.
const hudInterval = 0.5

// HUD prints frame rate and tree statistics in the top-left corner.
type HUD struct {
	img     *ebiten.Image
	elapsed float32
	text    string
}

// NewHUD creates a HUD. 200x64 fits four lines of debug text.
func NewHUD() *HUD {
	return &HUD{img: ebiten.NewImage(200, 64)}
}

// Update refreshes the text about twice a second.
func (h *HUD) Update(dt float32, parts, drawn int, paused bool) {
	h.elapsed += dt
	if h.elapsed < hudInterval && h.text != "" {
		return
	}
	h.elapsed = 0
	h.text = hudText(ebiten.ActualFPS(), ebiten.ActualTPS(), parts, drawn, paused)

	h.img.Clear()
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, h.text)
}

// Draw blits the HUD onto screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	screen.DrawImage(h.img, nil)
}

func hudText(fps, tps float64, parts, drawn int, paused bool) string {
	s := fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nParts: %d\nTris: %d", fps, tps, parts, drawn)
	if paused {
		s += " (paused)"
	}
	return s
}
