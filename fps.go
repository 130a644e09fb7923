package vision

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSWidget draws FPS, TPS and the number of uploaded frames of an
// EbitenSurface in the top-left corner of the screen. Its text is refreshed
// every ~0.5 seconds.
type FPSWidget struct {
	surface *EbitenSurface
	img     *ebiten.Image
	elapsed float64
	text    string
}

// NewFPSWidget creates a widget reporting on surface, which may be nil.
func NewFPSWidget(surface *EbitenSurface) *FPSWidget {
	return &FPSWidget{surface: surface}
}

// Update advances the refresh timer by dt seconds.
func (w *FPSWidget) Update(dt float64) {
	w.elapsed += dt
	if w.text != "" && w.elapsed < 0.5 {
		return
	}
	w.elapsed = 0
	cached := -1
	if w.surface != nil {
		cached = w.surface.CachedImages()
	}
	w.text = fpsText(ebiten.ActualFPS(), ebiten.ActualTPS(), cached)
}

// Draw renders the last refreshed text onto screen.
func (w *FPSWidget) Draw(screen *ebiten.Image) {
	if w.img == nil {
		// 120x48 is enough for three short lines of debug text.
		w.img = ebiten.NewImage(120, 48)
	}
	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, w.text)
	screen.DrawImage(w.img, nil)
}

func fpsText(fps, tps float64, cached int) string {
	s := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps)
	if cached >= 0 {
		s += fmt.Sprintf("\nFrames: %d", cached)
	}
	return s
}
