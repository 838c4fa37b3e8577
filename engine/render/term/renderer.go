// Package term draws a render.Scene top-down onto a tcell screen.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mattn/go-runewidth"

	"github.com/1siamBot/voxel-engine/engine/render"
)

// HUDRows is the number of rows reserved at the bottom for text
const HUDRows = 2

// Renderer maps world x/z onto screen columns/rows around the camera target
type Renderer struct {
	screen tcell.Screen
	scene  *render.Scene
	// CellsPerUnit is the number of columns per world unit; rows use half of
	// it so cells stay roughly square.
	CellsPerUnit float64
}

// NewRenderer creates a renderer for scene on screen
func NewRenderer(screen tcell.Screen, scene *render.Scene) *Renderer {
	return &Renderer{screen: screen, scene: scene, CellsPerUnit: 2}
}

func (r *Renderer) scale() float64 {
	s := r.CellsPerUnit
	if cam := r.scene.Camera; cam != nil {
		s *= cam.Zoom
	}
	return s
}

// WorldToScreen converts a world position to a cell. visible is false when
// the cell falls outside the map area.
func (r *Renderer) WorldToScreen(p mgl64.Vec3) (x, y int, visible bool) {
	w, h := r.screen.Size()
	h -= HUDRows
	var target mgl64.Vec3
	if cam := r.scene.Camera; cam != nil {
		target = cam.Target
	}
	s := r.scale()
	x = int(math.Floor((p[0]-target[0])*s)) + w/2
	y = int(math.Floor((p[2]-target[2])*s/2)) + h/2
	return x, y, x >= 0 && y >= 0 && x < w && y < h
}

// Draw clears the screen and draws every visible object. Flat objects are
// drawn first so bodies cover their shadows.
func (r *Renderer) Draw() {
	r.screen.Clear()
	for _, o := range r.scene.DrawOrder() {
		x, y, ok := r.WorldToScreen(o.Position)
		if !ok || o.Glyph == "" {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(o.Color.R), int32(o.Color.G), int32(o.Color.B)))
		r.putGlyph(x, y, o.Glyph, style)
	}
}

// DrawHUD writes lines into the reserved rows
func (r *Renderer) DrawHUD(lines ...string) {
	_, h := r.screen.Size()
	st := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, line := range lines {
		if i >= HUDRows {
			break
		}
		r.putText(0, h-HUDRows+i, line, st)
	}
}

// Show flushes the frame to the terminal
func (r *Renderer) Show() { r.screen.Show() }

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at (x, y)
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

// putText writes s from (x, y), stopping at the right edge
func (r *Renderer) putText(x, y int, s string, st tcell.Style) {
	sw, _ := r.screen.Size()
	for _, c := range s {
		if x >= sw {
			break
		}
		r.screen.SetContent(x, y, c, nil, st)
		x += max(runewidth.RuneWidth(c), 1)
	}
}
