package term

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/render"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatal(err)
	}
	ss.SetSize(40, 12)
	return ss
}

func newTestRenderer(t *testing.T) (*Renderer, *render.Scene, tcell.SimulationScreen) {
	t.Helper()
	ss := newSimScreen(t)
	cam := render.NewCamera(0, 0)
	scene := render.NewScene(cam)
	return NewRenderer(ss, scene), scene, ss
}

func TestDrawPlacesGlyphs(t *testing.T) {
	r, scene, ss := newTestRenderer(t)
	o := render.NewObject("player", mgl64.Vec3{1, 2, 1}, color.RGBA{255, 255, 0, 255}, "@")
	o.Position = mgl64.Vec3{3, 0, 2}
	_ = scene.AddVisualObject(o)

	r.Draw()
	x, y, ok := r.WorldToScreen(o.Position)
	if !ok {
		t.Fatal("object projected off screen")
	}
	// 40 wide, 10 map rows: center (20,5), 2 cols and 1 row per unit
	if x != 26 || y != 7 {
		t.Errorf("expected cell 26,7, got %d,%d", x, y)
	}
	mainc, _, _, _ := ss.GetContent(x, y)
	if mainc != '@' {
		t.Errorf("expected '@', got %q", mainc)
	}

	o.Visible = false
	r.Draw()
	if mainc, _, _, _ := ss.GetContent(x, y); mainc == '@' {
		t.Error("hidden object still drawn")
	}
}

func TestShadowUnderBody(t *testing.T) {
	r, scene, ss := newTestRenderer(t)
	body := render.NewObject("body", mgl64.Vec3{1, 1, 1}, color.RGBA{255, 255, 255, 255}, "B")
	shadow := render.NewObject("shadow", mgl64.Vec3{1, 0, 1}, color.RGBA{60, 60, 60, 255}, ".")
	shadow.Flat = true
	_ = scene.AddVisualObject(body)
	_ = scene.AddVisualObject(shadow)
	r.Draw()
	x, y, _ := r.WorldToScreen(body.Position)
	if mainc, _, _, _ := ss.GetContent(x, y); mainc != 'B' {
		t.Errorf("expected the body over its shadow, got %q", mainc)
	}
}

func TestWideGlyph(t *testing.T) {
	r, scene, ss := newTestRenderer(t)
	o := render.NewObject("cow", mgl64.Vec3{1, 1, 1}, color.RGBA{255, 255, 255, 255}, "🐄")
	_ = scene.AddVisualObject(o)
	r.Draw()
	x, y, _ := r.WorldToScreen(o.Position)
	if mainc, _, _, _ := ss.GetContent(x, y); mainc != '🐄' {
		t.Errorf("expected the emoji, got %q", mainc)
	}
}

func TestOffScreenSkipped(t *testing.T) {
	r, scene, _ := newTestRenderer(t)
	o := render.NewObject("far", mgl64.Vec3{1, 1, 1}, color.RGBA{}, "x")
	o.Position = mgl64.Vec3{1000, 0, 0}
	_ = scene.AddVisualObject(o)
	if _, _, ok := r.WorldToScreen(o.Position); ok {
		t.Error("far object reported visible")
	}
	r.Draw()
}

func TestDrawHUD(t *testing.T) {
	r, _, ss := newTestRenderer(t)
	r.DrawHUD("tick 42", "entities 3", "ignored")
	_, h := ss.Size()
	if mainc, _, _, _ := ss.GetContent(0, h-2); mainc != 't' {
		t.Errorf("expected HUD text on row %d, got %q", h-2, mainc)
	}
	if mainc, _, _, _ := ss.GetContent(0, h-1); mainc != 'e' {
		t.Errorf("expected the second HUD line, got %q", mainc)
	}
}
