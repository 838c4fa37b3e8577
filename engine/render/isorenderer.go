package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	GroundColor = color.RGBA{139, 119, 101, 255}
	GridColor   = color.RGBA{255, 255, 255, 30}
	ShadowColor = color.RGBA{0, 0, 0, 90}
)

// IsoRenderer draws a Scene isometrically with ebiten
type IsoRenderer struct {
	Scene     *Scene
	tileCache map[color.RGBA]*ebiten.Image
	white     *ebiten.Image
}

// NewIsoRenderer creates a renderer for scene
func NewIsoRenderer(scene *Scene) *IsoRenderer {
	return &IsoRenderer{
		Scene:     scene,
		tileCache: make(map[color.RGBA]*ebiten.Image),
	}
}

func (r *IsoRenderer) whiteImage() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(3, 3)
		r.white.Fill(color.White)
	}
	return r.white
}

// tileImage returns (or creates) a cached diamond tile of the given color
func (r *IsoRenderer) tileImage(clr color.RGBA, tw, th int) *ebiten.Image {
	if img, ok := r.tileCache[clr]; ok {
		return img
	}
	img := ebiten.NewImage(tw, th)
	hw := float32(tw) / 2
	hh := float32(th) / 2

	var path vector.Path
	path.MoveTo(hw, 0)
	path.LineTo(float32(tw), hh)
	path.LineTo(hw, float32(th))
	path.LineTo(0, hh)
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = float32(clr.A) / 255
	}
	img.DrawTriangles(vs, is, r.whiteImage(), nil)

	edge := color.RGBA{0, 0, 0, 80}
	vector.StrokeLine(img, hw, 0, float32(tw), hh, 1, edge, false)
	vector.StrokeLine(img, float32(tw), hh, hw, float32(th), 1, edge, false)
	vector.StrokeLine(img, hw, float32(th), 0, hh, 1, edge, false)
	vector.StrokeLine(img, 0, hh, hw, 0, 1, edge, false)

	r.tileCache[clr] = img
	return img
}

// DrawGround renders the visible part of a width x depth floor at y = 0
func (r *IsoRenderer) DrawGround(screen *ebiten.Image, width, depth int) {
	cam := r.Scene.Camera
	tw := int(float64(cam.TileWidth) * cam.Zoom)
	th := int(float64(cam.TileHeight) * cam.Zoom)
	if tw < 2 || th < 2 {
		return
	}
	tile := r.tileImage(GroundColor, cam.TileWidth, cam.TileHeight)

	minX, minZ, maxX, maxZ := cam.VisibleRange(width, depth)
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			// top corner of the cell diamond
			sx, sy := cam.WorldToScreen(mgl64.Vec3{float64(x), 0, float64(z)})
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(cam.Zoom, cam.Zoom)
			op.GeoM.Translate(float64(sx)-float64(tw)/2, float64(sy))
			screen.DrawImage(tile, op)
		}
	}
}

// DrawGrid draws the ground grid overlay
func (r *IsoRenderer) DrawGrid(screen *ebiten.Image, width, depth int) {
	cam := r.Scene.Camera
	minX, minZ, maxX, maxZ := cam.VisibleRange(width, depth)
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			x0, y0 := cam.WorldToScreen(mgl64.Vec3{float64(x), 0, float64(z)})
			x1, y1 := cam.WorldToScreen(mgl64.Vec3{float64(x + 1), 0, float64(z)})
			x2, y2 := cam.WorldToScreen(mgl64.Vec3{float64(x), 0, float64(z + 1)})
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, GridColor, false)
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x2), float32(y2), 1, GridColor, false)
		}
	}
}

// DrawScene draws every visible object back to front
func (r *IsoRenderer) DrawScene(screen *ebiten.Image) {
	cam := r.Scene.Camera
	for _, o := range r.Scene.DrawOrder() {
		sx, sy := cam.WorldToScreen(o.Position)
		w := float32(math.Max(o.Size[0], o.Size[2]) * float64(cam.TileWidth) / 2 * cam.Zoom)
		if o.Flat {
			vector.DrawFilledCircle(screen, float32(sx), float32(sy), w/2, o.Color, true)
			continue
		}
		h := float32(o.Size[1] * float64(cam.TileHeight) * cam.Zoom)
		x := float32(sx) - w/2
		y := float32(sy) - h
		vector.DrawFilledRect(screen, x, y, w, h, o.Color, false)
		vector.StrokeRect(screen, x, y, w, h, 1, color.RGBA{0, 0, 0, 120}, false)
	}
}

// DrawMinimap draws a top-down minimap of the scene in a corner
func (r *IsoRenderer) DrawMinimap(screen *ebiten.Image, posX, posY, size int, width, depth int) {
	minimap := ebiten.NewImage(size, size)
	minimap.Fill(color.RGBA{0, 0, 0, 180})

	scaleX := float64(size) / float64(width)
	scaleZ := float64(size) / float64(depth)
	for _, o := range r.Scene.DrawOrder() {
		if o.Flat {
			continue
		}
		px := float32(o.Position[0] * scaleX)
		pz := float32(o.Position[2] * scaleZ)
		vector.DrawFilledRect(minimap, px-1, pz-1, 3, 3, o.Color, false)
	}

	// camera target indicator
	t := r.Scene.Camera.Target
	vector.StrokeCircle(minimap, float32(t[0]*scaleX), float32(t[2]*scaleZ), 4, 1, color.RGBA{255, 255, 255, 200}, false)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(posX), float64(posY))
	screen.DrawImage(minimap, op)
}
