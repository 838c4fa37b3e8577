package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera projects the voxel world isometrically. Zoom is the pixel scale;
// Distance is how far the eye sits behind its target, which the simulation
// reads as the camera zoom scalar (0 = first person).
type Camera struct {
	Target      mgl64.Vec3 // world point at screen center
	Zoom        float64    // pixel scale (1.0 = default)
	MinZoom     float64
	MaxZoom     float64
	Distance    float64
	MinDistance float64
	MaxDistance float64
	ScreenW     int // viewport width in pixels
	ScreenH     int // viewport height in pixels
	Speed       float64 // pan speed (world units per second)
	TileWidth   int
	TileHeight  int
}

// NewCamera creates a camera with default settings
func NewCamera(screenW, screenH int) *Camera {
	return &Camera{
		Zoom:        1.0,
		MinZoom:     0.25,
		MaxZoom:     3.0,
		Distance:    5,
		MinDistance: 0,
		MaxDistance: 20,
		ScreenW:     screenW,
		ScreenH:     screenH,
		Speed:       8,
		TileWidth:   64,
		TileHeight:  32,
	}
}

// Pan moves the camera target on the ground plane
func (c *Camera) Pan(dx, dz float64) {
	c.Target[0] += dx
	c.Target[2] += dz
}

// SetZoom sets the pixel scale with clamping
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// SetDistance sets the zoom distance with clamping
func (c *Camera) SetDistance(d float64) {
	c.Distance = math.Max(c.MinDistance, math.Min(c.MaxDistance, d))
}

// ZoomBy moves the eye by delta and rescales the view to match
func (c *Camera) ZoomBy(delta float64) {
	c.SetDistance(c.Distance + delta)
	c.SetZoom(5 / math.Max(c.Distance, 1))
}

// CenterOn centers the camera on a world position
func (c *Camera) CenterOn(p mgl64.Vec3) {
	c.Target = p
}

func (c *Camera) iso(p mgl64.Vec3) (float64, float64) {
	tw := float64(c.TileWidth)
	th := float64(c.TileHeight)
	isoX := (p[0] - p[2]) * (tw / 2)
	isoY := (p[0]+p[2])*(th/2) - p[1]*th
	return isoX, isoY
}

// WorldToScreen converts a world position to a screen pixel position
func (c *Camera) WorldToScreen(p mgl64.Vec3) (int, int) {
	isoX, isoY := c.iso(p)
	camX, camY := c.iso(c.Target)
	sx := (isoX-camX)*c.Zoom + float64(c.ScreenW)/2
	sy := (isoY-camY)*c.Zoom + float64(c.ScreenH)/2
	return int(math.Round(sx)), int(math.Round(sy))
}

// ScreenToGround converts a screen pixel to a point on the plane y = level
func (c *Camera) ScreenToGround(sx, sy int, level float64) mgl64.Vec3 {
	tw := float64(c.TileWidth)
	th := float64(c.TileHeight)
	camX, camY := c.iso(c.Target)
	isoX := (float64(sx)-float64(c.ScreenW)/2)/c.Zoom + camX
	isoY := (float64(sy)-float64(c.ScreenH)/2)/c.Zoom + camY + level*th
	// a = x - z, b = x + z
	a := isoX / (tw / 2)
	b := isoY / (th / 2)
	return mgl64.Vec3{(a + b) / 2, level, (b - a) / 2}
}

// VisibleRange returns the ground cells visible on screen, clamped to a
// width x depth area.
func (c *Camera) VisibleRange(width, depth int) (minX, minZ, maxX, maxZ int) {
	corners := [4]mgl64.Vec3{
		c.ScreenToGround(0, 0, 0),
		c.ScreenToGround(c.ScreenW, 0, 0),
		c.ScreenToGround(0, c.ScreenH, 0),
		c.ScreenToGround(c.ScreenW, c.ScreenH, 0),
	}
	minXf, minZf := math.Inf(1), math.Inf(1)
	maxXf, maxZf := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		minXf, maxXf = math.Min(minXf, p[0]), math.Max(maxXf, p[0])
		minZf, maxZf = math.Min(minZf, p[2]), math.Max(maxZf, p[2])
	}

	pad := 2
	minX = max(int(math.Floor(minXf))-pad, 0)
	minZ = max(int(math.Floor(minZf))-pad, 0)
	maxX = min(int(math.Ceil(maxXf))+pad, width-1)
	maxZ = min(int(math.Ceil(maxZf))+pad, depth-1)
	return
}
