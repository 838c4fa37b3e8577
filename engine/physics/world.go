package physics

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	epsilon      = 1e-9
	maxCellSteps = 1024
)

// Body is a rigid box moved by World.Step
type Body struct {
	AABB              AABB
	Velocity          mgl64.Vec3
	GravityMultiplier float64
	// Resting is -1 or 1 on each axis where the last step was blocked
	Resting [3]int
	// AutoStep lets the body climb one-voxel ledges while on the ground
	AutoStep bool
	// OnStep is called whenever the body auto-steps
	OnStep func()
}

// World integrates bodies against a voxel terrain
type World struct {
	Gravity mgl64.Vec3
	Terrain Terrain
	bodies  []*Body
}

// NewWorld creates a world with standard downward gravity
func NewWorld(terrain Terrain) *World {
	return &World{
		Gravity: mgl64.Vec3{0, -10, 0},
		Terrain: terrain,
	}
}

// CreateBody adds a body occupying box
func (w *World) CreateBody(box AABB) *Body {
	b := &Body{AABB: box, GravityMultiplier: 1}
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody removes b; it reports false if b is not in the world
func (w *World) RemoveBody(b *Body) bool {
	i := slices.Index(w.bodies, b)
	if i < 0 {
		return false
	}
	w.bodies = slices.Delete(w.bodies, i, i+1)
	return true
}

// Bodies returns the bodies in creation order
func (w *World) Bodies() []*Body { return w.bodies }

// Step advances every body by dt seconds. Vertical movement resolves first
// so a body knows it is grounded before it tries to auto-step.
func (w *World) Step(dt float64) {
	for _, b := range slices.Clone(w.bodies) {
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(b.GravityMultiplier * dt))
		d := b.Velocity.Mul(dt)
		b.Resting = [3]int{}
		for _, axis := range [3]int{1, 0, 2} {
			if w.moveAxis(b, axis, d[axis]) {
				if d[axis] < 0 {
					b.Resting[axis] = -1
				} else {
					b.Resting[axis] = 1
				}
				b.Velocity[axis] = 0
			}
		}
	}
}

// moveAxis moves b by d along axis one voxel boundary at a time and stops
// flush against the first solid cell. It reports whether it was blocked.
func (w *World) moveAxis(b *Body, axis int, d float64) bool {
	stepped := false
	for i := 0; d != 0 && i < maxCellSteps; i++ {
		var dist float64
		if d > 0 {
			lead := b.AABB.Max()[axis]
			dist = math.Floor(lead) + 1 - lead
		} else {
			lead := b.AABB.Base[axis]
			dist = lead - (math.Ceil(lead) - 1)
		}
		if dist < epsilon {
			dist++
		}
		step := math.Min(math.Abs(d), dist)
		if d < 0 {
			step = -step
		}
		var delta mgl64.Vec3
		delta[axis] = step
		cand := b.AABB.Translate(delta)

		if w.collides(cand) {
			if axis == 1 || stepped || !b.AutoStep || b.Resting[1] >= 0 {
				return true
			}
			raise := math.Floor(b.AABB.Base[1]+epsilon) + 1 - b.AABB.Base[1]
			up := mgl64.Vec3{0, raise, 0}
			if w.collides(b.AABB.Translate(up)) || w.collides(cand.Translate(up)) {
				return true
			}
			cand = cand.Translate(up)
			stepped = true
			if b.OnStep != nil {
				b.OnStep()
			}
		}
		b.AABB = cand
		d -= step
	}
	return false
}

// collides reports whether box shares volume with any solid cell
func (w *World) collides(box AABB) bool {
	if w.Terrain == nil {
		return false
	}
	lo, hi := box.Base, box.Max()
	x0, x1 := int(math.Floor(lo[0]+epsilon)), int(math.Ceil(hi[0]-epsilon))
	y0, y1 := int(math.Floor(lo[1]+epsilon)), int(math.Ceil(hi[1]-epsilon))
	z0, z1 := int(math.Floor(lo[2]+epsilon)), int(math.Ceil(hi[2]-epsilon))
	for y := y0; y < y1; y++ {
		for z := z0; z < z1; z++ {
			for x := x0; x < x1; x++ {
				if w.Terrain.Solid(x, y, z) {
					return true
				}
			}
		}
	}
	return false
}

// Blocked reports whether box overlaps solid terrain
func (w *World) Blocked(box AABB) bool { return w.collides(box) }
