package pathfind

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Arrive is how close to a waypoint's center counts as reaching it
const Arrive = 0.25

// Cell returns the cell containing world position p
func Cell(p mgl64.Vec3) Point {
	return Point{int(math.Floor(p[0])), int(math.Floor(p[1] + 1e-6)), int(math.Floor(p[2]))}
}

// Center returns the world position of the middle of p's floor
func Center(p Point) mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X) + 0.5, float64(p.Y), float64(p.Z) + 0.5}
}

// Steer computes a ground velocity for an agent at pos moving along path
// from waypoint idx while keeping away from others (x, z, radius). It
// returns the velocity and the waypoint to aim for next.
func Steer(pos mgl64.Vec3, speed float64, path []Point, idx int, others [][3]float64) (mgl64.Vec3, int) {
	for idx < len(path) {
		c := Center(path[idx])
		if math.Hypot(c[0]-pos[0], c[2]-pos[2]) > Arrive {
			break
		}
		idx++
	}
	if idx >= len(path) {
		return mgl64.Vec3{}, idx
	}

	// Seek toward current waypoint
	target := Center(path[idx])
	dx, dz := target[0]-pos[0], target[2]-pos[2]
	dist := math.Hypot(dx, dz)
	seekX, seekZ := dx/dist*speed, dz/dist*speed

	// Separation from other agents
	sepX, sepZ := 0.0, 0.0
	for _, o := range others {
		sx, sz := pos[0]-o[0], pos[2]-o[1]
		d := math.Hypot(sx, sz)
		minDist := o[2] + 0.5
		if d < minDist && d > 0.001 {
			force := (minDist - d) / minDist
			sepX += sx / d * force * speed * 0.5
			sepZ += sz / d * force * speed * 0.5
		}
	}

	vx := seekX + sepX
	vz := seekZ + sepZ

	// Clamp to max speed
	if v := math.Hypot(vx, vz); v > speed {
		vx = vx / v * speed
		vz = vz / v * speed
	}
	return mgl64.Vec3{vx, 0, vz}, idx
}
