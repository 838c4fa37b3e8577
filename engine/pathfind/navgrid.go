package pathfind

import "github.com/1siamBot/voxel-engine/engine/physics"

// NavGrid answers where an agent can stand inside a bounded volume of
// terrain. A cell is walkable when the cell below is solid and the agent's
// column from the cell up is clear.
type NavGrid struct {
	Width, Height, Depth int
	AgentHeight          int // cells the agent occupies
	MaxDrop              int // deepest fall a path may take
	terrain              physics.Terrain
}

// NewNavGrid builds a navigation grid over terrain
func NewNavGrid(terrain physics.Terrain, width, height, depth int) *NavGrid {
	return &NavGrid{
		Width:       width,
		Height:      height,
		Depth:       depth,
		AgentHeight: 2,
		MaxDrop:     3,
		terrain:     terrain,
	}
}

// InBounds checks if a cell is inside the grid
func (ng *NavGrid) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.X < ng.Width && p.Y < ng.Height && p.Z < ng.Depth
}

// Clear reports whether the agent's column at p is free of solids
func (ng *NavGrid) Clear(p Point) bool {
	for dy := 0; dy < ng.AgentHeight; dy++ {
		if ng.terrain.Solid(p.X, p.Y+dy, p.Z) {
			return false
		}
	}
	return true
}

// Walkable reports whether the agent can stand with its feet in cell p
func (ng *NavGrid) Walkable(p Point) bool {
	return ng.InBounds(p) && ng.terrain.Solid(p.X, p.Y-1, p.Z) && ng.Clear(p)
}

// Ground returns the walkable cell at or below p within MaxDrop cells
func (ng *NavGrid) Ground(p Point) (Point, bool) {
	for d := 0; d <= ng.MaxDrop; d++ {
		q := Point{p.X, p.Y - d, p.Z}
		if ng.Walkable(q) {
			return q, true
		}
		if !ng.InBounds(q) || !ng.Clear(q) {
			break
		}
	}
	return Point{}, false
}
