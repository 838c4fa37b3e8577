package physics

// Terrain answers solidity of unit voxels. Cell (x,y,z) spans [x,x+1) on
// each axis.
type Terrain interface {
	Solid(x, y, z int) bool
}

// Ground is an infinite flat floor: every cell below Level is solid
type Ground struct {
	Level int
}

func (g Ground) Solid(x, y, z int) bool { return y < g.Level }

// Grid is a bounded voxel volume on top of an optional floor. Cells outside
// the volume fall through to Floor.
type Grid struct {
	Width, Height, Depth int
	Floor                Terrain
	solid                []bool
}

// NewGrid creates an empty grid of the given dimensions
func NewGrid(width, height, depth int, floor Terrain) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Depth:  depth,
		Floor:  floor,
		solid:  make([]bool, width*height*depth),
	}
}

func (g *Grid) index(x, y, z int) int {
	if x < 0 || y < 0 || z < 0 || x >= g.Width || y >= g.Height || z >= g.Depth {
		return -1
	}
	return (y*g.Depth+z)*g.Width + x
}

// Solid implements Terrain
func (g *Grid) Solid(x, y, z int) bool {
	if i := g.index(x, y, z); i >= 0 && g.solid[i] {
		return true
	}
	return g.Floor != nil && g.Floor.Solid(x, y, z)
}

// Set marks a cell solid or empty; out of range cells are ignored
func (g *Grid) Set(x, y, z int, solid bool) {
	if i := g.index(x, y, z); i >= 0 {
		g.solid[i] = solid
	}
}
