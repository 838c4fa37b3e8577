package pathfind

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/physics"
)

func flatGrid() *physics.Grid {
	return physics.NewGrid(10, 4, 10, physics.Ground{Level: 0})
}

func TestFindPathFlat(t *testing.T) {
	ng := NewNavGrid(flatGrid(), 10, 4, 10)
	path := FindPath(ng, Point{0, 0, 0}, Point{5, 0, 0}, 0)
	if len(path) != 6 {
		t.Fatalf("expected a straight 6 cell path, got %v", path)
	}
	for _, p := range path {
		if p.Y != 0 || p.Z != 0 {
			t.Errorf("unexpected waypoint %v", p)
		}
	}
}

func TestFindPathAroundWall(t *testing.T) {
	g := flatGrid()
	for z := 0; z < 9; z++ {
		g.Set(3, 0, z, true)
		g.Set(3, 1, z, true)
	}
	ng := NewNavGrid(g, 10, 4, 10)
	path := FindPath(ng, Point{0, 0, 0}, Point{6, 0, 0}, 0)
	if path == nil {
		t.Fatal("expected a path through the gap")
	}
	for _, p := range path {
		if p.X == 3 && p.Z != 9 {
			t.Errorf("path goes through the wall at %v", p)
		}
	}

	// close the gap
	g.Set(3, 0, 9, true)
	g.Set(3, 1, 9, true)
	if path := FindPath(ng, Point{0, 0, 0}, Point{6, 0, 0}, 0); path != nil {
		t.Errorf("expected no path over a two high wall, got %v", path)
	}
}

func TestFindPathClimbsAndDrops(t *testing.T) {
	g := flatGrid()
	for z := 0; z < 10; z++ {
		g.Set(3, 0, z, true)
	}
	ng := NewNavGrid(g, 10, 4, 10)
	path := FindPath(ng, Point{0, 0, 5}, Point{6, 0, 5}, 0)
	if path == nil {
		t.Fatal("expected a path over the step")
	}
	climbed := false
	for _, p := range path {
		if p.X == 3 {
			climbed = p.Y == 1
		}
	}
	if !climbed {
		t.Errorf("expected to stand on the step, got %v", path)
	}
	if last := path[len(path)-1]; last != (Point{6, 0, 5}) {
		t.Errorf("path ends at %v", last)
	}
}

func TestFindPathLimits(t *testing.T) {
	ng := NewNavGrid(flatGrid(), 10, 4, 10)
	if path := FindPath(ng, Point{0, 0, 0}, Point{9, 0, 9}, 3); path != nil {
		t.Error("node limit ignored")
	}
	if path := FindPath(ng, Point{0, 2, 0}, Point{5, 0, 0}, 0); path != nil {
		t.Error("start in the air should fail")
	}
	if path := FindPath(ng, Point{0, 0, 0}, Point{12, 0, 0}, 0); path != nil {
		t.Error("goal out of bounds should fail")
	}
}

func TestGround(t *testing.T) {
	ng := NewNavGrid(flatGrid(), 10, 4, 10)
	if p, ok := ng.Ground(Point{2, 3, 2}); !ok || p != (Point{2, 0, 2}) {
		t.Errorf("expected to land on the floor, got %v %v", p, ok)
	}
	ng.MaxDrop = 1
	if _, ok := ng.Ground(Point{2, 3, 2}); ok {
		t.Error("drop deeper than MaxDrop accepted")
	}
}

func TestSteer(t *testing.T) {
	path := []Point{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	v, idx := Steer(mgl64.Vec3{0.5, 0, 0.5}, 2, path, 0, nil)
	if idx != 1 {
		t.Errorf("expected to skip the reached waypoint, idx %d", idx)
	}
	if !v.ApproxEqual(mgl64.Vec3{2, 0, 0}) {
		t.Errorf("expected to head +x at full speed, got %v", v)
	}

	// a neighbour right behind pushes but speed stays capped
	v, _ = Steer(mgl64.Vec3{0.5, 0, 0.5}, 2, path, 1, [][3]float64{{0.3, 0.5, 0.5}})
	if v.Len() > 2+1e-9 {
		t.Errorf("speed not clamped: %v", v.Len())
	}

	v, idx = Steer(mgl64.Vec3{2.5, 0, 0.5}, 2, path, 2, nil)
	if idx != 3 || v.Len() != 0 {
		t.Errorf("expected to stop at the end, got %v idx %d", v, idx)
	}
}

func TestCell(t *testing.T) {
	if c := Cell(mgl64.Vec3{1.7, 2, -0.2}); c != (Point{1, 2, -1}) {
		t.Errorf("unexpected cell %v", c)
	}
	if c := Center(Point{1, 2, 3}); c != (mgl64.Vec3{1.5, 2, 3.5}) {
		t.Errorf("unexpected center %v", c)
	}
}
