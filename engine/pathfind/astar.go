package pathfind

import (
	"container/heap"
	"math"
)

// Point is a voxel cell; for paths it holds the agent's feet
type Point struct{ X, Y, Z int }

// stepUpCost makes climbing slightly dearer than walking
const stepUpCost = 1.5

// FindPath finds a walking path from start to goal using A*. Agents climb
// one cell at a time and may drop up to MaxDrop cells. At most maxNodes
// cells are expanded; 0 means no limit.
func FindPath(ng *NavGrid, start, goal Point, maxNodes int) []Point {
	if !ng.Walkable(start) || !ng.Walkable(goal) {
		return nil
	}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &node{p: start, g: 0, f: heuristic(start, goal)})

	came := make(map[Point]Point)
	gScore := make(map[Point]float64)
	gScore[start] = 0

	dirs := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}

	expanded := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if cur.p == goal {
			return reconstructPath(came, goal)
		}
		if cur.g > gScore[cur.p] {
			continue // stale entry
		}
		expanded++
		if maxNodes > 0 && expanded > maxNodes {
			return nil
		}

		for _, d := range dirs {
			diag := d[0] != 0 && d[1] != 0
			// Prevent diagonal cutting past corners
			if diag && (!ng.Clear(Point{cur.p.X + d[0], cur.p.Y, cur.p.Z}) || !ng.Clear(Point{cur.p.X, cur.p.Y, cur.p.Z + d[1]})) {
				continue
			}
			np, cost, ok := ng.neighbor(cur.p, d[0], d[1])
			if !ok {
				continue
			}
			if diag {
				if np.Y != cur.p.Y {
					continue // no diagonal steps or drops
				}
				cost *= math.Sqrt2
			}
			tentG := gScore[cur.p] + cost
			if old, ok := gScore[np]; ok && tentG >= old {
				continue
			}
			gScore[np] = tentG
			came[np] = cur.p
			heap.Push(open, &node{p: np, g: tentG, f: tentG + heuristic(np, goal)})
		}
	}
	return nil // no path
}

// neighbor resolves the cell reached by walking one cell along (dx, dz)
// from p: level, one up, or dropping.
func (ng *NavGrid) neighbor(p Point, dx, dz int) (Point, float64, bool) {
	level := Point{p.X + dx, p.Y, p.Z + dz}
	if ng.Walkable(level) {
		return level, 1, true
	}
	up := Point{level.X, level.Y + 1, level.Z}
	// climbing needs headroom above the agent before it moves over
	if ng.Walkable(up) && !ng.terrain.Solid(p.X, p.Y+ng.AgentHeight, p.Z) {
		return up, stepUpCost, true
	}
	if !ng.Clear(level) {
		return Point{}, 0, false
	}
	if g, ok := ng.Ground(level); ok {
		return g, 1 + 0.1*float64(p.Y-g.Y), true
	}
	return Point{}, 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func heuristic(a, b Point) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dz := math.Abs(float64(a.Z - b.Z))
	return dx + dz + (math.Sqrt2-2)*math.Min(dx, dz) + float64(abs(a.Y-b.Y))
}

func reconstructPath(came map[Point]Point, goal Point) []Point {
	path := []Point{goal}
	cur := goal
	for {
		prev, ok := came[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// Reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// --- Priority queue ---

type node struct {
	p    Point
	g, f float64
}

type nodeHeap []*node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
