package physics

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned box given by its minimum corner and its extents
type AABB struct {
	Base mgl64.Vec3
	Size mgl64.Vec3
}

// NewAABB creates a box from its minimum corner and extents
func NewAABB(base, size mgl64.Vec3) AABB {
	return AABB{Base: base, Size: size}
}

// FromFeet builds the box of an entity standing at pos (bottom center)
func FromFeet(pos mgl64.Vec3, width, height float64) AABB {
	hw := width / 2
	return AABB{
		Base: mgl64.Vec3{pos[0] - hw, pos[1], pos[2] - hw},
		Size: mgl64.Vec3{width, height, width},
	}
}

// Max returns the maximum corner
func (b AABB) Max() mgl64.Vec3 { return b.Base.Add(b.Size) }

// Feet returns the bottom center point
func (b AABB) Feet() mgl64.Vec3 {
	return mgl64.Vec3{b.Base[0] + b.Size[0]/2, b.Base[1], b.Base[2] + b.Size[2]/2}
}

// Translate returns the box moved by d
func (b AABB) Translate(d mgl64.Vec3) AABB {
	return AABB{Base: b.Base.Add(d), Size: b.Size}
}

// Intersects reports whether the boxes overlap or share a face, edge or corner
func (b AABB) Intersects(o AABB) bool {
	bm, om := b.Max(), o.Max()
	for i := 0; i < 3; i++ {
		if b.Base[i] > om[i] || o.Base[i] > bm[i] {
			return false
		}
	}
	return true
}

// Touches reports whether the boxes meet without overlapping volume
func (b AABB) Touches(o AABB) bool {
	if !b.Intersects(o) {
		return false
	}
	bm, om := b.Max(), o.Max()
	for i := 0; i < 3; i++ {
		if b.Base[i] == om[i] || o.Base[i] == bm[i] {
			return true
		}
	}
	return false
}

// Overlaps reports whether the boxes share volume
func (b AABB) Overlaps(o AABB) bool {
	return b.Intersects(o) && !b.Touches(o)
}
