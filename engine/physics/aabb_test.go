package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBRelations(t *testing.T) {
	unit := NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	tests := []struct {
		name                         string
		other                        AABB
		intersects, touches, overlap bool
	}{
		{"inside", NewAABB(mgl64.Vec3{0.25, 0.25, 0.25}, mgl64.Vec3{0.5, 0.5, 0.5}), true, false, true},
		{"face", NewAABB(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 1, 1}), true, true, false},
		{"corner", NewAABB(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}), true, true, false},
		{"apart", NewAABB(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 1, 1}), false, false, false},
		{"partial", NewAABB(mgl64.Vec3{0.5, 0.5, -0.5}, mgl64.Vec3{1, 1, 1}), true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Intersects(tt.other); got != tt.intersects {
				t.Errorf("Intersects = %v", got)
			}
			if got := unit.Touches(tt.other); got != tt.touches {
				t.Errorf("Touches = %v", got)
			}
			if got := unit.Overlaps(tt.other); got != tt.overlap {
				t.Errorf("Overlaps = %v", got)
			}
		})
	}
}

func TestFromFeet(t *testing.T) {
	box := FromFeet(mgl64.Vec3{2, 1, 3}, 0.5, 1.8)
	if box.Base != (mgl64.Vec3{1.75, 1, 2.75}) {
		t.Errorf("unexpected base %v", box.Base)
	}
	if box.Feet() != (mgl64.Vec3{2, 1, 3}) {
		t.Errorf("unexpected feet %v", box.Feet())
	}
}
