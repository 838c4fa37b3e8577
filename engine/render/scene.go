package render

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"
)

var (
	ErrNilObject     = eris.New("nil visual object")
	ErrObjectInScene = eris.New("visual object already in scene")
)

// Object is a visual object owned by a Scene while registered
type Object struct {
	Name     string
	Position mgl64.Vec3 // bottom center, world units
	Size     mgl64.Vec3
	Visible  bool
	Color    color.RGBA
	Glyph    string // terminal representation
	Flat     bool   // drawn on the ground plane, e.g. shadows

	scene    *Scene
	disposed bool
}

// NewObject creates a visible object
func NewObject(name string, size mgl64.Vec3, clr color.RGBA, glyph string) *Object {
	return &Object{
		Name:    name,
		Size:    size,
		Visible: true,
		Color:   clr,
		Glyph:   glyph,
	}
}

// Disposed reports whether the object was released by its scene
func (o *Object) Disposed() bool { return o.disposed }

// Scene is the set of dynamic objects a renderer draws, plus the camera
// whose zoom the simulation reads.
type Scene struct {
	Camera  *Camera
	objects []*Object
}

// NewScene creates an empty scene viewed through cam
func NewScene(cam *Camera) *Scene {
	return &Scene{Camera: cam}
}

// AddVisualObject registers o for drawing
func (s *Scene) AddVisualObject(o *Object) error {
	if o == nil {
		return ErrNilObject
	}
	if o.scene != nil {
		return eris.Wrapf(ErrObjectInScene, "object %q", o.Name)
	}
	o.scene = s
	o.disposed = false
	s.objects = append(s.objects, o)
	return nil
}

// DisposeVisualObject releases o; disposing twice is harmless
func (s *Scene) DisposeVisualObject(o *Object) {
	if o == nil || o.scene != s {
		return
	}
	if i := slices.Index(s.objects, o); i >= 0 {
		s.objects = slices.Delete(s.objects, i, i+1)
	}
	o.scene = nil
	o.disposed = true
}

// CameraZoom returns the camera's zoom distance
func (s *Scene) CameraZoom() float64 {
	if s.Camera == nil {
		return 0
	}
	return s.Camera.Distance
}

// Len returns the number of registered objects
func (s *Scene) Len() int { return len(s.objects) }

// Objects returns the registered objects in registration order
func (s *Scene) Objects() []*Object { return s.objects }

// DrawOrder returns the visible objects back to front: flat objects first,
// then by iso depth (x+z), then by height.
func (s *Scene) DrawOrder() []*Object {
	out := make([]*Object, 0, len(s.objects))
	for _, o := range s.objects {
		if o.Visible {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b *Object) int {
		if a.Flat != b.Flat {
			if a.Flat {
				return -1
			}
			return 1
		}
		da, db := a.Position[0]+a.Position[2], b.Position[0]+b.Position[2]
		if c := cmp.Compare(da, db); c != 0 {
			return c
		}
		return cmp.Compare(a.Position[1], b.Position[1])
	})
	return out
}
