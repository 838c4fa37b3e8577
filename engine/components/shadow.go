package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/physics"
	"github.com/1siamBot/voxel-engine/engine/render"
)

// ShadowState draws a flat disc on the ground below the entity
type ShadowState struct {
	Size   float64        `ecs:"size"`
	Object *render.Object `ecs:"-"`
}

func (b *Builtins) installShadow() error {
	var err error
	b.Shadow, err = core.Register(b.ents, core.Definition[ShadowState]{
		Name:    "shadow",
		Default: ShadowState{Size: 0.5},
		OnAttach: func(id core.EntityID, s *ShadowState) error {
			o := render.NewObject("shadow", mgl64.Vec3{s.Size, 0, s.Size}, render.ShadowColor, ".")
			o.Flat = true
			o.Visible = false
			if err := b.deps.Render.AddVisualObject(o); err != nil {
				return err
			}
			s.Object = o
			return nil
		},
		OnDetach: func(id core.EntityID, s *ShadowState) {
			b.deps.Render.DisposeVisualObject(s.Object)
		},
		Render: func(dt float64, states []*core.Record[ShadowState]) {
			for _, r := range states {
				pos, err := b.Position.Get(r.Owner)
				if err != nil {
					r.Data.Object.Visible = false
					continue
				}
				b.placeShadow(r.Data.Object, pos.RenderPosition)
			}
		},
	})
	return err
}

// placeShadow puts o on the first solid cell below p, hiding it when the
// ground is further away than the shadow distance.
func (b *Builtins) placeShadow(o *render.Object, p mgl64.Vec3) {
	ground, ok := b.groundBelow(p)
	if !ok {
		o.Visible = false
		return
	}
	o.Visible = true
	o.Position = mgl64.Vec3{p[0], ground + 0.05, p[2]}
}

func (b *Builtins) groundBelow(p mgl64.Vec3) (float64, bool) {
	terrain := b.deps.Terrain
	if terrain == nil {
		terrain = physics.Ground{Level: 0}
	}
	x, z := int(math.Floor(p[0])), int(math.Floor(p[2]))
	top := int(math.Ceil(p[1])) - 1
	limit := int(math.Floor(p[1] - b.opts.ShadowDistance))
	for y := top; y >= limit; y-- {
		if terrain.Solid(x, y, z) {
			ground := float64(y + 1)
			if p[1]-ground >= b.opts.ShadowDistance {
				return 0, false
			}
			return ground, true
		}
	}
	return 0, false
}
