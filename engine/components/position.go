package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/physics"
)

// PositionState is the simulated placement of an entity. Position is the
// bottom center of its box.
type PositionState struct {
	Position       mgl64.Vec3   `ecs:"position"`
	Width          float64      `ecs:"width"`
	Height         float64      `ecs:"height"`
	RenderPosition mgl64.Vec3   `ecs:"renderPosition"`
	AABB           physics.AABB `ecs:"aabb"`

	prev mgl64.Vec3
}

func (p *PositionState) sync() {
	p.AABB = physics.FromFeet(p.Position, p.Width, p.Height)
}

func (b *Builtins) installPosition() error {
	var err error
	b.Position, err = core.Register(b.ents, core.Definition[PositionState]{
		Name:    "position",
		Default: PositionState{Width: 0.8, Height: 0.8},
		OnAttach: func(id core.EntityID, s *PositionState) error {
			s.sync()
			s.prev = s.Position
			s.RenderPosition = s.Position
			return nil
		},
		Tick: func(dt float64, states []*core.Record[PositionState]) {
			for _, r := range states {
				r.Data.prev = r.Data.Position
				r.Data.sync()
			}
		},
		Render: func(dt float64, states []*core.Record[PositionState]) {
			alpha := b.alpha()
			for _, r := range states {
				r.Data.RenderPosition = lerp(r.Data.prev, r.Data.Position, alpha)
			}
		},
	})
	return err
}

// SetPosition teleports id, skipping interpolation for the next frame
func (b *Builtins) SetPosition(id core.EntityID, pos mgl64.Vec3) error {
	p, err := b.Position.Get(id)
	if err != nil {
		return err
	}
	p.Position = pos
	p.prev = pos
	p.RenderPosition = pos
	p.sync()
	if ph, err := b.Physics.Get(id); err == nil && ph.Body != nil {
		ph.Body.AABB = p.AABB
	}
	return nil
}
