package components

import (
	"github.com/rotisserie/eris"

	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/physics"
)

// PhysicsState binds an entity to a rigid body
type PhysicsState struct {
	Body *physics.Body `ecs:"body"`
}

func (b *Builtins) installPhysics() error {
	var err error
	b.Physics, err = core.Register(b.ents, core.Definition[PhysicsState]{
		Name: "physics",
		OnAttach: func(id core.EntityID, s *PhysicsState) error {
			if b.deps.Physics == nil {
				return eris.Wrap(core.ErrFatalMisuse, "physics attached without a physics backend")
			}
			pos, err := b.Position.Get(id)
			if err != nil {
				return eris.Wrap(err, "physics needs a position")
			}
			s.Body = b.deps.Physics.CreateBody(pos.AABB)
			return nil
		},
		OnDetach: func(id core.EntityID, s *PhysicsState) {
			if s.Body != nil {
				b.deps.Physics.RemoveBody(s.Body)
			}
		},
		Tick: func(dt float64, states []*core.Record[PhysicsState]) {
			if len(states) == 0 {
				return
			}
			b.deps.Physics.Step(dt)
			for _, r := range states {
				pos, err := b.Position.Get(r.Owner)
				if err != nil || r.Data.Body == nil {
					continue
				}
				pos.AABB = r.Data.Body.AABB
				pos.Position = pos.AABB.Feet()
			}
		},
	})
	return err
}
