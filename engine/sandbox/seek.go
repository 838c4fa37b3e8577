package sandbox

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/pathfind"
)

// SeekState walks a physics entity toward Target along an A* path that is
// recomputed every Repath seconds.
type SeekState struct {
	Target core.EntityID `ecs:"target"`
	Speed  float64       `ecs:"speed"`
	Repath float64       `ecs:"repath"`
	Near   float64       `ecs:"near"` // stop within this distance of the target

	path    []pathfind.Point
	next    int
	elapsed float64
}

// registerSeek adds the seeks-entity component. It runs before the
// built-in physics so bodies move with this tick's velocity.
func (s *Sandbox) registerSeek() error {
	var err error
	s.Seek, err = core.Register(s.Entities, core.Definition[SeekState]{
		Name:     "seeks-entity",
		Priority: -1,
		Default:  SeekState{Speed: 3, Repath: 0.5, Near: 1.5},
		Tick: func(dt float64, states []*core.Record[SeekState]) {
			for _, r := range states {
				s.seek(r.Owner, &r.Data, dt)
			}
		},
	})
	return err
}

func (s *Sandbox) seek(id core.EntityID, st *SeekState, dt float64) {
	body, err := s.Builtins.PhysicsBody(id)
	if err != nil {
		return
	}
	self, err := s.Builtins.PositionData(id)
	if err != nil {
		return
	}
	target, err := s.Builtins.PositionData(st.Target)
	if err != nil {
		// target gone
		body.Velocity[0], body.Velocity[2] = 0, 0
		return
	}

	st.elapsed += dt
	if st.path == nil || st.elapsed >= st.Repath {
		st.elapsed = 0
		st.path = pathfind.FindPath(s.nav, pathfind.Cell(self.Position), pathfind.Cell(target.Position), 2048)
		st.next = 0
	}

	var v mgl64.Vec3
	if self.Position.Sub(target.Position).Len() > st.Near {
		v, st.next = pathfind.Steer(self.Position, st.Speed, st.path, st.next, nil)
	}
	body.Velocity[0], body.Velocity[2] = v[0], v[2]
}
