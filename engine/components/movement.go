package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/core"
)

// MovementState drives a physics body on the ground. Heading is in radians
// with 0 facing -z and pi/2 facing +x.
type MovementState struct {
	Heading   float64 `ecs:"heading"`
	Running   bool    `ecs:"running"`
	Jumping   bool    `ecs:"jumping"`
	MaxSpeed  float64 `ecs:"max_speed"`
	JumpSpeed float64 `ecs:"jump_speed"`
}

// Direction returns the unit ground vector for Heading
func (m *MovementState) Direction() mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(m.Heading), 0, -math.Cos(m.Heading)}
}

func (b *Builtins) installMovement() error {
	var err error
	b.Movement, err = core.Register(b.ents, core.Definition[MovementState]{
		Name:     "movement",
		Priority: -1,
		Default:  MovementState{MaxSpeed: 4, JumpSpeed: 6},
		Tick: func(dt float64, states []*core.Record[MovementState]) {
			for _, r := range states {
				body, err := b.PhysicsBody(r.Owner)
				if err != nil || body == nil {
					continue
				}
				m := &r.Data
				var v mgl64.Vec3
				if m.Running {
					v = m.Direction().Mul(m.MaxSpeed)
				}
				body.Velocity[0] = v[0]
				body.Velocity[2] = v[2]
				// jumps only start from the ground
				if m.Jumping && body.Resting[1] < 0 {
					body.Velocity[1] = m.JumpSpeed
				}
			}
		},
	})
	return err
}
