package components

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/physics"
	"github.com/1siamBot/voxel-engine/engine/render"
)

// Spawn describes a general entity for Add. Position, Width and Height are
// required; the rest is optional.
type Spawn struct {
	Position      mgl64.Vec3
	Width, Height float64
	Mesh          *render.Object
	MeshOffset    mgl64.Vec3
	Physics       bool
	AutoStep      bool // only with Physics
	Movement      bool // only with Physics
	Shadow        bool
}

// Add creates an entity with a position and the optional physics body, mesh
// and shadow described by s. On failure nothing is left behind.
func (b *Builtins) Add(s Spawn) (core.EntityID, error) {
	id := b.ents.CreateEntity()
	if err := b.populate(id, s); err != nil {
		if rmErr := b.ents.RemoveEntity(id); rmErr != nil {
			return core.NilEntity, errors.Join(err, rmErr)
		}
		return core.NilEntity, err
	}
	return id, nil
}

func (b *Builtins) populate(id core.EntityID, s Spawn) error {
	err := b.Position.AttachWith(id, func(p *PositionState) {
		p.Position = s.Position
		p.Width = s.Width
		p.Height = s.Height
	})
	if err != nil {
		return err
	}
	if s.Physics {
		if err := b.Physics.Attach(id, nil); err != nil {
			return err
		}
		body, err := b.PhysicsBody(id)
		if err != nil {
			return err
		}
		body.AutoStep = s.AutoStep
		body.OnStep = b.stepHandler(id)
		if s.Movement {
			if err := b.Movement.Attach(id, nil); err != nil {
				return err
			}
		}
	}
	if s.Mesh != nil {
		err := b.Mesh.AttachWith(id, func(m *MeshState) {
			m.Mesh = s.Mesh
			m.Offset = s.MeshOffset
		})
		if err != nil {
			return err
		}
	}
	if s.Shadow {
		if err := b.Shadow.Attach(id, core.Fields{"size": s.Width}); err != nil {
			return err
		}
	}
	return nil
}

// Remove queues id for removal at the next tick
func (b *Builtins) Remove(id core.EntityID) { b.ents.QueueRemoval(id) }

// AABB returns id's bounding box; treat it as read-only
func (b *Builtins) AABB(id core.EntityID) (physics.AABB, error) {
	p, err := b.Position.Get(id)
	if err != nil {
		return physics.AABB{}, err
	}
	return p.AABB, nil
}

// PositionData returns id's position state
func (b *Builtins) PositionData(id core.EntityID) (*PositionState, error) {
	return b.Position.Get(id)
}

// PhysicsBody returns id's rigid body
func (b *Builtins) PhysicsBody(id core.EntityID) (*physics.Body, error) {
	p, err := b.Physics.Get(id)
	if err != nil {
		return nil, err
	}
	return p.Body, nil
}

// MeshData returns id's mesh binding
func (b *Builtins) MeshData(id core.EntityID) (*MeshState, error) {
	return b.Mesh.Get(id)
}
