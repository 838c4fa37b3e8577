package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/physics"
)

// CollideTerrainState reports terrain contacts of a physics body. Holders
// also block block placement where they stand.
type CollideTerrainState struct {
	Callback func(id core.EntityID, resting [3]int) `ecs:"callback"`
}

func (b *Builtins) installCollideTerrain() error {
	var err error
	b.CollideTerrain, err = core.Register(b.ents, core.Definition[CollideTerrainState]{
		Name: "collide-terrain",
		Tick: func(dt float64, states []*core.Record[CollideTerrainState]) {
			for _, r := range states {
				if r.Data.Callback == nil {
					continue
				}
				ph, err := b.Physics.Get(r.Owner)
				if err != nil || ph.Body == nil || ph.Body.Resting == [3]int{} {
					continue
				}
				r.Data.Callback(r.Owner, ph.Body.Resting)
			}
		},
	})
	return err
}

// IsTerrainBlocked reports whether any collide-terrain entity occupies the
// voxel at x, y, z.
func (b *Builtins) IsTerrainBlocked(x, y, z int) bool {
	cell := physics.NewAABB(mgl64.Vec3{float64(x), float64(y), float64(z)}, mgl64.Vec3{1, 1, 1})
	blocked := false
	b.CollideTerrain.ForEach(func(_ *CollideTerrainState, id core.EntityID) bool {
		box, err := b.AABB(id)
		if err == nil && cell.Overlaps(box) {
			blocked = true
			return false
		}
		return true
	})
	return blocked
}

// CollideEntitiesState makes an entity report box overlaps with other
// holders. A pair is reported to an entity when its mask matches the
// other's bits.
type CollideEntitiesState struct {
	CollideBits uint32                          `ecs:"collideBits"`
	CollideMask uint32                          `ecs:"collideMask"`
	Callback    func(self, other core.EntityID) `ecs:"callback"`
}

func (b *Builtins) installCollideEntities() error {
	var err error
	b.CollideEntities, err = core.Register(b.ents, core.Definition[CollideEntitiesState]{
		Name:    "collide-entities",
		Default: CollideEntitiesState{CollideBits: 1, CollideMask: 1},
		Tick: func(dt float64, states []*core.Record[CollideEntitiesState]) {
			boxes := make([]physics.AABB, len(states))
			ok := make([]bool, len(states))
			for i, r := range states {
				if pos, err := b.Position.Get(r.Owner); err == nil {
					boxes[i], ok[i] = pos.AABB, true
				}
			}
			for i := 0; i < len(states); i++ {
				if !ok[i] {
					continue
				}
				a := states[i]
				for j := i + 1; j < len(states); j++ {
					if !ok[j] {
						continue
					}
					c := states[j]
					aHits := a.Data.CollideMask&c.Data.CollideBits != 0
					cHits := c.Data.CollideMask&a.Data.CollideBits != 0
					if (!aHits && !cHits) || !boxes[i].Overlaps(boxes[j]) {
						continue
					}
					if aHits && a.Data.Callback != nil {
						a.Data.Callback(a.Owner, c.Owner)
					}
					if cHits && c.Data.Callback != nil {
						c.Data.Callback(c.Owner, a.Owner)
					}
				}
			}
		},
	})
	return err
}
