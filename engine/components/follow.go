package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/core"
)

// FollowsState pins an entity to another entity's position plus Offset.
// The follower queues its own removal once the target is gone.
type FollowsState struct {
	Entity core.EntityID `ecs:"entity"`
	Offset mgl64.Vec3    `ecs:"offset"`
}

func (b *Builtins) installFollowsEntity() error {
	var err error
	b.FollowsEntity, err = core.Register(b.ents, core.Definition[FollowsState]{
		Name: "follows-entity",
		Tick: func(dt float64, states []*core.Record[FollowsState]) {
			for _, r := range states {
				target, err := b.Position.Get(r.Data.Entity)
				if err != nil {
					b.ents.QueueRemoval(r.Owner)
					continue
				}
				if self, err := b.Position.Get(r.Owner); err == nil {
					self.Position = target.Position.Add(r.Data.Offset)
					self.sync()
				}
			}
		},
		Render: func(dt float64, states []*core.Record[FollowsState]) {
			for _, r := range states {
				target, err := b.Position.Get(r.Data.Entity)
				if err != nil {
					continue
				}
				if self, err := b.Position.Get(r.Owner); err == nil {
					self.RenderPosition = target.RenderPosition.Add(r.Data.Offset)
				}
			}
		},
	})
	return err
}
