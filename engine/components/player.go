package components

import "github.com/1siamBot/voxel-engine/engine/core"

// PlayerState marks the player entity
type PlayerState struct{}

func (b *Builtins) installPlayer() error {
	var err error
	b.Player, err = core.Register(b.ents, core.Definition[PlayerState]{Name: "player"})
	return err
}

// IsPlayer reports whether id is the player
func (b *Builtins) IsPlayer(id core.EntityID) bool {
	return b.ents.HasComponent(id, b.Player)
}
