package components

import "github.com/1siamBot/voxel-engine/engine/core"

// AutoSteppingState is re-attached each time the entity's body climbs a
// ledge. Elapsed counts simulated seconds since that step.
type AutoSteppingState struct {
	Tick    uint64  `ecs:"tick"`
	Elapsed float64 `ecs:"elapsed"`
}

func (b *Builtins) installAutoStepping() error {
	var err error
	b.AutoStepping, err = core.Register(b.ents, core.Definition[AutoSteppingState]{
		Name: "auto-stepping",
		Tick: func(dt float64, states []*core.Record[AutoSteppingState]) {
			for _, r := range states {
				r.Data.Elapsed += dt
			}
		},
	})
	return err
}

// stepHandler returns the body callback that records an auto-step of id
func (b *Builtins) stepHandler(id core.EntityID) func() {
	return func() {
		tick := b.ents.TickCount()
		err := b.AutoStepping.AttachWith(id, func(s *AutoSteppingState) { s.Tick = tick })
		if err != nil {
			b.log.Warn("auto-stepping attach failed", "entity", id, "err", err)
		}
	}
}
