package components

import "github.com/1siamBot/voxel-engine/engine/core"

// EveryState calls Callback once per Every seconds of simulated time
type EveryState struct {
	Every    float64                `ecs:"every"`
	Callback func(id core.EntityID) `ecs:"callback"`

	elapsed float64
}

func (b *Builtins) installEvery() error {
	var err error
	b.Every, err = core.Register(b.ents, core.Definition[EveryState]{
		Name:    "every",
		Default: EveryState{Every: 1},
		Tick: func(dt float64, states []*core.Record[EveryState]) {
			for _, r := range states {
				s := &r.Data
				if s.Every <= 0 || s.Callback == nil {
					continue
				}
				s.elapsed += dt
				for s.elapsed >= s.Every {
					s.elapsed -= s.Every
					s.Callback(r.Owner)
				}
			}
		},
	})
	return err
}
