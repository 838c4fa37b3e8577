package components

import "github.com/1siamBot/voxel-engine/engine/core"

// FadeState hides the entity's mesh while the camera zoom is below Cutoff
type FadeState struct {
	Cutoff  float64 `ecs:"cutoff"`
	Showing bool    `ecs:"showing"`
}

func (b *Builtins) installFadeOnZoom() error {
	var err error
	b.FadeOnZoom, err = core.Register(b.ents, core.Definition[FadeState]{
		Name:    "fade-on-zoom",
		Default: FadeState{Cutoff: b.opts.FadeCutoff, Showing: true},
		Tick: func(dt float64, states []*core.Record[FadeState]) {
			zoom := b.deps.Render.CameraZoom()
			for _, r := range states {
				b.checkZoom(&r.Data, r.Owner, zoom)
			}
		},
	})
	return err
}

// checkZoom writes mesh visibility only when zoom crosses the cutoff
func (b *Builtins) checkZoom(s *FadeState, id core.EntityID, zoom float64) {
	mesh, err := b.Mesh.Get(id)
	if err != nil {
		return
	}
	if (s.Showing && zoom < s.Cutoff) || (!s.Showing && zoom > s.Cutoff) {
		s.Showing = zoom > s.Cutoff
		mesh.Mesh.Visible = s.Showing
	}
}
