package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"

	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/render"
)

// MeshState binds a visual object drawn at the entity's render position
// plus Offset.
type MeshState struct {
	Mesh   *render.Object `ecs:"mesh"`
	Offset mgl64.Vec3     `ecs:"offset"`
}

func (b *Builtins) installMesh() error {
	var err error
	b.Mesh, err = core.Register(b.ents, core.Definition[MeshState]{
		Name: "has-mesh",
		OnAttach: func(id core.EntityID, s *MeshState) error {
			if s.Mesh == nil {
				return eris.Wrapf(core.ErrFatalMisuse, "has-mesh attached to entity %v without a mesh", id)
			}
			pos, err := b.Position.Get(id)
			if err != nil {
				return eris.Wrap(err, "has-mesh needs a position")
			}
			if err := b.deps.Render.AddVisualObject(s.Mesh); err != nil {
				return eris.Wrapf(err, "register mesh of entity %v", id)
			}
			s.Mesh.Position = pos.Position.Add(s.Offset)
			return nil
		},
		OnDetach: func(id core.EntityID, s *MeshState) {
			b.deps.Render.DisposeVisualObject(s.Mesh)
		},
		Render: func(dt float64, states []*core.Record[MeshState]) {
			for _, r := range states {
				pos, err := b.Position.Get(r.Owner)
				if err != nil {
					continue
				}
				r.Data.Mesh.Position = pos.RenderPosition.Add(r.Data.Offset)
			}
		},
	})
	return err
}
