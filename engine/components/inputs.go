package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/1siamBot/voxel-engine/engine/core"
)

// Intent is the movement a player asks for in one frame. Move is relative to
// Heading: -z is forward and +x is right; its length is ignored.
type Intent struct {
	Move    mgl64.Vec3
	Jump    bool
	Heading float64
}

// InputSource reports the current player intent
type InputSource interface {
	Intent() Intent
}

// HeldInput is an InputSource that drivers write into every frame
type HeldInput struct {
	Current Intent
}

// Intent returns the last written intent
func (h *HeldInput) Intent() Intent { return h.Current }

// ReceivesInputsState marks entities steered by the input source
type ReceivesInputsState struct{}

func (b *Builtins) installReceivesInputs() error {
	var err error
	b.ReceivesInputs, err = core.Register(b.ents, core.Definition[ReceivesInputsState]{
		Name:     "receives-inputs",
		Priority: -2,
		Tick: func(dt float64, states []*core.Record[ReceivesInputsState]) {
			if b.deps.Input == nil || len(states) == 0 {
				return
			}
			in := b.deps.Input.Intent()
			for _, r := range states {
				m, err := b.Movement.Get(r.Owner)
				if err != nil {
					continue
				}
				applyIntent(m, in)
			}
		},
	})
	return err
}

func applyIntent(m *MovementState, in Intent) {
	m.Jumping = in.Jump
	dx, dz := in.Move[0], in.Move[2]
	if dx == 0 && dz == 0 {
		m.Running = false
		return
	}
	m.Running = true
	m.Heading = in.Heading + math.Atan2(dx, -dz)
}
