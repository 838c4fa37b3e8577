// Package components provides the built-in component types: positions,
// physics bodies, meshes and the behaviours layered on top of them.
package components

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"

	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/physics"
	"github.com/1siamBot/voxel-engine/engine/render"
)

// RenderBackend registers visual objects and exposes the camera zoom scalar
type RenderBackend interface {
	AddVisualObject(o *render.Object) error
	DisposeVisualObject(o *render.Object)
	CameraZoom() float64
}

// PhysicsBackend owns rigid bodies
type PhysicsBackend interface {
	CreateBody(box physics.AABB) *physics.Body
	RemoveBody(b *physics.Body) bool
	Step(dt float64)
}

// AlphaSource reports how far the render frame sits between the previous
// and the current tick, in [0,1).
type AlphaSource interface {
	Alpha() float64
}

// Deps are the collaborators the built-in components call into
type Deps struct {
	Render  RenderBackend
	Physics PhysicsBackend
	Alpha   AlphaSource     // nil renders the latest tick state
	Terrain physics.Terrain // used for shadow placement; nil means flat ground at y=0
	Input   InputSource     // read by receives-inputs; nil leaves movement alone
}

// Options tunes the built-in components
type Options struct {
	ShadowDistance float64 `json:"shadow_distance"` // max height at which a shadow is drawn
	FadeCutoff     float64 `json:"fade_cutoff"`     // zoom below which a faded mesh hides
}

// DefaultOptions returns the stock tuning
func DefaultOptions() Options {
	return Options{ShadowDistance: 10, FadeCutoff: 2.999}
}

// Builtins holds the handles of the installed component types
type Builtins struct {
	ents *core.Entities
	deps Deps
	opts Options
	log  *slog.Logger

	Position        core.ComponentType[PositionState]
	Physics         core.ComponentType[PhysicsState]
	FollowsEntity   core.ComponentType[FollowsState]
	Mesh            core.ComponentType[MeshState]
	Shadow          core.ComponentType[ShadowState]
	Player          core.ComponentType[PlayerState]
	CollideTerrain  core.ComponentType[CollideTerrainState]
	CollideEntities core.ComponentType[CollideEntitiesState]
	Every           core.ComponentType[EveryState]
	AutoStepping    core.ComponentType[AutoSteppingState]
	Movement        core.ComponentType[MovementState]
	ReceivesInputs  core.ComponentType[ReceivesInputsState]
	FadeOnZoom      core.ComponentType[FadeState]
}

// Install registers every built-in component type on ents. Processors run
// in this order except receives-inputs and movement, which run first.
func Install(ents *core.Entities, deps Deps, opts Options) (*Builtins, error) {
	if deps.Render == nil {
		return nil, eris.Wrap(core.ErrFatalMisuse, "built-in components need a render backend")
	}
	b := &Builtins{
		ents: ents,
		deps: deps,
		opts: opts,
		log:  ents.Logger().With("pkg", "components"),
	}
	for _, install := range []func() error{
		b.installPosition,
		b.installPhysics,
		b.installFollowsEntity,
		b.installMesh,
		b.installShadow,
		b.installPlayer,
		b.installCollideTerrain,
		b.installCollideEntities,
		b.installEvery,
		b.installAutoStepping,
		b.installMovement,
		b.installReceivesInputs,
		b.installFadeOnZoom,
	} {
		if err := install(); err != nil {
			return nil, err
		}
	}
	b.log.Debug("built-in components installed", "count", ents.Components().Len())
	return b, nil
}

// Entities returns the simulation the components are installed on
func (b *Builtins) Entities() *core.Entities { return b.ents }

func (b *Builtins) alpha() float64 {
	if b.deps.Alpha == nil {
		return 1
	}
	return b.deps.Alpha.Alpha()
}

func lerp(a, c mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(c.Sub(a).Mul(t))
}
