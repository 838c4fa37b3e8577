// Package sandbox assembles a playable world from the engine packages: a
// block registry, a voxel map, physics, a scene and the built-in
// components. The ebiten and terminal drivers share it.
package sandbox

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"

	"github.com/1siamBot/voxel-engine/engine/audio"
	"github.com/1siamBot/voxel-engine/engine/components"
	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/maplib"
	"github.com/1siamBot/voxel-engine/engine/pathfind"
	"github.com/1siamBot/voxel-engine/engine/physics"
	"github.com/1siamBot/voxel-engine/engine/registry"
	"github.com/1siamBot/voxel-engine/engine/render"
)

const (
	MapSize   = 32
	MapHeight = 8
)

// Options selects the files a sandbox is built from. Empty paths use the
// built-in catalog and the generated demo map.
type Options struct {
	Config     core.Config
	Components components.Options
	Catalog    string
	Map        string
	Logger     *slog.Logger
	Audio      *audio.Manager // nil plays nothing
}

// DefaultOptions returns stock settings with no files
func DefaultOptions() Options {
	return Options{Config: core.DefaultConfig(), Components: components.DefaultOptions()}
}

// Sandbox is a running world
type Sandbox struct {
	Entities *core.Entities
	Loop     *core.GameLoop
	Builtins *components.Builtins
	Registry *registry.Registry
	Map      *maplib.VoxelMap
	Physics  *physics.World
	Scene    *render.Scene
	Player   core.EntityID
	// Input is the player's movement intent, written by the driver
	Input *components.HeldInput

	Audio    *audio.Manager
	Seek     core.ComponentType[SeekState]
	Pet      core.EntityID

	// Collisions counts player contacts with crates
	Collisions int
	Steps      int
	log        *slog.Logger
	nav        *pathfind.NavGrid
}

// New builds the world and spawns the demo entities. The loop is left
// stopped.
func New(opts Options, cam *render.Camera) (*Sandbox, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	reg, err := loadRegistry(opts.Catalog)
	if err != nil {
		return nil, err
	}
	var vm *maplib.VoxelMap
	if opts.Map != "" {
		if vm, err = maplib.LoadJSON(opts.Map, reg); err != nil {
			return nil, err
		}
	} else {
		vm = GenerateMap(reg)
	}

	terrain := vm.Terrain(physics.Ground{Level: 0})
	ents := core.New(opts.Config, opts.Logger)
	s := &Sandbox{
		Entities: ents,
		Loop:     core.NewGameLoop(ents, opts.Config),
		Registry: reg,
		Map:      vm,
		Physics:  physics.NewWorld(terrain),
		Scene:    render.NewScene(cam),
		Audio:    opts.Audio,
		Input:    &components.HeldInput{},
		log:      ents.Logger().With("pkg", "sandbox"),
	}
	s.Builtins, err = components.Install(ents, components.Deps{
		Render:  s.Scene,
		Physics: s.Physics,
		Alpha:   s.Loop,
		Terrain: terrain,
		Input:   s.Input,
	}, opts.Components)
	if err != nil {
		return nil, err
	}
	s.nav = pathfind.NewNavGrid(terrain, vm.Width, vm.Height, vm.Depth)
	if err := s.registerSeek(); err != nil {
		return nil, err
	}
	if err := s.addBlocks(); err != nil {
		return nil, err
	}
	if err := s.spawnDemo(); err != nil {
		return nil, err
	}
	ents.Events().On(core.EvtComponentAttached, s.onAttached)
	if cam != nil {
		if pos, err := s.Builtins.PositionData(s.Player); err == nil {
			cam.CenterOn(pos.Position)
		}
	}
	return s, nil
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return DefaultCatalog().Build()
	}
	c, err := registry.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return c.Build()
}

// DefaultCatalog is the block set used without a catalog file
func DefaultCatalog() *registry.Catalog {
	return &registry.Catalog{
		Name: "default",
		Materials: []registry.MaterialDef{
			{Name: "grass", Color: []float64{0.3, 0.6, 0.2}},
			{Name: "stone", Color: []float64{0.5, 0.5, 0.55}},
			{Name: "water", Color: []float64{0.2, 0.3, 0.8, 0.6}},
		},
		Blocks: []registry.BlockDef{
			{Name: "grass", Faces: []string{"grass", "dirt", "dirt"}},
			{Name: "stone", Faces: []string{"stone"}},
			{Name: "water", Faces: []string{"water"}, NonSolid: true, Transparent: true, Fluid: true},
		},
	}
}

// GenerateMap builds the demo level: a grass floor with a stair, a wall
// and a pond. Blocks missing from reg are left as air.
func GenerateMap(reg *registry.Registry) *maplib.VoxelMap {
	vm := maplib.NewVoxelMap("demo", MapSize, MapHeight, MapSize, reg)
	vm.Description = "generated"
	if grass, ok := reg.BlockID("grass"); ok {
		vm.Fill(0, 0, 0, MapSize-1, 0, MapSize-1, grass)
	}
	if stone, ok := reg.BlockID("stone"); ok {
		// stair of one-block steps
		for i := 0; i < 4; i++ {
			vm.Fill(20+i, 1, 10, 20+i, 1+i, 13, stone)
		}
		vm.Fill(8, 1, 20, 14, 2, 20, stone)
	}
	if water, ok := reg.BlockID("water"); ok {
		vm.Fill(4, 0, 4, 7, 0, 7, water)
	}
	vm.Spawn = [3]int{MapSize / 2, 1, MapSize / 2}
	return vm
}

// addBlocks draws every block above the floor as a static scene object
func (s *Sandbox) addBlocks() error {
	for y := 1; y < s.Map.Height; y++ {
		for z := 0; z < s.Map.Depth; z++ {
			for x := 0; x < s.Map.Width; x++ {
				id := s.Map.At(x, y, z)
				if id == registry.Air {
					continue
				}
				top := s.Registry.FaceMaterial(id, registry.FacePosY)
				o := render.NewObject(s.Registry.BlockName(id), mgl64.Vec3{1, 1, 1}, rgba(s.Registry.VertexColor(top)), "#")
				o.Position = mgl64.Vec3{float64(x) + 0.5, float64(y), float64(z) + 0.5}
				if err := s.Scene.AddVisualObject(o); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func rgba(c [3]float64) color.RGBA {
	ch := func(v float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return color.RGBA{ch(c[0]), ch(c[1]), ch(c[2]), 255}
}

func (s *Sandbox) spawnDemo() error {
	b := s.Builtins
	spawn := mgl64.Vec3{float64(s.Map.Spawn[0]) + 0.5, float64(s.Map.Spawn[1]), float64(s.Map.Spawn[2]) + 0.5}

	var err error
	s.Player, err = b.Add(components.Spawn{
		Position: spawn,
		Width:    0.6,
		Height:   1.8,
		Mesh:     render.NewObject("player", mgl64.Vec3{0.6, 1.8, 0.6}, color.RGBA{60, 120, 255, 255}, "@"),
		Physics:  true,
		AutoStep: true,
		Movement: true,
		Shadow:   true,
	})
	if err != nil {
		return eris.Wrap(err, "spawn player")
	}
	if err := b.Player.Attach(s.Player, nil); err != nil {
		return err
	}
	if err := b.ReceivesInputs.Attach(s.Player, nil); err != nil {
		return err
	}
	err = b.CollideEntities.AttachWith(s.Player, func(c *components.CollideEntitiesState) {
		c.Callback = func(_, other core.EntityID) {
			s.Collisions++
			s.log.Debug("player bumped", "other", other)
			s.play(audio.SndBump, s.Player)
		}
	})
	if err != nil {
		return err
	}
	if err := b.CollideTerrain.Attach(s.Player, nil); err != nil {
		return err
	}

	// a marker floating over the player that hides when zoomed in close
	marker, err := b.Add(components.Spawn{
		Position: spawn,
		Width:    0.2,
		Height:   0.2,
		Mesh:     render.NewObject("marker", mgl64.Vec3{0.2, 0.2, 0.2}, color.RGBA{255, 220, 0, 255}, "v"),
	})
	if err != nil {
		return eris.Wrap(err, "spawn marker")
	}
	if err := b.FollowsEntity.AttachWith(marker, func(f *components.FollowsState) {
		f.Entity = s.Player
		f.Offset = mgl64.Vec3{0, 2.3, 0}
	}); err != nil {
		return err
	}
	if err := b.FadeOnZoom.Attach(marker, nil); err != nil {
		return err
	}

	for i, p := range []mgl64.Vec3{{12.5, 4, 12.5}, {18.5, 6, 16.5}, {10.5, 3, 24.5}} {
		crate, err := b.Add(components.Spawn{
			Position: p,
			Width:    0.9,
			Height:   0.9,
			Mesh:     render.NewObject("crate", mgl64.Vec3{0.9, 0.9, 0.9}, color.RGBA{160, 110, 60, 255}, "="),
			Physics:  true,
			Shadow:   true,
		})
		if err != nil {
			return eris.Wrapf(err, "spawn crate %d", i)
		}
		if err := b.CollideEntities.Attach(crate, nil); err != nil {
			return err
		}
	}

	// a pet that walks after the player
	s.Pet, err = b.Add(components.Spawn{
		Position: spawn.Add(mgl64.Vec3{-6, 0, 0}),
		Width:    0.5,
		Height:   0.7,
		Mesh:     render.NewObject("pet", mgl64.Vec3{0.5, 0.7, 0.5}, color.RGBA{230, 230, 230, 255}, "d"),
		Physics:  true,
		AutoStep: true,
		Shadow:   true,
	})
	if err != nil {
		return eris.Wrap(err, "spawn pet")
	}
	if err := s.Seek.AttachWith(s.Pet, func(st *SeekState) { st.Target = s.Player }); err != nil {
		return err
	}

	// a beacon that blinks once per second
	beacon, err := b.Add(components.Spawn{
		Position: mgl64.Vec3{24.5, 5, 11.5},
		Width:    0.5,
		Height:   0.5,
		Mesh:     render.NewObject("beacon", mgl64.Vec3{0.5, 0.5, 0.5}, color.RGBA{255, 60, 60, 255}, "*"),
	})
	if err != nil {
		return eris.Wrap(err, "spawn beacon")
	}
	return b.Every.AttachWith(beacon, func(e *components.EveryState) {
		e.Every = 1
		e.Callback = func(id core.EntityID) {
			if m, err := b.MeshData(id); err == nil {
				m.Mesh.Visible = !m.Mesh.Visible
			}
		}
	})
}

// onAttached plays a step sound whenever a body climbs a ledge
func (s *Sandbox) onAttached(ev core.Event) {
	if ev.Component != s.Builtins.AutoStepping.Name() {
		return
	}
	s.Steps++
	s.play(audio.SndStep, ev.Entity)
}

func (s *Sandbox) play(id audio.SoundID, at core.EntityID) {
	if s.Audio == nil {
		return
	}
	pos, err := s.Builtins.PositionData(at)
	if err != nil {
		return
	}
	if err := s.Audio.PlaySFX(id, pos.Position); err != nil {
		s.log.Warn("sound failed", "sound", id, "err", err)
	}
}

// PlayerBody returns the player's physics body
func (s *Sandbox) PlayerBody() *physics.Body {
	body, err := s.Builtins.PhysicsBody(s.Player)
	if err != nil {
		return nil
	}
	return body
}

// Follow centers cam on the player's interpolated position
func (s *Sandbox) Follow(cam *render.Camera) {
	if cam == nil {
		return
	}
	if pos, err := s.Builtins.PositionData(s.Player); err == nil {
		cam.CenterOn(pos.RenderPosition)
		if s.Audio != nil {
			s.Audio.SetListener(pos.RenderPosition)
		}
	}
}

// Status is the one-line HUD summary
func (s *Sandbox) Status() string {
	state := "stopped"
	switch s.Loop.State {
	case core.StatePlaying:
		state = "playing"
	case core.StatePaused:
		state = "paused"
	}
	return fmt.Sprintf("%s | tick %d | entities %d | zoom %.1f | bumps %d",
		state, s.Loop.CurrentTick(), s.Entities.EntityCount(), s.Scene.CameraZoom(), s.Collisions)
}
