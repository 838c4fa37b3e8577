package maplib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"

	"github.com/1siamBot/voxel-engine/engine/physics"
	"github.com/1siamBot/voxel-engine/engine/registry"
)

func TestFillAndAt(t *testing.T) {
	reg := registry.New("")
	dirt, _ := reg.BlockID("dirt")
	m := NewVoxelMap("test", 4, 3, 4, reg)
	m.Fill(0, 0, 0, 3, 0, 3, dirt)
	m.Fill(-5, 2, -5, 1, 9, 1, dirt) // clipped to the volume

	if m.At(2, 0, 3) != dirt || m.At(0, 2, 0) != dirt {
		t.Error("filled cells missing")
	}
	if m.At(2, 2, 2) != registry.Air || m.At(9, 0, 0) != registry.Air {
		t.Error("unexpected block outside the fill")
	}
	if len(m.Palette) != 2 {
		t.Errorf("expected palette [air dirt], got %v", m.Palette)
	}
}

func TestTerrain(t *testing.T) {
	reg := registry.New("")
	dirt, _ := reg.BlockID("dirt")
	water, _ := reg.RegisterBlock("water", registry.SameFaces("water"), registry.BlockOptions{NonSolid: true, Fluid: true})
	m := NewVoxelMap("test", 2, 2, 2, reg)
	m.Set(0, 0, 0, dirt)
	m.Set(1, 0, 0, water)

	ter := m.Terrain(physics.Ground{Level: 0})
	if !ter.Solid(0, 0, 0) {
		t.Error("dirt should be solid")
	}
	if ter.Solid(1, 0, 0) || ter.Solid(1, 1, 1) {
		t.Error("water and air should not be solid")
	}
	if !ter.Solid(5, -1, 5) || ter.Solid(5, 0, 5) {
		t.Error("outside cells should use the floor")
	}
	if m.Terrain(nil).Solid(5, -1, 5) {
		t.Error("nil floor should be empty")
	}
}

func TestBodyLandsOnMap(t *testing.T) {
	reg := registry.New("")
	dirt, _ := reg.BlockID("dirt")
	m := NewVoxelMap("test", 4, 4, 4, reg)
	m.Fill(0, 0, 0, 3, 1, 3, dirt)

	w := physics.NewWorld(m.Terrain(nil))
	b := w.CreateBody(physics.FromFeet(mgl64.Vec3{1.5, 3, 1.5}, 0.8, 1.6))
	for range 60 {
		w.Step(1.0 / 30)
	}
	if b.Resting[1] != -1 {
		t.Fatalf("expected to rest on the map, resting=%v", b.Resting)
	}
	if got := b.AABB.Base.Y(); got < 1.999 || got > 2.001 {
		t.Errorf("expected feet at y=2, got %v", got)
	}
}

func TestSaveLoad(t *testing.T) {
	reg := registry.New("")
	dirt, _ := reg.BlockID("dirt")
	m := NewVoxelMap("saved", 3, 2, 3, reg)
	m.Fill(0, 0, 0, 2, 0, 2, dirt)
	m.Spawn = [3]int{1, 1, 1}

	path := filepath.Join(t.TempDir(), "map.json")
	if err := m.SaveJSON(path); err != nil {
		t.Fatal(err)
	}

	// a registry with different id order still resolves by name
	other := registry.New("")
	_, _ = other.RegisterBlock("stone", registry.SameFaces("stone"), registry.BlockOptions{})
	loaded, err := LoadJSON(path, other)
	if err != nil {
		t.Fatal(err)
	}
	otherDirt, _ := other.BlockID("dirt")
	if loaded.At(1, 0, 1) != otherDirt || loaded.At(1, 1, 1) != registry.Air {
		t.Error("blocks not restored")
	}
	if loaded.Spawn != m.Spawn || loaded.Name != "saved" {
		t.Errorf("metadata lost: %+v", loaded)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	reg := registry.New("")

	if _, err := LoadJSON(write("short.json", `{"width":2,"height":1,"depth":1,"palette":["air"],"blocks":[0]}`), reg); !eris.Is(err, ErrBadMap) {
		t.Errorf("expected ErrBadMap, got %v", err)
	}
	if _, err := LoadJSON(write("unknown.json", `{"width":1,"height":1,"depth":1,"palette":["lava"],"blocks":[0]}`), reg); !eris.Is(err, registry.ErrUnknownBlock) {
		t.Errorf("expected ErrUnknownBlock, got %v", err)
	}
	if _, err := LoadJSON(write("index.json", `{"width":1,"height":1,"depth":1,"palette":["air"],"blocks":[3]}`), reg); !eris.Is(err, ErrBadMap) {
		t.Errorf("expected ErrBadMap, got %v", err)
	}
	if _, err := LoadJSON(write("garbage.json", `{`), reg); err == nil {
		t.Error("expected a parse error")
	}
}
