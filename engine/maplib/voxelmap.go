// Package maplib stores block volumes and loads them from disk.
package maplib

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/1siamBot/voxel-engine/engine/physics"
	"github.com/1siamBot/voxel-engine/engine/registry"
)

var ErrBadMap = eris.New("malformed voxel map")

// VoxelMap is a bounded block volume. Blocks index Palette, so a saved map
// does not depend on registry id order.
type VoxelMap struct {
	Name        string   `json:"name"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Depth       int      `json:"depth"`
	Palette     []string `json:"palette"`
	Blocks      []uint16 `json:"blocks"`
	Spawn       [3]int   `json:"spawn"`

	reg *registry.Registry
}

// NewVoxelMap creates an empty (all air) map bound to reg
func NewVoxelMap(name string, width, height, depth int, reg *registry.Registry) *VoxelMap {
	return &VoxelMap{
		Name:    name,
		Width:   width,
		Height:  height,
		Depth:   depth,
		Palette: []string{reg.BlockName(registry.Air)},
		Blocks:  make([]uint16, width*height*depth),
		reg:     reg,
	}
}

func (m *VoxelMap) index(x, y, z int) int {
	if !m.InBounds(x, y, z) {
		return -1
	}
	return (y*m.Depth+z)*m.Width + x
}

// InBounds checks if coordinates are within the map volume
func (m *VoxelMap) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < m.Width && y < m.Height && z < m.Depth
}

// At returns the registry block at (x, y, z); air outside the map
func (m *VoxelMap) At(x, y, z int) registry.BlockID {
	i := m.index(x, y, z)
	if i < 0 {
		return registry.Air
	}
	id, _ := m.reg.BlockID(m.Palette[m.Blocks[i]])
	return id
}

// Set places a block; out of range cells are ignored
func (m *VoxelMap) Set(x, y, z int, block registry.BlockID) {
	if i := m.index(x, y, z); i >= 0 {
		m.Blocks[i] = m.paletteIndex(block)
	}
}

// Fill sets every cell of the inclusive box (x1,y1,z1)-(x2,y2,z2)
func (m *VoxelMap) Fill(x1, y1, z1, x2, y2, z2 int, block registry.BlockID) {
	p := m.paletteIndex(block)
	for y := y1; y <= y2; y++ {
		for z := z1; z <= z2; z++ {
			for x := x1; x <= x2; x++ {
				if i := m.index(x, y, z); i >= 0 {
					m.Blocks[i] = p
				}
			}
		}
	}
}

func (m *VoxelMap) paletteIndex(block registry.BlockID) uint16 {
	name := m.reg.BlockName(block)
	for i, n := range m.Palette {
		if n == name {
			return uint16(i)
		}
	}
	m.Palette = append(m.Palette, name)
	return uint16(len(m.Palette) - 1)
}

// Terrain adapts the map to physics using the registry's solidity table.
// Cells outside the volume fall through to floor, which may be nil.
func (m *VoxelMap) Terrain(floor physics.Terrain) physics.Terrain {
	return &mapTerrain{m: m, floor: floor}
}

type mapTerrain struct {
	m     *VoxelMap
	floor physics.Terrain
}

func (t *mapTerrain) Solid(x, y, z int) bool {
	if t.m.InBounds(x, y, z) {
		return t.m.reg.Solid(t.m.At(x, y, z))
	}
	return t.floor != nil && t.floor.Solid(x, y, z)
}

// SaveJSON saves the map to a JSON file
func (m *VoxelMap) SaveJSON(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal map")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0644), "write map %s", path)
}

// LoadJSON loads a map from a JSON file and binds it to reg. Every palette
// name must be a registered block.
func LoadJSON(path string, reg *registry.Registry) (*VoxelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read map %s", path)
	}
	var m VoxelMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "parse map %s", path)
	}
	if len(m.Blocks) != m.Width*m.Height*m.Depth {
		return nil, eris.Wrapf(ErrBadMap, "%s: %d blocks for %dx%dx%d", path, len(m.Blocks), m.Width, m.Height, m.Depth)
	}
	if len(m.Palette) == 0 {
		return nil, eris.Wrapf(ErrBadMap, "%s: empty palette", path)
	}
	for _, name := range m.Palette {
		if _, ok := reg.BlockID(name); !ok {
			return nil, eris.Wrapf(registry.ErrUnknownBlock, "%s: block %q", path, name)
		}
	}
	for _, b := range m.Blocks {
		if int(b) >= len(m.Palette) {
			return nil, eris.Wrapf(ErrBadMap, "%s: palette index %d", path, b)
		}
	}
	m.reg = reg
	return &m, nil
}
