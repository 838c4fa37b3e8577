// Package registry keeps the static asset tables: block types, materials
// and mesh templates.
package registry

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/1siamBot/voxel-engine/engine/render"
)

var (
	ErrUnknownBlock    = eris.New("unknown block")
	ErrUnknownMaterial = eris.New("unknown material")
	ErrUnknownMesh     = eris.New("unknown mesh")
	ErrInvalidFaces    = eris.New("block faces must name 1, 3 or 6 materials")
	ErrTooManyBlocks   = eris.New("block id space exhausted")
)

type (
	BlockID    uint16
	MaterialID int
	MeshID     int
)

// Air is the empty block
const Air BlockID = 0

// NoMaterial is the face material of air and object blocks
const NoMaterial MaterialID = -1

// NoMesh marks terrain blocks
const NoMesh MeshID = -1

// Face indexes the six block faces
type Face uint8

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Faces names the material of each face, indexed by Face
type Faces [6]string

// SameFaces uses one material on every face
func SameFaces(name string) Faces {
	return Faces{name, name, name, name, name, name}
}

// TopBottomSides uses distinct top and bottom materials and one for the sides
func TopBottomSides(top, bottom, sides string) Faces {
	return Faces{sides, sides, top, bottom, sides, sides}
}

// FacesFromList accepts one material, [top, bottom, sides], or all six
// faces in Face order.
func FacesFromList(names []string) (Faces, error) {
	switch len(names) {
	case 1:
		return SameFaces(names[0]), nil
	case 3:
		return TopBottomSides(names[0], names[1], names[2]), nil
	case 6:
		var f Faces
		copy(f[:], names)
		return f, nil
	}
	return Faces{}, eris.Wrapf(ErrInvalidFaces, "got %d", len(names))
}

// Props are free-form block or mesh properties
type Props map[string]any

// BlockOptions are the optional block flags. The zero value is a solid,
// opaque, non-fluid block.
type BlockOptions struct {
	Props       Props
	NonSolid    bool
	Transparent bool
	Fluid       bool // only honoured for non-solid blocks
}

// Material is the surface data of a block face
type Material struct {
	Name         string
	Color        [3]float64
	Alpha        float64
	Texture      string
	TextureAlpha bool
}

// MeshTemplate is a registered mesh instanced by object blocks
type MeshTemplate struct {
	Object *render.Object
	Props  Props
}

// Registry stores block, material and mesh tables. Per-block flags live in
// parallel slices indexed by BlockID.
type Registry struct {
	texturePath string

	blockIDs   map[string]BlockID
	blockNames []string
	blockMats  []MaterialID // six per block
	blockProps []Props
	solid      []bool
	opaque     []bool
	fluid      []bool
	customMesh []MeshID

	matIDs map[string]MaterialID
	mats   []Material

	meshIDs map[string]MeshID
	meshes  []*MeshTemplate
}

// New creates a registry with air as block 0 and a default dirt block
func New(texturePath string) *Registry {
	r := &Registry{
		texturePath: texturePath,
		blockIDs:    map[string]BlockID{"air": Air},
		blockNames:  []string{"air"},
		blockMats:   []MaterialID{NoMaterial, NoMaterial, NoMaterial, NoMaterial, NoMaterial, NoMaterial},
		blockProps:  []Props{nil},
		solid:       []bool{false},
		opaque:      []bool{false},
		fluid:       []bool{false},
		customMesh:  []MeshID{NoMesh},
		matIDs:      make(map[string]MaterialID),
		meshIDs:     make(map[string]MeshID),
	}
	// cannot fail: one face list, fresh id space
	_, _ = r.RegisterBlock("dirt", SameFaces("dirt"), BlockOptions{})
	r.RegisterMaterial("dirt", []float64{0.4, 0.3, 0}, "", false)
	return r
}

// RegisterBlock adds or overwrites a terrain block type
func (r *Registry) RegisterBlock(name string, faces Faces, opts BlockOptions) (BlockID, error) {
	for i, m := range faces {
		if m == "" {
			return 0, eris.Wrapf(ErrInvalidFaces, "block %q face %d has no material", name, i)
		}
	}
	id, err := r.blockSlot(name, opts)
	if err != nil {
		return 0, err
	}
	for i, m := range faces {
		r.blockMats[int(id)*6+i] = r.MaterialID(m, true)
	}
	return id, nil
}

// RegisterObjectBlock adds a block drawn with a custom mesh instead of faces
func (r *Registry) RegisterObjectBlock(name, meshName string, opts BlockOptions) (BlockID, error) {
	id, err := r.blockSlot(name, opts)
	if err != nil {
		return 0, err
	}
	for i := 0; i < 6; i++ {
		r.blockMats[int(id)*6+i] = NoMaterial
	}
	mid, _ := r.MeshID(meshName, true)
	r.customMesh[id] = mid
	return id, nil
}

func (r *Registry) blockSlot(name string, opts BlockOptions) (BlockID, error) {
	id, ok := r.blockIDs[name]
	if !ok {
		if len(r.blockNames) > math.MaxUint16 {
			return 0, eris.Wrapf(ErrTooManyBlocks, "block %q", name)
		}
		id = BlockID(len(r.blockNames))
		r.blockIDs[name] = id
		r.blockNames = append(r.blockNames, name)
		r.blockMats = append(r.blockMats, make([]MaterialID, 6)...)
		r.blockProps = append(r.blockProps, nil)
		r.solid = append(r.solid, false)
		r.opaque = append(r.opaque, false)
		r.fluid = append(r.fluid, false)
		r.customMesh = append(r.customMesh, NoMesh)
	}

	props := opts.Props
	r.solid[id] = !opts.NonSolid
	r.opaque[id] = !opts.Transparent
	r.fluid[id] = opts.NonSolid && opts.Fluid
	if r.fluid[id] {
		if props == nil {
			props = Props{}
		}
		if _, ok := props["fluidDensity"]; !ok {
			props["fluidDensity"] = 1.0
		}
		if _, ok := props["viscosity"]; !ok {
			props["viscosity"] = 0.5
		}
	}
	r.blockProps[id] = props
	r.customMesh[id] = NoMesh
	return id, nil
}

// RegisterMaterial adds or overwrites a material. A 4-component color
// carries alpha in its last element; a nil color is white.
func (r *Registry) RegisterMaterial(name string, color []float64, texture string, textureAlpha bool) MaterialID {
	id, ok := r.matIDs[name]
	if !ok {
		id = MaterialID(len(r.mats))
		r.matIDs[name] = id
		r.mats = append(r.mats, Material{})
	}
	m := Material{Name: name, Color: [3]float64{1, 1, 1}, Alpha: 1, TextureAlpha: textureAlpha}
	if len(color) >= 3 {
		copy(m.Color[:], color[:3])
	}
	if len(color) == 4 {
		m.Alpha = color[3]
	}
	if texture != "" {
		m.Texture = r.texturePath + texture
	}
	r.mats[id] = m
	return id
}

// RegisterMesh adds a mesh template. The template object is hidden so it
// never shows up in a scene by itself.
func (r *Registry) RegisterMesh(name string, obj *render.Object, props Props) MeshID {
	id, ok := r.meshIDs[name]
	if !ok {
		id = MeshID(len(r.meshes))
		r.meshIDs[name] = id
		r.meshes = append(r.meshes, nil)
	}
	if obj != nil {
		obj.Visible = false
		r.meshes[id] = &MeshTemplate{Object: obj, Props: props}
	}
	return id
}

// MeshID looks up a mesh; with lazy set an unknown name is reserved
func (r *Registry) MeshID(name string, lazy bool) (MeshID, bool) {
	id, ok := r.meshIDs[name]
	if !ok && lazy {
		return r.RegisterMesh(name, nil, nil), true
	}
	return id, ok
}

// Mesh returns the template registered under name
func (r *Registry) Mesh(name string) (*MeshTemplate, error) {
	id, ok := r.meshIDs[name]
	if !ok || r.meshes[id] == nil {
		return nil, eris.Wrapf(ErrUnknownMesh, "mesh %q", name)
	}
	return r.meshes[id], nil
}

// BlockMesh returns the mesh template of an object block
func (r *Registry) BlockMesh(id BlockID) (*MeshTemplate, error) {
	if !r.validBlock(id) {
		return nil, eris.Wrapf(ErrUnknownBlock, "block %d", id)
	}
	mid := r.customMesh[id]
	if mid == NoMesh || r.meshes[mid] == nil {
		return nil, eris.Wrapf(ErrUnknownMesh, "block %q has no mesh", r.blockNames[id])
	}
	return r.meshes[mid], nil
}

func (r *Registry) validBlock(id BlockID) bool { return int(id) < len(r.blockNames) }

// BlockID looks up a block by name
func (r *Registry) BlockID(name string) (BlockID, bool) {
	id, ok := r.blockIDs[name]
	return id, ok
}

// BlockName returns the registered name of id
func (r *Registry) BlockName(id BlockID) string {
	if !r.validBlock(id) {
		return ""
	}
	return r.blockNames[id]
}

// Blocks returns the number of block types, air included
func (r *Registry) Blocks() int { return len(r.blockNames) }

// Solid reports block solidity for physics
func (r *Registry) Solid(id BlockID) bool { return r.validBlock(id) && r.solid[id] }

// Opaque reports whether the block hides its neighbours' faces
func (r *Registry) Opaque(id BlockID) bool { return r.validBlock(id) && r.opaque[id] }

// Fluid reports whether the block is a fluid
func (r *Registry) Fluid(id BlockID) bool { return r.validBlock(id) && r.fluid[id] }

// BlockProps returns the properties given at registration
func (r *Registry) BlockProps(id BlockID) Props {
	if !r.validBlock(id) {
		return nil
	}
	return r.blockProps[id]
}

// FaceMaterial returns the material of one face of a block
func (r *Registry) FaceMaterial(id BlockID, f Face) MaterialID {
	if !r.validBlock(id) || f > FaceNegZ {
		return NoMaterial
	}
	return r.blockMats[int(id)*6+int(f)]
}

// MaterialID looks up a material; with lazy set an unknown name is
// registered as plain white.
func (r *Registry) MaterialID(name string, lazy bool) MaterialID {
	id, ok := r.matIDs[name]
	if !ok {
		if !lazy {
			return NoMaterial
		}
		return r.RegisterMaterial(name, nil, "", false)
	}
	return id
}

// Material returns a material's data
func (r *Registry) Material(id MaterialID) (Material, error) {
	if id < 0 || int(id) >= len(r.mats) {
		return Material{}, eris.Wrapf(ErrUnknownMaterial, "material %d", id)
	}
	return r.mats[id], nil
}

// MaterialColor returns the base color of a material
func (r *Registry) MaterialColor(id MaterialID) [3]float64 {
	m, _ := r.Material(id)
	return m.Color
}

// VertexColor is the color used for block vertices: white when textured
func (r *Registry) VertexColor(id MaterialID) [3]float64 {
	m, err := r.Material(id)
	if err != nil || m.Texture != "" {
		return [3]float64{1, 1, 1}
	}
	return m.Color
}

// MaterialTexture returns the texture URL of a material, or ""
func (r *Registry) MaterialTexture(id MaterialID) string {
	m, _ := r.Material(id)
	return m.Texture
}
