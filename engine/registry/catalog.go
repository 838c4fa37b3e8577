package registry

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// MaterialDef is a material entry of a catalog file
type MaterialDef struct {
	Name         string    `json:"name"`
	Color        []float64 `json:"color,omitempty"` // rgb or rgba
	Texture      string    `json:"texture,omitempty"`
	TextureAlpha bool      `json:"texture_alpha,omitempty"`
}

// BlockDef is a block entry of a catalog file. Blocks with a Mesh are
// object blocks and ignore Faces.
type BlockDef struct {
	Name        string   `json:"name"`
	Faces       []string `json:"faces,omitempty"`
	Mesh        string   `json:"mesh,omitempty"`
	NonSolid    bool     `json:"non_solid,omitempty"`
	Transparent bool     `json:"transparent,omitempty"`
	Fluid       bool     `json:"fluid,omitempty"`
	Props       Props    `json:"props,omitempty"`
}

// Catalog is the on-disk description of a registry
type Catalog struct {
	Name        string        `json:"name"`
	TexturePath string        `json:"texture_path"`
	Materials   []MaterialDef `json:"materials"`
	Blocks      []BlockDef    `json:"blocks"`
}

// SaveJSON writes the catalog to a JSON file
func (c *Catalog) SaveJSON(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal catalog")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0644), "write catalog %s", path)
}

// LoadCatalog reads a catalog from a JSON file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read catalog %s", path)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrapf(err, "parse catalog %s", path)
	}
	return &c, nil
}

// Build creates a registry holding the catalog's materials and blocks.
// Materials are registered first so block faces resolve to them.
func (c *Catalog) Build() (*Registry, error) {
	r := New(c.TexturePath)
	for _, m := range c.Materials {
		if m.Name == "" {
			return nil, eris.Wrap(ErrUnknownMaterial, "catalog material without a name")
		}
		r.RegisterMaterial(m.Name, m.Color, m.Texture, m.TextureAlpha)
	}
	for _, b := range c.Blocks {
		opts := BlockOptions{Props: b.Props, NonSolid: b.NonSolid, Transparent: b.Transparent, Fluid: b.Fluid}
		if b.Mesh != "" {
			if _, err := r.RegisterObjectBlock(b.Name, b.Mesh, opts); err != nil {
				return nil, err
			}
			continue
		}
		faces, err := FacesFromList(b.Faces)
		if err != nil {
			return nil, eris.Wrapf(err, "block %q", b.Name)
		}
		if _, err := r.RegisterBlock(b.Name, faces, opts); err != nil {
			return nil, err
		}
	}
	return r, nil
}
