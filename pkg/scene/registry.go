package scene

import (
	"fmt"
	"sort"
)

// Info describes a built-in scene
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type entry struct {
	info  Info
	build func(Options) (*Scene, error)
}

var registry = map[string]entry{
	"default": {
		Info{"default", "Default Scene", "Gold, diffuse and hollow glass spheres on a ground sphere"},
		NewDefaultScene,
	},
	"cornell": {
		Info{"cornell", "Cornell Box", "Cornell box with an area light and two rotated boxes"},
		NewCornellScene,
	},
	"texture": {
		Info{"texture", "Textures", "Checker, image and textured light with an image sky"},
		NewTextureScene,
	},
	"spheregrid": {
		Info{"spheregrid", "Sphere Grid", "Grid of metallic spheres colored across hue and chroma"},
		NewSphereGridScene,
	},
	"mesh": {
		Info{"mesh", "Triangle Meshes", "Box, pyramid and smooth icosahedron meshes, or an OBJ file"},
		NewMeshScene,
	},
}

// List returns every built-in scene sorted by ID
func List() []Info {
	infos := make([]Info, 0, len(registry))
	for _, e := range registry {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Create builds the scene registered under id
func Create(id string, opts Options) (*Scene, error) {
	e, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}
	logger.Infof("building scene %s", id)
	return e.build(opts)
}
