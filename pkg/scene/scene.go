package scene

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

var logger = log.New("scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name       string
	Geometry   *geometry.Arena
	Materials  *material.Library
	Root       geometry.Ref
	Background material.TextureID
	Camera     renderer.CameraConfig // Suggested view; callers may override any field
}

// Options tune how the demo scenes are assembled
type Options struct {
	Build       geometry.BuildOptions
	Flat        bool   // Use a plain list as root instead of a BVH
	MeshPath    string // OBJ file for the mesh scene; empty uses the built-in meshes
	TexturePath string // Image for the texture scene; empty uses a generated image
}

// DefaultOptions builds BVHs in parallel with the default seed
func DefaultOptions() Options {
	return Options{Build: geometry.DefaultBuildOptions()}
}

// newScene creates an empty scene with the default sky
func newScene(name string, camera renderer.CameraConfig) *Scene {
	lib := material.NewLibrary()
	return &Scene{
		Name:       name,
		Geometry:   geometry.NewArena(),
		Materials:  lib,
		Background: lib.NewSolidColor(renderer.DefaultSky),
		Camera:     camera,
	}
}

// World returns the renderable view of the scene
func (s *Scene) World() *renderer.World {
	return &renderer.World{
		Geometry:   s.Geometry,
		Materials:  s.Materials,
		Root:       s.Root,
		Background: s.Background,
	}
}

// finish sets the root over members, as a BVH unless opts.Flat is set
func (s *Scene) finish(members []geometry.Ref, opts Options) error {
	if opts.Flat {
		s.Root = s.Geometry.AddList(members...)
		return nil
	}

	root, err := s.Geometry.BuildBVH(members, opts.Build)
	if err != nil {
		return fmt.Errorf("scene %s: %w", s.Name, err)
	}
	s.Root = root

	stats := s.Geometry.Stats(root)
	logger.Debugf("%s: BVH with %d nodes over %d primitives, depth %d",
		s.Name, stats.Nodes, stats.Primitives, stats.MaxDepth)
	return nil
}

// NewGroundQuad creates a large horizontal quad centered at center with
// its normal pointing up (0,1,0)
func NewGroundQuad(arena *geometry.Arena, center core.Vec3, size float64, mat material.ID) geometry.Ref {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v points up
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return arena.AddQuad(corner, u, v, mat)
}
