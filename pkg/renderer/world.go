package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// World is everything a ray can interact with: the primitive arena, the
// material library, the root primitive and the background texture
type World struct {
	Geometry   *geometry.Arena
	Materials  *material.Library
	Root       geometry.Ref
	Background material.TextureID
}

// DefaultSky is the background color used when a world sets none
var DefaultSky = core.NewVec3(0.5, 0.7, 1.0)

// NewWorld creates a world over root with the default sky as background
func NewWorld(arena *geometry.Arena, materials *material.Library, root geometry.Ref) *World {
	return &World{
		Geometry:   arena,
		Materials:  materials,
		Root:       root,
		Background: materials.NewSolidColor(DefaultSky),
	}
}

// Validate checks that the world can be rendered
func (w *World) Validate() error {
	if w == nil || w.Geometry == nil || w.Materials == nil {
		return ErrNoWorld
	}
	if !w.Geometry.Valid(w.Root) {
		return fmt.Errorf("root %v: %w", w.Root, ErrNoWorld)
	}
	if err := w.Materials.Validate(); err != nil {
		return fmt.Errorf("materials: %w", err)
	}
	return nil
}

// BackgroundColor samples the background texture with an equirectangular
// lookup of the ray direction
func (w *World) BackgroundColor(ray core.Ray) core.Vec3 {
	return w.Materials.Value(w.Background, directionUV(ray.Direction), ray.Origin)
}

// directionUV maps a direction to (u, v) in [0,1]²: u is the azimuth
// around +Y starting at -X, v runs from -Y (0) to +Y (1)
func directionUV(direction core.Vec3) core.Vec2 {
	dir := direction.Normalize()
	theta := math.Acos(max(-1, min(1, -dir.Y)))
	phi := math.Atan2(-dir.Z, dir.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}
