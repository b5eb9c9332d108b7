package scene

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// cornellSize is the edge length of the standard 555 unit box
const cornellSize = 555.0

func cornellCamera() renderer.CameraConfig {
	cfg := renderer.DefaultCameraConfig()
	cfg.AspectRatio = 1
	cfg.Width = 600
	cfg.SamplesPerPixel = 200
	cfg.MaxDepth = 50
	cfg.VerticalFOV = 40
	cfg.LookFrom = core.NewVec3(278, 278, -800)
	cfg.LookAt = core.NewVec3(278, 278, 0)
	cfg.DefocusAngle = 0
	return cfg
}

// NewCornellScene creates a classic Cornell box scene with quad walls, an
// area light in the ceiling and two rotated boxes placed through instances
func NewCornellScene(opts Options) (*Scene, error) {
	s := newScene("cornell", cornellCamera())
	lib := s.Materials
	arena := s.Geometry

	// Only the light illuminates the box
	s.Background = lib.NewSolidColor(core.Vec3{})

	white := lib.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := lib.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := lib.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	light := lib.NewDiffuseLight(core.NewVec3(15, 15, 15))

	size := cornellSize
	members := []geometry.Ref{
		// Left and right walls
		arena.AddQuad(core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0), core.NewVec3(0, 0, size), green),
		arena.AddQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, size, 0), core.NewVec3(0, 0, size), red),
		// Floor, ceiling and back wall
		arena.AddQuad(core.NewVec3(0, 0, 0), core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size), white),
		arena.AddQuad(core.NewVec3(size, size, size), core.NewVec3(-size, 0, 0), core.NewVec3(0, 0, -size), white),
		arena.AddQuad(core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0), white),
		// Ceiling light, just below the ceiling
		arena.AddQuad(core.NewVec3(343, size-1, 332), core.NewVec3(-130, 0, 0), core.NewVec3(0, 0, -105), light),
	}

	tall, err := placedBox(arena, core.NewVec3(165, 330, 165), 15, core.NewVec3(265, 0, 295), white)
	if err != nil {
		return nil, err
	}
	short, err := placedBox(arena, core.NewVec3(165, 165, 165), -18, core.NewVec3(130, 0, 65), white)
	if err != nil {
		return nil, err
	}
	members = append(members, tall, short)

	if err := s.finish(members, opts); err != nil {
		return nil, err
	}
	return s, nil
}

// placedBox builds a box with one corner at the origin, spins it about Y
// and then moves it into place. Two nested instances keep the rotation
// about the box's own corner.
func placedBox(arena *geometry.Arena, extent core.Vec3, yaw float64, offset core.Vec3, mat material.ID) (geometry.Ref, error) {
	box := arena.AddBox(core.Vec3{}, extent, mat)

	rotated, err := arena.AddInstance(box, geometry.Rotate(core.NewVec3(0, yaw, 0)))
	if err != nil {
		return geometry.Ref{}, fmt.Errorf("cornell box rotation: %w", err)
	}
	placed, err := arena.AddInstance(rotated, geometry.Translate(offset))
	if err != nil {
		return geometry.Ref{}, fmt.Errorf("cornell box placement: %w", err)
	}
	return placed, nil
}
