package renderer

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// fixedSampler returns the same value for every draw
type fixedSampler struct {
	value float64
}

func (f fixedSampler) Get1D() float64 { return f.value }
func (f fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.value, f.value)
}
func (f fixedSampler) Get3D() core.Vec3 {
	return core.NewVec3(f.value, f.value, f.value)
}

// testCameraConfig looks down -Z at the origin from (0,0,1)
func testCameraConfig(width, spp, depth int) CameraConfig {
	cfg := DefaultCameraConfig()
	cfg.Width = width
	cfg.AspectRatio = 1
	cfg.SamplesPerPixel = spp
	cfg.MaxDepth = depth
	cfg.LookFrom = core.NewVec3(0, 0, 1)
	cfg.LookAt = core.NewVec3(0, 0, 0)
	cfg.FocusDistance = 1
	return cfg
}

// redSphereWorld is a single red Lambertian sphere of radius 0.5 at the origin
func redSphereWorld() *World {
	arena := geometry.NewArena()
	lib := material.NewLibrary()
	red := lib.NewLambertian(core.NewVec3(0.8, 0.1, 0.1))
	root := arena.AddList(arena.AddSphere(core.NewVec3(0, 0, 0), 0.5, red))
	return NewWorld(arena, lib, root)
}

// mixedWorld has one sphere of every material kind under a light
func mixedWorld() *World {
	arena := geometry.NewArena()
	lib := material.NewLibrary()

	ground := lib.NewTexturedLambertian(lib.NewCheckerColors(0.5, core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9)))
	metal := lib.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glass := lib.NewDielectric(1.5)
	light := lib.NewDiffuseLight(core.NewVec3(4, 4, 4))

	refs := []geometry.Ref{
		arena.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground),
		arena.AddSphere(core.NewVec3(-0.6, 0, -1), 0.4, metal),
		arena.AddSphere(core.NewVec3(0.6, 0, -1), 0.4, glass),
		arena.AddQuad(core.NewVec3(-1, 1.5, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), light),
	}
	root, err := arena.BuildBVH(refs, geometry.DefaultBuildOptions())
	if err != nil {
		panic(err)
	}
	return NewWorld(arena, lib, root)
}

func pixelAt(cam *Camera, x, y int) [3]float32 {
	idx := (y*cam.Width() + x) * 3
	p := cam.Pixels()
	return [3]float32{p[idx], p[idx+1], p[idx+2]}
}
