package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

func TestRayColor_DepthZeroIsBlack(t *testing.T) {
	world := redSphereWorld()
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	if c := RayColor(ray, 0, world, fixedSampler{value: 0.5}); c != (core.Vec3{}) {
		t.Errorf("Expected black at depth 0, got %v", c)
	}
}

func TestRayColor_MissReturnsBackground(t *testing.T) {
	world := redSphereWorld()
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))

	c := RayColor(ray, 5, world, fixedSampler{value: 0.5})
	if c.Subtract(DefaultSky).Length() > 1e-12 {
		t.Errorf("Expected sky %v, got %v", DefaultSky, c)
	}
}

func TestRayColor_EmissiveSurface(t *testing.T) {
	arena := geometry.NewArena()
	lib := material.NewLibrary()
	light := lib.NewDiffuseLight(core.NewVec3(2, 3, 4))
	root := arena.AddList(arena.AddQuad(core.NewVec3(-1, -1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), light))
	world := NewWorld(arena, lib, root)

	c := RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 3, world, fixedSampler{value: 0.5})
	if c.Subtract(core.NewVec3(2, 3, 4)).Length() > 1e-12 {
		t.Errorf("Expected light emission, got %v", c)
	}
}

func TestRayColor_OneBounceOnRedSphere(t *testing.T) {
	world := redSphereWorld()
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	var rec material.HitRecord
	if !world.Geometry.Hit(world.Root, ray, hitInterval, &rec) {
		t.Fatal("Center ray should hit the sphere")
	}
	if math.Abs(rec.T-0.5) > 1e-9 {
		t.Errorf("Expected t=0.5, got %f", rec.T)
	}

	// With one bounce the scattered ray is traced at depth 0 and returns black
	if c := RayColor(ray, 1, world, core.NewSeededSampler(1)); c != (core.Vec3{}) {
		t.Errorf("Expected black after one bounce, got %v", c)
	}

	// With two bounces the scattered ray can reach the sky, tinted by the albedo
	c := RayColor(ray, 2, world, core.NewSeededSampler(1))
	if c.X <= 0 || c.X > 0.8 || c.Y > 0.1*1.0+1e-12 || c.Z > 0.1*1.0+1e-12 {
		t.Errorf("Expected a red-tinted sky sample, got %v", c)
	}
}

func TestRender_ConcreteSphereScenario(t *testing.T) {
	cam := NewCamera(testCameraConfig(11, 1, 1))
	stats, err := cam.Render(redSphereWorld(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalPixels != 121 || stats.TotalSamples != 121 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	if center := pixelAt(cam, 5, 5); center != [3]float32{} {
		t.Errorf("Center pixel should be black after one bounce, got %v", center)
	}

	sky := WriteColor(DefaultSky)
	for _, corner := range [][2]int{{0, 0}, {10, 0}, {0, 10}, {10, 10}} {
		got := pixelAt(cam, corner[0], corner[1])
		for k := 0; k < 3; k++ {
			if math.Abs(float64(got[k]-sky[k])) > 1e-6 {
				t.Errorf("Corner %v: expected sky %v, got %v", corner, sky, got)
				break
			}
		}
	}
}

func TestRender_PartitionsAgree(t *testing.T) {
	world := mixedWorld()
	configs := []Config{
		{Partition: PartitionRowBlocks, Threads: 1, Seed: 9},
		{Partition: PartitionRowBlocks, Threads: 7, Seed: 9},
		{Partition: PartitionRowBlocks, Threads: 100, Seed: 9},
		{Partition: PartitionTiles, Threads: 3, TileSize: 5, Seed: 9},
		{Partition: PartitionTiles, Threads: 8, TileSize: 16, Seed: 9},
	}

	var reference []float32
	for i, cfg := range configs {
		cam := NewCamera(testCameraConfig(24, 4, 6))
		if _, err := cam.Render(world, cfg); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			reference = append([]float32(nil), cam.Pixels()...)
			continue
		}
		for k, v := range cam.Pixels() {
			if v != reference[k] {
				t.Fatalf("Config %d (%s, %d threads) differs at %d: %f vs %f", i, cfg.Partition, cfg.Threads, k, v, reference[k])
			}
		}
	}
}

func TestRender_SeedChangesNoise(t *testing.T) {
	world := mixedWorld()
	render := func(seed uint64) []float32 {
		cam := NewCamera(testCameraConfig(16, 2, 6))
		if _, err := cam.Render(world, Config{Partition: PartitionTiles, Threads: 4, TileSize: 8, Seed: seed}); err != nil {
			t.Fatal(err)
		}
		return cam.Pixels()
	}

	a, b := render(1), render(2)
	differs := false
	for k := range a {
		if a[k] != b[k] {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("Different seeds should produce different noise")
	}
}

func TestNewRaytracer_Errors(t *testing.T) {
	cam := NewCamera(testCameraConfig(4, 1, 1))

	tests := []struct {
		name     string
		world    *World
		camera   *Camera
		config   Config
		expected error
	}{
		{"nil world", nil, cam, DefaultConfig(), ErrNoWorld},
		{"invalid root", &World{Geometry: geometry.NewArena(), Materials: material.NewLibrary(), Root: geometry.Ref{Kind: geometry.KindBVH}}, cam, DefaultConfig(), ErrNoWorld},
		{"nil camera", redSphereWorld(), nil, DefaultConfig(), ErrInvalidConfig},
		{"negative threads", redSphereWorld(), cam, Config{Partition: PartitionTiles, Threads: -1, TileSize: 8}, ErrInvalidConfig},
		{"zero tile size", redSphereWorld(), cam, Config{Partition: PartitionTiles, Threads: 2}, ErrInvalidConfig},
		{"bad camera", redSphereWorld(), NewCamera(CameraConfig{Width: 4, AspectRatio: 1}), DefaultConfig(), ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRaytracer(tt.world, tt.camera, tt.config, nil)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestWorld_BackgroundLookup(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		u, v      float64
	}{
		{"up", core.NewVec3(0, 1, 0), 0.5, 1},
		{"down", core.NewVec3(0, -1, 0), 0.5, 0},
		{"+X", core.NewVec3(1, 0, 0), 0.5, 0.5},
		{"-X", core.NewVec3(-1, 0, 0), 0, 0.5},
		{"unnormalized", core.NewVec3(0, 5, 0), 0.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uv := directionUV(tt.direction)
			if math.Abs(uv.X-tt.u) > 1e-9 || math.Abs(uv.Y-tt.v) > 1e-9 {
				t.Errorf("Expected (%f, %f), got (%f, %f)", tt.u, tt.v, uv.X, uv.Y)
			}
		})
	}
}
